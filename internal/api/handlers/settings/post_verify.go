package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/remote"
)

func PostVerifyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Settings.POST("/verify", postVerifyHandler(s))
}

// postVerifyHandler checks submitted credentials against the SaaS API before
// they are saved, so a typo surfaces immediately instead of on the first
// access key exchange.
func postVerifyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostVerifySettingsPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		// 用提交的凭据构造一次性客户端，不触碰当前生效配置
		client := remote.NewClient(
			remote.TargetSaaS,
			s.Config.TrustedLogin.SaaSBaseURL,
			body.APIKey,
			remote.WithDebug(s.Config.TrustedLogin.DebugEnabled),
		)

		status, err := client.VerifyAccount(ctx, body.AccountID)
		if err != nil {
			log.Warn().Str("error_kind", remote.KindOf(err)).Msg("Settings verification failed")
			return mapVerifyError(err)
		}

		response := &types.PostVerifySettingsResponse{
			Name:   status.Name,
			Status: status.Status,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

// mapVerifyError keeps the remediation hints distinct: a wrong account ID, a
// rejected API key and an inactive account each need a different fix.
func mapVerifyError(err error) *httperrors.HTTPError {
	switch remote.KindOf(err) {
	case remote.KindTransportError:
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadGateway, types.PublicHTTPErrorTypeTransportError, "The TrustedLogin API could not be reached.", err)
	case remote.KindVerifyFailed400:
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeVerifyFailed400, "The account ID is invalid.")
	case remote.KindVerifyFailed403:
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeVerifyFailed403, "The API key was rejected.")
	case remote.KindVerifyFailed404:
		return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeVerifyFailed404, "No account with this ID was found.")
	case remote.KindAccountInactive:
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeAccountInactive, "The account exists but is not active.")
	case remote.KindEmptyBody:
		return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeEmptyBody, "The TrustedLogin API returned an empty response.")
	case remote.KindAPIErrors:
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadGateway, types.PublicHTTPErrorTypeAPIErrors, "The TrustedLogin API returned errors.", err)
	}

	return httperrors.NewHTTPErrorWithInternal(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Settings verification failed.", err)
}
