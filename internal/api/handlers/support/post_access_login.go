package support

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
)

func PostAccessLoginRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Support.POST("/login", postAccessLoginHandler(s))
}

// postAccessLoginHandler exchanges an access key for the redirect target.
// The response carries the target triple; the agent UI performs the actual
// redirect to the customer site.
func postAccessLoginHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		// 浏览器发起的表单提交必须同源，防止跨站触发兑换
		if !refererAllowed(c.Request()) {
			return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeUnauthorized, "Cross-origin login requests are not allowed.")
		}

		var body types.PostAccessLoginPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		target, err := s.RedirectService.RedirectFor(ctx, body.AccessKey)
		if err != nil {
			// 访问密钥本身从不写入日志
			log.Warn().Str("error_kind", errKind(err)).Msg("Access key exchange failed")
			return mapRedirectError(err)
		}

		response := &types.PostAccessLoginResponse{
			SiteURL:    target.SiteURL,
			Endpoint:   target.Endpoint,
			Identifier: target.Identifier,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

// refererAllowed rejects requests whose Referer points at a foreign origin.
// Requests without a Referer (API clients) pass; they already hold a token.
func refererAllowed(req *http.Request) bool {
	referer := req.Header.Get("Referer")
	if referer == "" {
		return true
	}

	parsed, err := url.Parse(referer)
	if err != nil {
		return false
	}

	return parsed.Host == req.Host
}
