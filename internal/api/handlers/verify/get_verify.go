package verify

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/license"
)

func GetVerifyRoute(s *api.Server) *echo.Route {
	return s.Router.TrustedLoginV1.GET("/verify", getVerifyHandler(s))
}

// getVerifyHandler answers whether a license key is known to this vendor.
// The endpoint is public; it never discloses more than existence.
func getVerifyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		key := c.QueryParam("key")
		licenseType := c.QueryParam("type")
		siteURL := c.QueryParam("siteurl")

		if key == "" || licenseType == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "key and type are required")
		}

		exists, err := s.LicenseService.Exists(ctx, key, licenseType, siteURL)
		if err != nil {
			if errors.Is(err, license.ErrTypeNotAllowed) {
				return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "license type is not supported")
			}
			log.Error().Err(err).Msg("Failed to verify license")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to verify license.")
		}

		if !exists {
			return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeGeneric, "No matching license was found.")
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.GetVerifyResponse{Verified: true})
	}
}
