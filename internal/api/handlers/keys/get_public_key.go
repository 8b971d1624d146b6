package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
)

func GetPublicKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.GET("/public", getPublicKeyHandler(s))
}

// getPublicKeyHandler returns the PEM encoded public key, generating the key
// pair on first use.
func getPublicKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		publicKey, err := s.KeyStore.GetPublicKey(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get public key")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeKeyError, "Failed to get public key.")
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.GetPublicKeyResponse{PublicKey: publicKey})
	}
}
