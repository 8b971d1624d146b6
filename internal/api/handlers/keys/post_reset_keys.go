package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
)

func PostResetKeysRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.POST("/reset", postResetKeysHandler(s))
}

// postResetKeysHandler destroys the current key pair. Envelopes encrypted to
// the old public key become permanently undecryptable, hence the explicit
// confirmation flag.
func postResetKeysHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostResetKeysPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.KeyStore.ResetKeys(ctx, body.Confirm); err != nil {
			if errors.Is(err, keystore.ErrResetNotConfirmed) {
				return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Key reset requires explicit confirmation.")
			}
			log.Error().Err(err).Msg("Failed to reset key pair")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeKeyError, "Failed to reset key pair.")
		}

		log.Warn().Msg("Key pair has been reset")

		return c.NoContent(http.StatusNoContent)
	}
}
