package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/util"
)

// BearerAuth resolves the bearer token to an actor and attaches it to the
// request context. Requests without a known token never reach the handler.
func BearerAuth(authService *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return httperrors.ErrUnauthorized
			}

			actor, err := authService.Authenticate(token)
			if err != nil {
				util.LogFromContext(c.Request().Context()).Warn().Msg("Rejected unknown agent token")
				return httperrors.ErrUnauthorized
			}

			req := c.Request()
			ctx := auth.WithActor(req.Context(), actor)

			l := util.LogFromContext(ctx).With().Str("user_id", actor.ID).Logger()
			c.SetRequest(req.WithContext(l.WithContext(ctx)))

			return next(c)
		}
	}
}
