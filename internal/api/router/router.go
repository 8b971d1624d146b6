package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/audit"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/keys"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/management"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/settings"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/support"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/verify"
	"github.com/trustedlogin/go-vendor/internal/api/handlers/webhook"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/api/middleware"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
)

// Init wires the echo instance, middleware stack and route groups into the
// server. Must be called after the server components are initialized.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = errorHandler(s)

	s.Echo.Use(echoMiddleware.Recover())
	s.Echo.Use(middleware.RequestLogger())

	bearer := middleware.BearerAuth(s.Auth)

	s.Router = &api.Router{
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),

		// agent-facing endpoints require a known bearer token
		APIV1Support:  s.Echo.Group("/api/v1/support", bearer),
		APIV1Keys:     s.Echo.Group("/api/v1/keys", bearer),
		APIV1Audit:    s.Echo.Group("/api/v1/audit", bearer),
		APIV1Settings: s.Echo.Group("/api/v1/settings", bearer),

		// webhooks authenticate via the helpdesk signature, not a bearer token
		APIV1Webhook: s.Echo.Group("/api/v1/webhook"),

		// public surface consumed by customer-side plugins
		TrustedLoginV1: s.Echo.Group("/trustedlogin/v1"),
	}

	attachAllRoutes(s)
}

func attachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		management.GetReadyRoute(s),
		management.GetHealthyRoute(s),

		support.PostAccessLoginRoute(s),

		webhook.PostHelpScoutRoute(s),
		webhook.PostIntercomRoute(s),

		keys.GetPublicKeyRoute(s),
		keys.PostResetKeysRoute(s),

		audit.GetActivityLogRoute(s),

		settings.PostVerifyRoute(s),

		verify.GetVerifyRoute(s),
	}
}

// errorHandler renders typed errors as the stable public JSON error body.
func errorHandler(s *api.Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var payload interface{}

		switch e := err.(type) { //nolint:errorlint // echo error handler receives the unwrapped error
		case *httperrors.HTTPError:
			code = int(*e.Code)
			if e.Internal != nil {
				util.LogFromContext(c.Request().Context()).Error().Err(e.Internal).Msg("HTTP error with internal cause")
			}
			payload = e.PublicHTTPError
		case *httperrors.HTTPValidationError:
			code = int(*e.Code)
			payload = e.PublicHTTPValidationError
		case *echo.HTTPError:
			code = e.Code
			title := http.StatusText(code)
			if msg, ok := e.Message.(string); ok && !s.Config.Echo.HideInternalServerErrorDetails {
				title = msg
			}
			payload = types.NewPublicHTTPError(code, types.PublicHTTPErrorTypeGeneric, title)
		default:
			util.LogFromContext(c.Request().Context()).Error().Err(err).Msg("Unhandled error")
			code = http.StatusInternalServerError
			title := http.StatusText(code)
			if !s.Config.Echo.HideInternalServerErrorDetails {
				title = err.Error()
			}
			payload = types.NewPublicHTTPError(code, types.PublicHTTPErrorTypeGeneric, title)
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				util.LogFromContext(c.Request().Context()).Error().Err(err).Msg("Failed to write error response")
			}
			return
		}

		if err := c.JSON(code, payload); err != nil {
			util.LogFromContext(c.Request().Context()).Error().Err(err).Msg("Failed to write error response")
		}
	}
}
