package webhook

import (
	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/helpdesk"
)

func PostHelpScoutRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Webhook.POST("/helpscout", postHelpScoutHandler(s))
}

func postHelpScoutHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleWebhook(s, c, "helpscout", helpdesk.SignatureHeaderHelpScout)
	}
}
