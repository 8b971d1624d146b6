package management

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler only reports whether the server components are initialized,
// it does not touch any downstream dependency.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
