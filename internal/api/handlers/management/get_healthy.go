package management

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// getHealthyHandler additionally probes the database connection.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		if err := s.DB.PingContext(ctx); err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Database ping failed")
			return c.String(521, "Not healthy.")
		}

		return c.String(http.StatusOK, "Healthy.")
	}
}
