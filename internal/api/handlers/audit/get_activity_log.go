package audit

import (
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/audit"
)

const defaultLimit = 100

func GetActivityLogRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Audit.GET("/activity-log", getActivityLogHandler(s))
}

func getActivityLogHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		limit := defaultLimit
		if raw := c.QueryParam("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "limit must be a positive integer")
			}
			limit = parsed
		}

		entries, err := s.AuditLogger.ListRecent(ctx, limit)
		if err != nil {
			if errors.Is(err, audit.ErrUnauthorized) {
				return httperrors.ErrForbidden
			}
			log.Error().Err(err).Msg("Failed to list audit entries")
			return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to list audit entries.")
		}

		entryResponses := make([]*types.GetActivityLogResponseEntry, 0, len(entries))
		for _, entry := range entries {
			entryTime := strfmt.DateTime(entry.Time)
			entryResponses = append(entryResponses, &types.GetActivityLogResponseEntry{
				ID:         entry.ID,
				UserID:     entry.UserID,
				Time:       &entryTime,
				SiteIDHash: entry.SiteIDHash,
				Action:     entry.Action,
				Notes:      entry.Notes,
			})
		}

		response := &types.GetActivityLogResponse{
			Entries: entryResponses,
			Total:   int64(len(entryResponses)),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
