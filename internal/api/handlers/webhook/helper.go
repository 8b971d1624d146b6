package webhook

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/api"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/helpdesk"
)

// maxWebhookBody caps the raw body read; helpdesk payloads are small.
const maxWebhookBody = 1 << 20

// handleWebhook verifies the raw request body against the provider signature
// and returns the widget HTML fragment. Signature verification always runs on
// the raw bytes, never on a re-encoded body.
func handleWebhook(s *api.Server, c echo.Context, slug string, signatureHeader string) error {
	ctx := c.Request().Context()
	log := util.LogFromContext(ctx)

	integration, err := s.Helpdesks.Lookup(slug)
	if err != nil {
		return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeGeneric, "Unknown helpdesk provider.")
	}

	if !integration.IsActive() {
		return httperrors.NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeConfigurationMissing, "The helpdesk provider is not configured.")
	}

	rawBody, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Failed to read request body.")
	}

	if err := integration.VerifyRequest(rawBody, c.Request().Header.Get(signatureHeader)); err != nil {
		log.Warn().Str("provider", slug).Msg("Rejected webhook with invalid signature")
		return httperrors.NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeSignatureInvalid, "The webhook signature is invalid.")
	}

	html, err := integration.Widget(ctx, rawBody)
	if err != nil {
		if errors.Is(err, helpdesk.ErrMalformedWebhook) {
			return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "The webhook payload is malformed.")
		}
		log.Error().Err(err).Str("provider", slug).Msg("Failed to render helpdesk widget")
		return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Failed to render helpdesk widget.")
	}

	return util.ValidateAndReturn(c, http.StatusOK, &types.PostWebhookResponse{HTML: html})
}
