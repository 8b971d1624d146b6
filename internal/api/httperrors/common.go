package httperrors

import (
	"net/http"

	"github.com/trustedlogin/go-vendor/internal/types"
)

var (
	ErrUnauthorized = NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeUnauthorized, "You are not authorized to perform this action.")
	ErrForbidden    = NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeUnauthorized, "You do not hold a role approved for this action.")
)
