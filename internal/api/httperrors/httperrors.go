package httperrors

import (
	"fmt"

	"github.com/trustedlogin/go-vendor/internal/types"
)

// HTTPError wraps a public error payload so handlers can return it directly;
// the router's error handler renders it as JSON.
type HTTPError struct {
	types.PublicHTTPError
	Internal error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", *e.Code, *e.Type, *e.Title, e.Internal)
	}

	return fmt.Sprintf("HTTPError %d (%s): %s", *e.Code, *e.Type, *e.Title)
}

// NewHTTPError assembles an HTTPError with the stable error type string.
func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: *types.NewPublicHTTPError(code, errorType, title),
	}
}

// NewHTTPErrorWithInternal attaches the internal cause for logging; the cause
// is never rendered to the client.
func NewHTTPErrorWithInternal(code int, errorType, title string, internal error) *HTTPError {
	return &HTTPError{
		PublicHTTPError: *types.NewPublicHTTPError(code, errorType, title),
		Internal:        internal,
	}
}

// HTTPValidationError carries additional per-field details.
type HTTPValidationError struct {
	types.PublicHTTPValidationError
}

// Error implements the error interface.
func (e *HTTPValidationError) Error() string {
	return fmt.Sprintf("HTTPValidationError %d (%s): %s", *e.Code, *e.Type, *e.Title)
}

// NewHTTPValidationError assembles an HTTPValidationError.
func NewHTTPValidationError(code int, errorType, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError:  *types.NewPublicHTTPError(code, errorType, title),
			ValidationErrors: validationErrors,
		},
	}
}
