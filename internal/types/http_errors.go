package types

import (
	"github.com/go-openapi/swag"
)

// PublicHTTPErrorType values are part of the external error contract and must
// stay stable across releases.
const (
	PublicHTTPErrorTypeGeneric              = "generic"
	PublicHTTPErrorTypeUnauthorized         = "unauthorized"
	PublicHTTPErrorTypeConfigurationMissing = "configuration-missing"
	PublicHTTPErrorTypeAccountInactive      = "account-inactive"
	PublicHTTPErrorTypeTransportError       = "transport-error"
	PublicHTTPErrorTypeVerifyFailed400      = "verify-failed-400"
	PublicHTTPErrorTypeVerifyFailed403      = "verify-failed-403"
	PublicHTTPErrorTypeVerifyFailed404      = "verify-failed-404"
	PublicHTTPErrorTypeGone                 = "gone"
	PublicHTTPErrorTypeVerifyFailed424      = "verify-failed-424"
	PublicHTTPErrorTypeAPIErrors            = "api-errors"
	PublicHTTPErrorTypeEmptyBody            = "empty-body"
	PublicHTTPErrorTypeMalformedEnvelope    = "malformed-envelope"
	PublicHTTPErrorTypeDataEmpty            = "data-empty"
	PublicHTTPErrorTypeDataMalformed        = "data-malformed"
	PublicHTTPErrorTypeKeyError             = "key-error"
	PublicHTTPErrorTypeDecryptionFailed     = "decryption-failed"
	PublicHTTPErrorTypeMethodNotAllowed     = "method-not-allowed"
	PublicHTTPErrorTypeSignatureInvalid     = "signature-invalid"
)

// PublicHTTPError is the JSON error body returned by all endpoints.
type PublicHTTPError struct {
	Code    *int64  `json:"code"`
	Type    *string `json:"type"`
	Title   *string `json:"title"`
	Message string  `json:"message,omitempty"`
}

// HTTPValidationErrorDetail describes a single invalid request field.
type HTTPValidationErrorDetail struct {
	Key   *string `json:"key"`
	In    *string `json:"in"`
	Error *string `json:"error"`
}

// PublicHTTPValidationError extends PublicHTTPError with per-field details.
type PublicHTTPValidationError struct {
	PublicHTTPError
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

// NewPublicHTTPError assembles the error body.
func NewPublicHTTPError(code int, errorType, title string) *PublicHTTPError {
	return &PublicHTTPError{
		Code:  swag.Int64(int64(code)),
		Type:  swag.String(errorType),
		Title: swag.String(title),
	}
}
