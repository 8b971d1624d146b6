package support

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/api/httperrors"
	"github.com/trustedlogin/go-vendor/internal/types"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/redirect"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/remote"
)

// errKind returns a loggable classification of an exchange failure.
func errKind(err error) string {
	if kind := remote.KindOf(err); kind != "" {
		return kind
	}

	return "internal"
}

// mapRedirectError translates exchange failures into the public error body.
// The remote error kinds map to distinct remediation hints: "gone" means the
// customer must grant access again, "verify-failed-404" may succeed on retry.
func mapRedirectError(err error) *httperrors.HTTPError {
	switch {
	case errors.Is(err, redirect.ErrUnauthorized):
		// deliberately generic so an unauthorized caller cannot probe key validity
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeUnauthorized, "You are not authorized to perform this action.")
	case errors.Is(err, redirect.ErrConfigurationMissing):
		return httperrors.NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeConfigurationMissing, "Account ID and API key are not configured.")
	case errors.Is(err, redirect.ErrAccountInactive):
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeAccountInactive, "The vendor account is not active.")
	case errors.Is(err, redirect.ErrMalformedEnvelope):
		return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeMalformedEnvelope, "The secret envelope is malformed.")
	case errors.Is(err, keystore.ErrDataEmpty):
		return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeDataEmpty, "The encrypted envelope is empty.")
	case errors.Is(err, keystore.ErrDataMalformed):
		return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeDataMalformed, "The encrypted envelope is not valid base64.")
	case errors.Is(err, keystore.ErrNoPrivateKey):
		return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeKeyError, "No key pair is available for decryption.")
	case errors.Is(err, keystore.ErrDecryptionFailed):
		return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeDecryptionFailed, "The envelope could not be decrypted.")
	}

	switch remote.KindOf(err) {
	case remote.KindTransportError:
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadGateway, types.PublicHTTPErrorTypeTransportError, "The remote API could not be reached.", err)
	case remote.KindVerifyFailed400:
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeVerifyFailed400, "The remote API rejected the request.")
	case remote.KindVerifyFailed403:
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeVerifyFailed403, "The remote API rejected the credentials.")
	case remote.KindVerifyFailed404:
		return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeVerifyFailed404, "No secret was found for this access key.")
	case remote.KindGone:
		return httperrors.NewHTTPError(http.StatusGone, types.PublicHTTPErrorTypeGone, "The secret is no longer available. Ask the customer to grant access again.")
	case remote.KindVerifyFailed424:
		return httperrors.NewHTTPError(http.StatusFailedDependency, types.PublicHTTPErrorTypeVerifyFailed424, "The remote API failed on a dependency.")
	case remote.KindAPIErrors:
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadGateway, types.PublicHTTPErrorTypeAPIErrors, "The remote API returned errors.", err)
	case remote.KindEmptyBody:
		return httperrors.NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeEmptyBody, "The remote API returned an empty response.")
	case remote.KindMethodNotAllowed:
		return httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeMethodNotAllowed, "The remote API call used an unsupported method.")
	case remote.KindAccountInactive:
		return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeAccountInactive, "The vendor account is not active.")
	}

	return httperrors.NewHTTPErrorWithInternal(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, "Access key exchange failed.", err)
}
