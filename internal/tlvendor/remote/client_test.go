package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/remote"
)

func TestSendRejectsUnsupportedMethodBeforeIO(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	_, err := client.Send(context.Background(), "accounts/123", nil, http.MethodPatch)
	assert.True(t, remote.IsKind(err, remote.KindMethodNotAllowed))
	assert.False(t, called, "unsupported methods must be rejected before any network I/O")
}

func TestSendAppliesAuthHeaders(t *testing.T) {
	var saasAuth, vaultAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		saasAuth = r.Header.Get("Authorization")
		vaultAuth = r.Header.Get("X-Vault-Token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	saas := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")
	_, err := saas.Send(context.Background(), "accounts/123", nil, http.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, "Bearer api-key", saasAuth)
	assert.Empty(t, vaultAuth)

	vault := remote.NewClient(remote.TargetVault, server.URL, "read-key")
	_, err = vault.Send(context.Background(), "store/abc", nil, http.MethodGet)
	require.NoError(t, err)
	assert.Equal(t, "read-key", vaultAuth)
}

func TestSendStatusCodeTaxonomy(t *testing.T) {
	tests := []struct {
		status int
		kind   string
	}{
		{http.StatusBadRequest, remote.KindVerifyFailed400},
		{http.StatusForbidden, remote.KindVerifyFailed403},
		{http.StatusNotFound, remote.KindVerifyFailed404},
		{http.StatusGone, remote.KindGone},
		{http.StatusFailedDependency, remote.KindVerifyFailed424},
		{http.StatusInternalServerError, remote.KindAPIErrors},
		{http.StatusTeapot, remote.KindAPIErrors},
	}

	for _, tc := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")
		_, err := client.Send(context.Background(), "accounts/123", nil, http.MethodGet)

		assert.True(t, remote.IsKind(err, tc.kind), "status %d should map to kind %q, got %q", tc.status, tc.kind, remote.KindOf(err))
		server.Close()
	}
}

func TestSendNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	resp, err := client.Send(context.Background(), "accounts/123", nil, http.MethodDelete)
	require.NoError(t, err)
	assert.True(t, resp.NoContent)
}

func TestSendEmptySuccessBodyIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	_, err := client.Send(context.Background(), "accounts/123", nil, http.MethodGet)
	assert.True(t, remote.IsKind(err, remote.KindEmptyBody))
}

func TestSendTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	_, err := client.Send(context.Background(), "accounts/123", nil, http.MethodGet)
	assert.True(t, remote.IsKind(err, remote.KindTransportError))
}

func TestSendExtractsErrorDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":["first problem","second problem"]}`))
	}))
	defer server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	_, err := client.Send(context.Background(), "accounts/123", nil, http.MethodPost)
	require.True(t, remote.IsKind(err, remote.KindAPIErrors))

	var apiErr *remote.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"first problem", "second problem"}, apiErr.Details)
}

func TestVerifyAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/12345", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Acme Support","status":"active","read_key":"rk","write_token":"wt","delete_token":"dt","public_key":"pk"}`))
	}))
	defer server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	status, err := client.VerifyAccount(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Acme Support", status.Name)
	assert.Equal(t, "rk", status.ReadKey)
	assert.True(t, status.Active())
}

func TestVerifyAccountInactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Acme Support","status":"suspended"}`))
	}))
	defer server.Close()

	client := remote.NewClient(remote.TargetSaaS, server.URL, "api-key")

	_, err := client.VerifyAccount(context.Background(), "12345")
	assert.True(t, remote.IsKind(err, remote.KindAccountInactive))
}
