package redirect_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/config"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/audit"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/redirect"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/remote"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

const testAccessKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// mockStore 用于测试的内存存储
type mockStore struct {
	settings map[string]string
	entries  []*storage.AuditEntry
}

func newMockStore() *mockStore {
	return &mockStore{settings: make(map[string]string)}
}

func (m *mockStore) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := m.settings[key]
	if !ok {
		return "", storage.ErrSettingNotFound
	}
	return value, nil
}

func (m *mockStore) SetSetting(_ context.Context, key string, value string) error {
	m.settings[key] = value
	return nil
}

func (m *mockStore) SetSettingIfAbsent(_ context.Context, key string, value string) (bool, error) {
	if _, ok := m.settings[key]; ok {
		return false, nil
	}
	m.settings[key] = value
	return true, nil
}

func (m *mockStore) DeleteSetting(_ context.Context, key string) error {
	delete(m.settings, key)
	return nil
}

func (m *mockStore) AppendAuditEntry(_ context.Context, entry *storage.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockStore) ListAuditEntries(_ context.Context, _ *storage.AuditFilter) ([]*storage.AuditEntry, error) {
	return m.entries, nil
}

func (m *mockStore) SaveLicense(_ context.Context, _ *storage.License) error {
	return nil
}

func (m *mockStore) LicenseExists(_ context.Context, _ string, _ string, _ string) (bool, error) {
	return false, nil
}

// mockVerifier 固定返回账户状态的 SaaS mock
type mockVerifier struct {
	status *remote.AccountStatus
	err    error
	calls  int
}

func (m *mockVerifier) VerifyAccount(_ context.Context, _ string) (*remote.AccountStatus, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

// mockVault 固定返回响应的 vault mock
type mockVault struct {
	resp    *remote.Response
	err     error
	path    string
	readKey string
}

func (m *mockVault) Send(_ context.Context, path string, _ interface{}, _ string) (*remote.Response, error) {
	m.path = path
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func testConfig() config.Server {
	cfg := config.Server{}
	cfg.TrustedLogin.AccountID = "12345"
	cfg.TrustedLogin.APIKey = "api-key"
	cfg.TrustedLogin.TokenCacheTTL = 5 * time.Minute
	cfg.Auth.ApprovedRoles = []string{"support"}
	return cfg
}

func activeStatus() *remote.AccountStatus {
	return &remote.AccountStatus{
		Name:    "acme",
		Status:  "active",
		ReadKey: "read-key",
	}
}

func envelopeResponse() *remote.Response {
	return &remote.Response{
		StatusCode: http.StatusOK,
		Body: map[string]interface{}{
			"siteurl":    "https://client.example",
			"endpoint":   "trustedlogin",
			"identifier": "xyz",
		},
	}
}

//nolint:ireturn // tests construct the service through its public constructor
func newTestService(store *mockStore, keyStore keystore.Service, saas *mockVerifier, vault *mockVault) redirect.Service {
	clock := time2.NewMockClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	auditLogger := audit.NewLogger(store, clock, "administrator")

	vaultFor := func(readKey string) redirect.VaultClient {
		vault.readKey = readKey
		return vault
	}

	return redirect.NewService(testConfig(), store, keyStore, auditLogger, clock, saas, vaultFor)
}

func supportContext() context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{ID: "agent-1", Roles: []string{"support"}})
}

func TestRedirectForHappyPath(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{status: activeStatus()}
	vault := &mockVault{resp: envelopeResponse()}
	service := newTestService(store, keystore.NewService(store), saas, vault)

	target, err := service.RedirectFor(supportContext(), testAccessKey)
	require.NoError(t, err)

	assert.Equal(t, "https://client.example/trustedlogin/xyz", target.URL())
	assert.Equal(t, "acme/"+testAccessKey, vault.path)
	assert.Equal(t, "read-key", vault.readKey)

	// 三个阶段各落一条审计记录，且只存访问密钥哈希
	require.Len(t, store.entries, 3)
	keyHash := util.HashIdentifier(testAccessKey)
	actions := []string{}
	for _, entry := range store.entries {
		actions = append(actions, entry.Action)
		assert.Equal(t, keyHash, entry.SiteIDHash)
		assert.NotContains(t, entry.Notes, testAccessKey)
	}
	assert.Equal(t, []string{"requested", "received", "redirected"}, actions)
}

func TestRedirectForUnauthorizedLogsNothing(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{status: activeStatus()}
	vault := &mockVault{resp: envelopeResponse()}
	service := newTestService(store, keystore.NewService(store), saas, vault)

	ctx := auth.WithActor(context.Background(), &auth.Actor{ID: "agent-1", Roles: []string{"billing"}})

	_, err := service.RedirectFor(ctx, testAccessKey)
	assert.ErrorIs(t, err, redirect.ErrUnauthorized)

	// 未授权调用不得留下任何痕迹，防止密钥有效性探测
	assert.Empty(t, store.entries)
	assert.Zero(t, saas.calls)
}

func TestRedirectForMissingConfiguration(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{status: activeStatus()}
	vault := &mockVault{resp: envelopeResponse()}

	clock := time2.NewMockClock(time.Now())
	auditLogger := audit.NewLogger(store, clock, "administrator")
	cfg := testConfig()
	cfg.TrustedLogin.APIKey = ""

	service := redirect.NewService(cfg, store, keystore.NewService(store), auditLogger, clock, saas, func(string) redirect.VaultClient { return vault })

	_, err := service.RedirectFor(supportContext(), testAccessKey)
	assert.ErrorIs(t, err, redirect.ErrConfigurationMissing)
}

func TestRedirectForGoneSecret(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{status: activeStatus()}
	vault := &mockVault{err: remote.NewAPIError(remote.KindGone, http.StatusGone)}
	service := newTestService(store, keystore.NewService(store), saas, vault)

	_, err := service.RedirectFor(supportContext(), testAccessKey)
	assert.True(t, remote.IsKind(err, remote.KindGone))

	// requested + received(failed)，没有 redirected
	require.Len(t, store.entries, 2)
	assert.Equal(t, "requested", store.entries[0].Action)
	assert.Equal(t, "received", store.entries[1].Action)
	assert.Equal(t, "failed: gone", store.entries[1].Notes)
}

func TestRedirectForInactiveAccount(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{err: remote.NewAPIError(remote.KindAccountInactive, http.StatusOK)}
	vault := &mockVault{resp: envelopeResponse()}
	service := newTestService(store, keystore.NewService(store), saas, vault)

	_, err := service.RedirectFor(supportContext(), testAccessKey)
	assert.ErrorIs(t, err, redirect.ErrAccountInactive)
}

func TestRedirectForUsesTokenSetCache(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{status: activeStatus()}
	vault := &mockVault{resp: envelopeResponse()}
	service := newTestService(store, keystore.NewService(store), saas, vault)

	_, err := service.RedirectFor(supportContext(), testAccessKey)
	require.NoError(t, err)

	_, err = service.RedirectFor(supportContext(), testAccessKey)
	require.NoError(t, err)

	// TTL 内第二次兑换不再访问 SaaS
	assert.Equal(t, 1, saas.calls)
}

func TestRedirectForMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing endpoint", map[string]interface{}{"siteurl": "https://client.example", "identifier": "xyz"}},
		{"relative siteurl", map[string]interface{}{"siteurl": "client.example", "endpoint": "tl", "identifier": "xyz"}},
		{"path traversal in endpoint", map[string]interface{}{"siteurl": "https://client.example", "endpoint": "../admin", "identifier": "xyz"}},
		{"whitespace in identifier", map[string]interface{}{"siteurl": "https://client.example", "endpoint": "tl", "identifier": "a b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMockStore()
			saas := &mockVerifier{status: activeStatus()}
			vault := &mockVault{resp: &remote.Response{StatusCode: http.StatusOK, Body: tc.body}}
			service := newTestService(store, keystore.NewService(store), saas, vault)

			_, err := service.RedirectFor(supportContext(), testAccessKey)
			assert.ErrorIs(t, err, redirect.ErrMalformedEnvelope)
		})
	}
}

func TestRedirectForEncryptedEnvelope(t *testing.T) {
	store := newMockStore()
	saas := &mockVerifier{status: activeStatus()}

	envelope, err := json.Marshal(map[string]string{
		"siteurl":    "https://client.example",
		"endpoint":   "trustedlogin",
		"identifier": "xyz",
	})
	require.NoError(t, err)

	keyStore := &mockKeyStore{plaintext: string(envelope)}
	vault := &mockVault{resp: &remote.Response{
		StatusCode: http.StatusOK,
		Body:       map[string]interface{}{"encrypted_envelope": "sealed-blob"},
	}}
	service := newTestService(store, keyStore, saas, vault)

	target, err := service.RedirectFor(supportContext(), testAccessKey)
	require.NoError(t, err)
	assert.Equal(t, "https://client.example/trustedlogin/xyz", target.URL())
	assert.Equal(t, "sealed-blob", keyStore.sealed)
}

// mockKeyStore 返回固定明文的密钥服务 mock
type mockKeyStore struct {
	plaintext string
	sealed    string
}

func (m *mockKeyStore) GetPublicKey(_ context.Context) (string, error) {
	return "", nil
}

func (m *mockKeyStore) Decrypt(_ context.Context, payload string) (string, error) {
	m.sealed = payload
	return m.plaintext, nil
}

func (m *mockKeyStore) ResetKeys(_ context.Context, _ bool) error {
	return nil
}
