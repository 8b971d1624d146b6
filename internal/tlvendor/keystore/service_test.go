package keystore_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

// mockSettingsStore 用于测试的内存存储
type mockSettingsStore struct {
	settings map[string]string
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{settings: make(map[string]string)}
}

func (m *mockSettingsStore) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := m.settings[key]
	if !ok {
		return "", storage.ErrSettingNotFound
	}
	return value, nil
}

func (m *mockSettingsStore) SetSetting(_ context.Context, key string, value string) error {
	m.settings[key] = value
	return nil
}

func (m *mockSettingsStore) SetSettingIfAbsent(_ context.Context, key string, value string) (bool, error) {
	if _, ok := m.settings[key]; ok {
		return false, nil
	}
	m.settings[key] = value
	return true, nil
}

func (m *mockSettingsStore) DeleteSetting(_ context.Context, key string) error {
	delete(m.settings, key)
	return nil
}

func (m *mockSettingsStore) AppendAuditEntry(_ context.Context, _ *storage.AuditEntry) error {
	return nil
}

func (m *mockSettingsStore) ListAuditEntries(_ context.Context, _ *storage.AuditFilter) ([]*storage.AuditEntry, error) {
	return nil, nil
}

func (m *mockSettingsStore) SaveLicense(_ context.Context, _ *storage.License) error {
	return nil
}

func (m *mockSettingsStore) LicenseExists(_ context.Context, _ string, _ string, _ string) (bool, error) {
	return false, nil
}

func TestGetPublicKeyGeneratesOnce(t *testing.T) {
	ctx := context.Background()
	store := newMockSettingsStore()
	service := keystore.NewService(store)

	first, err := service.GetPublicKey(ctx)
	require.NoError(t, err)
	assert.Contains(t, first, "BEGIN PUBLIC KEY")

	// 第二次调用必须返回同一把公钥
	second, err := service.GetPublicKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetPublicKeyUsesExistingPair(t *testing.T) {
	ctx := context.Background()
	store := newMockSettingsStore()
	service := keystore.NewService(store)

	first, err := service.GetPublicKey(ctx)
	require.NoError(t, err)

	// 新的服务实例共享同一存储时不得重新生成
	other := keystore.NewService(store)
	second, err := other.GetPublicKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecryptRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMockSettingsStore()
	service := keystore.NewService(store)

	publicKeyPEM, err := service.GetPublicKey(ctx)
	require.NoError(t, err)

	ciphertext := encryptForTest(t, publicKeyPEM, "envelope-plaintext")

	plaintext, err := service.Decrypt(ctx, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "envelope-plaintext", plaintext)
}

func TestDecryptTypedErrors(t *testing.T) {
	ctx := context.Background()
	store := newMockSettingsStore()
	service := keystore.NewService(store)

	_, err := service.Decrypt(ctx, "")
	assert.ErrorIs(t, err, keystore.ErrDataEmpty)

	_, err = service.Decrypt(ctx, "not-base64!!!")
	assert.ErrorIs(t, err, keystore.ErrDataMalformed)

	// 尚无密钥对
	_, err = service.Decrypt(ctx, base64.StdEncoding.EncodeToString([]byte("ciphertext")))
	assert.ErrorIs(t, err, keystore.ErrNoPrivateKey)

	// 有密钥对但密文无法解密
	_, err = service.GetPublicKey(ctx)
	require.NoError(t, err)
	_, err = service.Decrypt(ctx, base64.StdEncoding.EncodeToString([]byte("garbage ciphertext")))
	assert.ErrorIs(t, err, keystore.ErrDecryptionFailed)
}

func TestResetKeysRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store := newMockSettingsStore()
	service := keystore.NewService(store)

	first, err := service.GetPublicKey(ctx)
	require.NoError(t, err)

	err = service.ResetKeys(ctx, false)
	assert.ErrorIs(t, err, keystore.ErrResetNotConfirmed)

	// 未确认时密钥对保持不变
	unchanged, err := service.GetPublicKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, unchanged)
}

func TestResetKeysDestroysOldPair(t *testing.T) {
	ctx := context.Background()
	store := newMockSettingsStore()
	service := keystore.NewService(store)

	oldPublicKey, err := service.GetPublicKey(ctx)
	require.NoError(t, err)

	ciphertext := encryptForTest(t, oldPublicKey, "sealed-before-reset")

	require.NoError(t, service.ResetKeys(ctx, true))

	newPublicKey, err := service.GetPublicKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, oldPublicKey, newPublicKey)

	// 旧公钥加密的密文永久不可解密
	_, err = service.Decrypt(ctx, ciphertext)
	assert.ErrorIs(t, err, keystore.ErrDecryptionFailed)
}

func encryptForTest(t *testing.T, publicKeyPEM string, plaintext string) string {
	t.Helper()

	block, _ := pem.Decode([]byte(publicKeyPEM))
	require.NotNil(t, block)

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)

	publicKey, ok := parsed.(*rsa.PublicKey)
	require.True(t, ok)

	ciphertext, err := rsa.EncryptOAEP(sha512.New(), rand.Reader, publicKey, []byte(plaintext), nil)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(ciphertext)
}
