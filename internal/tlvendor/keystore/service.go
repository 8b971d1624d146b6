package keystore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"sync"

	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

var (
	ErrDataEmpty         = errors.New("data is empty")
	ErrDataMalformed     = errors.New("data is malformed")
	ErrNoPrivateKey      = errors.New("no private key on record")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrResetNotConfirmed = errors.New("key reset requires explicit confirmation")
)

// rsaKeyBits 4096 位 RSA，OAEP 摘要使用 SHA-512
const rsaKeyBits = 4096

// Service 密钥对管理服务接口
type Service interface {
	// GetPublicKey 返回公钥 PEM，首次调用惰性生成密钥对并持久化。
	GetPublicKey(ctx context.Context) (string, error)
	// Decrypt 解密 base64 编码的密文，返回明文。明文从不写入日志。
	Decrypt(ctx context.Context, payload string) (string, error)
	// ResetKeys 销毁当前密钥对。破坏性操作：旧公钥加密的密文将永久不可解密，
	// 必须由调用方显式确认。
	ResetKeys(ctx context.Context, confirm bool) error
}

// service 密钥对管理服务实现
type service struct {
	store storage.Store

	// 惰性生成的进程内互斥，跨进程竞争由存储层 insert-if-absent 兜底
	mu sync.Mutex
}

// NewService 创建新的密钥对管理服务
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewService(store storage.Store) Service {
	return &service{store: store}
}

// GetPublicKey 获取公钥
func (s *service) GetPublicKey(ctx context.Context) (string, error) {
	pair, err := s.loadKeyPair(ctx)
	if err == nil {
		return pair.PublicKey, nil
	}
	if !errors.Is(err, storage.ErrSettingNotFound) {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 拿锁后重读，另一请求可能已经生成
	pair, err = s.loadKeyPair(ctx)
	if err == nil {
		return pair.PublicKey, nil
	}
	if !errors.Is(err, storage.ErrSettingNotFound) {
		return "", err
	}

	generated, err := generateKeyPair()
	if err != nil {
		return "", err
	}

	blob, err := json.Marshal(generated)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal key pair")
	}

	inserted, err := s.store.SetSettingIfAbsent(ctx, storage.SettingKeyPair, string(blob))
	if err != nil {
		return "", errors.Wrap(err, "failed to persist key pair")
	}

	if !inserted {
		// 另一进程抢先写入，使用已落盘的那一对
		pair, err = s.loadKeyPair(ctx)
		if err != nil {
			return "", err
		}
		return pair.PublicKey, nil
	}

	return generated.PublicKey, nil
}

// Decrypt 解密 vault 投递的密文
// 加密失败一律转换为类型化错误返回，不向调用方抛出底层异常。
func (s *service) Decrypt(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", ErrDataEmpty
	}

	ciphertext, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrDataMalformed
	}

	pair, err := s.loadKeyPair(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSettingNotFound) {
			return "", ErrNoPrivateKey
		}
		return "", err
	}

	priv, err := parsePrivateKey(pair.PrivateKey)
	if err != nil {
		return "", ErrNoPrivateKey
	}

	plaintext, err := rsa.DecryptOAEP(sha512.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil || len(plaintext) == 0 {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// ResetKeys 重置密钥对
func (s *service) ResetKeys(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}

	if err := s.store.DeleteSetting(ctx, storage.SettingKeyPair); err != nil {
		return errors.Wrap(err, "failed to delete key pair")
	}

	return nil
}

func (s *service) loadKeyPair(ctx context.Context) (*KeyPair, error) {
	blob, err := s.store.GetSetting(ctx, storage.SettingKeyPair)
	if err != nil {
		if errors.Is(err, storage.ErrSettingNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to load key pair")
	}

	pair := &KeyPair{}
	if err := json.Unmarshal([]byte(blob), pair); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal key pair")
	}

	return pair, nil
}

// generateKeyPair 生成 4096 位 RSA 密钥对并 PEM 编码
func generateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate RSA key pair")
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal private key")
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal public key")
	}

	return &KeyPair{
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})),
		PrivateKey: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
	}, nil
}

func parsePrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("failed to decode private key PEM")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}

	return rsaKey, nil
}
