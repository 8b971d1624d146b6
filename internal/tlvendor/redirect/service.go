package redirect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/config"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/audit"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/authz"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/keystore"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/remote"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

var (
	// ErrUnauthorized 故意不携带细节，避免向未授权执行者暴露密钥有效性
	ErrUnauthorized         = errors.New("unauthorized")
	ErrConfigurationMissing = errors.New("account id or api key is not configured")
	ErrAccountInactive      = errors.New("account is not active")
	ErrMalformedEnvelope    = errors.New("envelope is missing required fields")
)

// AccountVerifier SaaS 账户校验能力（*remote.Client 实现）
type AccountVerifier interface {
	VerifyAccount(ctx context.Context, accountID string) (*remote.AccountStatus, error)
}

// VaultClient vault 查询能力（*remote.Client 实现）
type VaultClient interface {
	Send(ctx context.Context, path string, body interface{}, method string) (*remote.Response, error)
}

// VaultClientFactory 以令牌集中的读密钥构造 vault 客户端
type VaultClientFactory func(readKey string) VaultClient

// Service 重定向编排服务接口
// 状态机：授权 → 令牌 → 取信封 → 解密/校验 → 生成目标，
// 每一步失败都是本次请求的终态，内部没有重试循环。
type Service interface {
	RedirectFor(ctx context.Context, accessKey string) (*Target, error)
}

// service 重定向编排服务实现
type service struct {
	cfg         config.Server
	store       storage.Store
	keyStore    keystore.Service
	auditLogger audit.Logger
	clock       time2.Clock
	saas        AccountVerifier
	vaultFor    VaultClientFactory
}

// NewService 创建新的重定向编排服务
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewService(
	cfg config.Server,
	store storage.Store,
	keyStore keystore.Service,
	auditLogger audit.Logger,
	clock time2.Clock,
	saas AccountVerifier,
	vaultFor VaultClientFactory,
) Service {
	return &service{
		cfg:         cfg,
		store:       store,
		keyStore:    keyStore,
		auditLogger: auditLogger,
		clock:       clock,
		saas:        saas,
		vaultFor:    vaultFor,
	}
}

// RedirectFor 将访问密钥兑换为重定向目标
func (s *service) RedirectFor(ctx context.Context, accessKey string) (*Target, error) {
	// 未授权时不再记录任何信息，防止密钥有效性探测
	actor := auth.ActorFromContext(ctx)
	if !authz.IsAuthorized(actor, s.cfg.Auth.ApprovedRoles) {
		return nil, ErrUnauthorized
	}

	tokens, err := s.tokenSet(ctx)
	if err != nil {
		return nil, err
	}

	keyHash := util.HashIdentifier(accessKey)
	s.auditLogger.Record(ctx, keyHash, audit.ActionRequested, "")

	envelope, err := s.fetchEnvelope(ctx, tokens, accessKey)
	if err != nil {
		// 保留具体错误种类：gone 意味着需要申请新密钥，
		// verify-failed-404 则可能稍后重试
		s.auditLogger.Record(ctx, keyHash, audit.ActionReceived, "failed: "+remote.KindOf(err))
		return nil, err
	}

	s.auditLogger.Record(ctx, keyHash, audit.ActionReceived, "successful")

	target, err := s.validateEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Record(ctx, keyHash, audit.ActionRedirected, "successful")

	return target, nil
}

// tokenSet 取回令牌集，优先使用未过期的缓存
func (s *service) tokenSet(ctx context.Context) (*tokenSetCache, error) {
	if s.cfg.TrustedLogin.AccountID == "" || s.cfg.TrustedLogin.APIKey == "" {
		return nil, ErrConfigurationMissing
	}

	if cached := s.cachedTokenSet(ctx); cached != nil {
		return cached, nil
	}

	status, err := s.saas.VerifyAccount(ctx, s.cfg.TrustedLogin.AccountID)
	if err != nil {
		if remote.IsKind(err, remote.KindAccountInactive) {
			return nil, errors.Wrap(ErrAccountInactive, err.Error())
		}
		return nil, err
	}

	tokens := &tokenSetCache{
		Name:        status.Name,
		Status:      status.Status,
		ReadKey:     status.ReadKey,
		WriteToken:  status.WriteToken,
		DeleteToken: status.DeleteToken,
		PublicKey:   status.PublicKey,
		FetchedAt:   s.clock.Now().Unix(),
	}

	if blob, err := json.Marshal(tokens); err == nil {
		// 缓存写失败不致命，下次重新校验即可
		if err := s.store.SetSetting(ctx, storage.SettingTokenSet, string(blob)); err != nil {
			util.LogFromContext(ctx).Warn().Err(err).Msg("Failed to cache token set")
		}
	}

	return tokens, nil
}

// cachedTokenSet 读取缓存的令牌集，过期或状态非 active 时视为缺失
func (s *service) cachedTokenSet(ctx context.Context) *tokenSetCache {
	blob, err := s.store.GetSetting(ctx, storage.SettingTokenSet)
	if err != nil {
		return nil
	}

	tokens := &tokenSetCache{}
	if err := json.Unmarshal([]byte(blob), tokens); err != nil {
		return nil
	}

	if tokens.Status != "active" {
		return nil
	}

	fetchedAt := time.Unix(tokens.FetchedAt, 0)
	if s.clock.Now().Sub(fetchedAt) > s.cfg.TrustedLogin.TokenCacheTTL {
		return nil
	}

	return tokens
}

// fetchEnvelope 以访问密钥查询 vault 并解出信封
func (s *service) fetchEnvelope(ctx context.Context, tokens *tokenSetCache, accessKey string) (*Envelope, error) {
	vault := s.vaultFor(tokens.ReadKey)

	resp, err := vault.Send(ctx, tokens.Name+"/"+url.PathEscape(accessKey), nil, http.MethodGet)
	if err != nil {
		return nil, err
	}

	if resp.NoContent {
		return nil, remote.NewAPIError(remote.KindEmptyBody, resp.StatusCode)
	}

	// 信封可能整体加密投递，此时先经密钥对解密再解析
	if sealed, ok := resp.Body["encrypted_envelope"].(string); ok && sealed != "" {
		plaintext, err := s.keyStore.Decrypt(ctx, sealed)
		if err != nil {
			return nil, err
		}

		envelope := &Envelope{}
		if err := json.Unmarshal([]byte(plaintext), envelope); err != nil {
			return nil, ErrMalformedEnvelope
		}
		return envelope, nil
	}

	raw, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode envelope body")
	}

	envelope := &Envelope{}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, ErrMalformedEnvelope
	}

	return envelope, nil
}

// validateEnvelope 校验信封形状并生成重定向目标
func (s *service) validateEnvelope(envelope *Envelope) (*Target, error) {
	if envelope.SiteURL == "" || envelope.Endpoint == "" || envelope.Identifier == "" {
		return nil, ErrMalformedEnvelope
	}

	parsed, err := url.Parse(envelope.SiteURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrMalformedEnvelope
	}

	// endpoint 与 identifier 必须是单段路径
	if !pathSafe(envelope.Endpoint) || !pathSafe(envelope.Identifier) {
		return nil, ErrMalformedEnvelope
	}

	return &Target{
		SiteURL:    envelope.SiteURL,
		Endpoint:   envelope.Endpoint,
		Identifier: envelope.Identifier,
	}, nil
}

func pathSafe(segment string) bool {
	if segment == "" {
		return false
	}

	return !strings.ContainsAny(segment, "/?#\\ ")
}
