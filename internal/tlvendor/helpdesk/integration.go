// Package helpdesk exposes helpdesk providers behind one capability
// interface, selected via a registry instead of inheritance chains.
package helpdesk

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrSignatureInvalid  = errors.New("webhook signature is invalid")
	ErrProviderNotFound  = errors.New("helpdesk provider not found")
	ErrProviderNotActive = errors.New("helpdesk provider is not active")
	ErrSecretNotSet      = errors.New("helpdesk shared secret is not configured")
	ErrMalformedWebhook  = errors.New("webhook payload is malformed")
)

// Integration 帮助台集成能力接口
type Integration interface {
	// Slug 供注册表查找的提供方标识
	Slug() string
	// IsActive 该集成是否配置完整可用
	IsActive() bool
	// VerifyRequest 校验 webhook 原始请求体确实来自该帮助台
	VerifyRequest(rawBody []byte, signatureHeader string) error
	// Widget 解析 webhook 载荷并返回嵌入帮助台侧边栏的 HTML 片段，
	// 片段只负责发起兑换协议，不做任何进一步的界面渲染。
	Widget(ctx context.Context, rawBody []byte) (string, error)
}

// Registry 提供方注册表
type Registry struct {
	integrations map[string]Integration
	active       string
}

// NewRegistry 注册全部集成并记录当前启用的提供方
func NewRegistry(active string, integrations ...Integration) *Registry {
	m := make(map[string]Integration, len(integrations))
	for _, integration := range integrations {
		m[integration.Slug()] = integration
	}

	return &Registry{integrations: m, active: active}
}

// Lookup 按标识查找集成
func (r *Registry) Lookup(slug string) (Integration, error) {
	integration, ok := r.integrations[slug]
	if !ok {
		return nil, ErrProviderNotFound
	}

	return integration, nil
}

// Active 返回当前启用的集成
//
//nolint:ireturn // returning interface is intentional for abstraction
func (r *Registry) Active() (Integration, error) {
	integration, err := r.Lookup(r.active)
	if err != nil {
		return nil, err
	}

	if !integration.IsActive() {
		return nil, ErrProviderNotActive
	}

	return integration, nil
}
