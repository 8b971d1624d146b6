package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"github.com/trustedlogin/go-vendor/internal/tlvendor/signature"
)

// SignatureHeaderHelpScout HelpScout webhook 签名头
const SignatureHeaderHelpScout = "X-HELPSCOUT-SIGNATURE"

// helpScout HelpScout 集成
// 签名为请求体的 HMAC-SHA1 base64 值
type helpScout struct {
	sharedSecret string
	loginURL     string
}

// NewHelpScout 创建 HelpScout 集成
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewHelpScout(sharedSecret string, loginURL string) Integration {
	return &helpScout{sharedSecret: sharedSecret, loginURL: loginURL}
}

func (h *helpScout) Slug() string {
	return "helpscout"
}

func (h *helpScout) IsActive() bool {
	return h.sharedSecret != ""
}

// VerifyRequest 校验签名，密钥未配置时直接拒绝
func (h *helpScout) VerifyRequest(rawBody []byte, signatureHeader string) error {
	if h.sharedSecret == "" {
		return ErrSecretNotSet
	}

	if !signature.Verify(rawBody, signatureHeader, h.sharedSecret) {
		return ErrSignatureInvalid
	}

	return nil
}

// Widget 生成指向兑换端点的最小 HTML 片段
func (h *helpScout) Widget(_ context.Context, rawBody []byte) (string, error) {
	payload := struct {
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	}{}

	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return "", ErrMalformedWebhook
	}

	return fmt.Sprintf(
		`<ul><li><a href=%q>Log in via TrustedLogin</a> (%s)</li></ul>`,
		h.loginURL, html.EscapeString(payload.Customer.Email),
	), nil
}
