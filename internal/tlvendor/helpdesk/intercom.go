package helpdesk

import (
	"context"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is Intercom's webhook signature scheme
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// SignatureHeaderIntercom Intercom webhook 签名头，值形如 "sha1=<hex>"
const SignatureHeaderIntercom = "X-Hub-Signature"

// intercom Intercom 集成
type intercom struct {
	sharedSecret string
	loginURL     string
}

// NewIntercom 创建 Intercom 集成
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewIntercom(sharedSecret string, loginURL string) Integration {
	return &intercom{sharedSecret: sharedSecret, loginURL: loginURL}
}

func (i *intercom) Slug() string {
	return "intercom"
}

func (i *intercom) IsActive() bool {
	return i.sharedSecret != ""
}

// VerifyRequest 校验 sha1=<hex> 形式的签名
func (i *intercom) VerifyRequest(rawBody []byte, signatureHeader string) error {
	if i.sharedSecret == "" {
		return ErrSecretNotSet
	}

	hexSig, found := strings.CutPrefix(signatureHeader, "sha1=")
	if !found || hexSig == "" {
		return ErrSignatureInvalid
	}

	h := hmac.New(sha1.New, []byte(i.sharedSecret))
	h.Write(rawBody)
	expected := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hexSig)) {
		return ErrSignatureInvalid
	}

	return nil
}

// Widget 生成指向兑换端点的最小 HTML 片段
func (i *intercom) Widget(_ context.Context, rawBody []byte) (string, error) {
	payload := struct {
		Data struct {
			Item struct {
				User struct {
					Email string `json:"email"`
				} `json:"user"`
			} `json:"item"`
		} `json:"data"`
	}{}

	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return "", ErrMalformedWebhook
	}

	return fmt.Sprintf(
		`<ul><li><a href=%q>Log in via TrustedLogin</a> (%s)</li></ul>`,
		i.loginURL, html.EscapeString(payload.Data.Item.User.Email),
	), nil
}
