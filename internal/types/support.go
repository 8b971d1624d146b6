package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/pkg/errors"
)

// PostAccessLoginPayload 支持坐席提交访问密钥的请求体
type PostAccessLoginPayload struct {
	AccessKey string `json:"access_key" form:"access_key"`
	Nonce     string `json:"nonce" form:"nonce"`
}

// Validate 校验访问密钥格式（32-64 个字符的不透明查找令牌）
func (p *PostAccessLoginPayload) Validate() error {
	if p.AccessKey == "" {
		return errors.New("access_key is required")
	}
	if len(p.AccessKey) < 32 || len(p.AccessKey) > 64 {
		return errors.New("access_key must be between 32 and 64 characters")
	}
	if p.Nonce == "" {
		return errors.New("nonce is required")
	}

	return nil
}

// PostAccessLoginResponse 重定向目标的三元组，由调用方组装 302 跳转
type PostAccessLoginResponse struct {
	SiteURL    string `json:"siteurl"`
	Endpoint   string `json:"endpoint"`
	Identifier string `json:"identifier"`
}

// PostWebhookResponse 帮助台 webhook 的成功响应
type PostWebhookResponse struct {
	HTML string `json:"html"`
}

// GetPublicKeyResponse 公开的加密公钥
type GetPublicKeyResponse struct {
	PublicKey string `json:"public_key"`
}

// PostResetKeysPayload 密钥重置必须显式确认，旧密文将永久不可解密
type PostResetKeysPayload struct {
	Confirm bool `json:"confirm"`
}

// PostVerifySettingsPayload 设置保存路径上的账户校验请求
type PostVerifySettingsPayload struct {
	AccountID string `json:"account_id"`
	APIKey    string `json:"api_key"`
}

// Validate 两个字段都不能为空
func (p *PostVerifySettingsPayload) Validate() error {
	if p.AccountID == "" {
		return errors.New("account_id is required")
	}
	if p.APIKey == "" {
		return errors.New("api_key is required")
	}

	return nil
}

// PostVerifySettingsResponse 账户校验结果
type PostVerifySettingsResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// GetActivityLogResponseEntry 审计日志条目（site_id 仅存哈希）
type GetActivityLogResponseEntry struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Time       *strfmt.DateTime `json:"time"`
	SiteIDHash string           `json:"site_id"`
	Action     string           `json:"action"`
	Notes      string           `json:"notes,omitempty"`
}

// GetActivityLogResponse 审计日志查询响应
type GetActivityLogResponse struct {
	Entries []*GetActivityLogResponseEntry `json:"entries"`
	Total   int64                          `json:"total"`
}
