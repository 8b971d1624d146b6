package storage

import (
	"time"
)

// 设置项键名，所有调用方共用同一张 KV 表。
const (
	SettingKeyPair  = "keypair"
	SettingTokenSet = "token_set"
)

// License 已同步的客户许可证记录
type License struct {
	Key       string
	Type      string
	SiteURL   string
	CreatedAt time.Time
}

// AuditEntry 审计日志条目
// SiteIDHash 是访问密钥的不可逆哈希，从不存储原始密钥或客户站点 URL。
type AuditEntry struct {
	ID         string
	UserID     string
	Time       time.Time
	SiteIDHash string
	Action     string
	Notes      string
}
