package storage

import (
	"context"
)

// Store 定义持久化存储接口
// 所有存储后端实现（PostgreSQL、内存等）都必须实现此接口
//
// 设置项是供应商配置的原子读写（密钥对、令牌缓存等均以设置项形式落盘），
// 审计日志只允许追加，从不更新或删除。
type Store interface {
	// 设置项操作
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key string, value string) error
	// SetSettingIfAbsent 原子地写入不存在的设置项，返回是否写入成功。
	// 密钥对的惰性生成依赖该原语避免并发双写。
	SetSettingIfAbsent(ctx context.Context, key string, value string) (bool, error)
	DeleteSetting(ctx context.Context, key string) error

	// 审计日志操作（仅追加）
	AppendAuditEntry(ctx context.Context, entry *AuditEntry) error
	ListAuditEntries(ctx context.Context, filter *AuditFilter) ([]*AuditEntry, error)

	// 许可证操作（供许可校验端点查询）
	SaveLicense(ctx context.Context, license *License) error
	LicenseExists(ctx context.Context, key string, licenseType string, siteURL string) (bool, error)
}

// AuditFilter 审计日志查询过滤器
type AuditFilter struct {
	UserID string
	Action string
	Limit  int
	Offset int
}
