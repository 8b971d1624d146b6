package audit

import (
	"context"

	"github.com/dropbox/godropbox/time2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/util"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

var ErrUnauthorized = errors.New("actor is not authorized to read the audit log")

// Logger 审计日志接口
// 条目只追加，从不更新或删除；裁剪/保留属于外部运维职责。
type Logger interface {
	// Record 追加一条审计记录。无已认证执行者时返回 false 且不落盘，
	// 审计条目必须归属于一个已知执行者。
	Record(ctx context.Context, siteIDHash string, action Action, note string) bool
	// ListRecent 返回最近的审计条目（时间倒序）。
	// 执行者缺少管理能力时返回 ErrUnauthorized。
	ListRecent(ctx context.Context, limit int) ([]*storage.AuditEntry, error)
}

// logger 审计日志实现
type logger struct {
	store     storage.Store
	clock     time2.Clock
	adminRole string
}

// NewLogger 创建新的审计日志
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewLogger(store storage.Store, clock time2.Clock, adminRole string) Logger {
	return &logger{
		store:     store,
		clock:     clock,
		adminRole: adminRole,
	}
}

// Record 记录审计事件
func (l *logger) Record(ctx context.Context, siteIDHash string, action Action, note string) bool {
	actor := auth.ActorFromContext(ctx)
	if actor == nil || actor.ID == "" {
		return false
	}

	entry := &storage.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     actor.ID,
		Time:       l.clock.Now(),
		SiteIDHash: siteIDHash,
		Action:     string(action),
		Notes:      note,
	}

	if err := l.store.AppendAuditEntry(ctx, entry); err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to append audit entry")
		return false
	}

	return true
}

// ListRecent 查询最近的审计条目
func (l *logger) ListRecent(ctx context.Context, limit int) ([]*storage.AuditEntry, error) {
	actor := auth.ActorFromContext(ctx)
	if !actor.HasRole(l.adminRole) {
		return nil, ErrUnauthorized
	}

	entries, err := l.store.ListAuditEntries(ctx, &storage.AuditFilter{Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit entries")
	}

	return entries, nil
}
