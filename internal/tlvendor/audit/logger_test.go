package audit_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/audit"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

// mockAuditStore 用于测试的内存审计存储
type mockAuditStore struct {
	entries []*storage.AuditEntry
}

func (m *mockAuditStore) GetSetting(_ context.Context, _ string) (string, error) {
	return "", storage.ErrSettingNotFound
}

func (m *mockAuditStore) SetSetting(_ context.Context, _ string, _ string) error {
	return nil
}

func (m *mockAuditStore) SetSettingIfAbsent(_ context.Context, _ string, _ string) (bool, error) {
	return true, nil
}

func (m *mockAuditStore) DeleteSetting(_ context.Context, _ string) error {
	return nil
}

func (m *mockAuditStore) AppendAuditEntry(_ context.Context, entry *storage.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditStore) ListAuditEntries(_ context.Context, filter *storage.AuditFilter) ([]*storage.AuditEntry, error) {
	entries := make([]*storage.AuditEntry, len(m.entries))
	copy(entries, m.entries)

	// 时间倒序
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})

	if filter != nil && filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}

	return entries, nil
}

func (m *mockAuditStore) SaveLicense(_ context.Context, _ *storage.License) error {
	return nil
}

func (m *mockAuditStore) LicenseExists(_ context.Context, _ string, _ string, _ string) (bool, error) {
	return false, nil
}

func actorContext(id string, roles ...string) context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{ID: id, Roles: roles})
}

func TestRecord(t *testing.T) {
	store := &mockAuditStore{}
	clock := time2.NewMockClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	logger := audit.NewLogger(store, clock, "administrator")

	ctx := actorContext("agent-1", "support")

	ok := logger.Record(ctx, "site-hash-1", audit.ActionRequested, "")
	assert.True(t, ok)
	require.Len(t, store.entries, 1)

	entry := store.entries[0]
	assert.Equal(t, "agent-1", entry.UserID)
	assert.Equal(t, "site-hash-1", entry.SiteIDHash)
	assert.Equal(t, string(audit.ActionRequested), entry.Action)
	assert.Equal(t, clock.Now(), entry.Time)
	assert.NotEmpty(t, entry.ID)
}

func TestRecordWithoutActorWritesNothing(t *testing.T) {
	store := &mockAuditStore{}
	logger := audit.NewLogger(store, time2.NewMockClock(time.Now()), "administrator")

	// 审计条目必须归属于一个已知执行者
	ok := logger.Record(context.Background(), "site-hash-1", audit.ActionRequested, "")
	assert.False(t, ok)
	assert.Empty(t, store.entries)
}

func TestListRecentRequiresAdminRole(t *testing.T) {
	store := &mockAuditStore{}
	logger := audit.NewLogger(store, time2.NewMockClock(time.Now()), "administrator")

	_, err := logger.ListRecent(actorContext("agent-1", "support"), 10)
	assert.ErrorIs(t, err, audit.ErrUnauthorized)

	_, err = logger.ListRecent(context.Background(), 10)
	assert.ErrorIs(t, err, audit.ErrUnauthorized)
}

func TestListRecentNewestFirst(t *testing.T) {
	store := &mockAuditStore{}
	clock := time2.NewMockClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	logger := audit.NewLogger(store, clock, "administrator")

	ctx := actorContext("agent-1", "support", "administrator")

	for i := 0; i < 3; i++ {
		require.True(t, logger.Record(ctx, "site-hash", audit.ActionRequested, ""))
		clock.Advance(time.Minute)
	}

	entries, err := logger.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Time.After(entries[1].Time))
}
