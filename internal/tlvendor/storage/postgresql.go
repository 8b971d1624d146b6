package storage

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"
)

var ErrSettingNotFound = errors.New("setting not found")

// postgresqlStore 实现 PostgreSQL 存储后端
type postgresqlStore struct {
	db *sql.DB
}

// NewPostgreSQLStore 创建新的 PostgreSQL 存储后端
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewPostgreSQLStore(db *sql.DB) Store {
	return &postgresqlStore{db: db}
}

// GetSetting 读取设置项
func (s *postgresqlStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", errors.Wrap(err, "failed to get setting")
	}

	return value, nil
}

// SetSetting 写入设置项（存在则覆盖）
func (s *postgresqlStore) SetSetting(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return errors.Wrap(err, "failed to set setting")
	}

	return nil
}

// SetSettingIfAbsent 原子写入不存在的设置项
// 依赖 ON CONFLICT DO NOTHING，两个并发调用只有一个会写入成功。
func (s *postgresqlStore) SetSettingIfAbsent(ctx context.Context, key string, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO NOTHING`,
		key, value,
	)
	if err != nil {
		return false, errors.Wrap(err, "failed to insert setting")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read rows affected")
	}

	return rows == 1, nil
}

// DeleteSetting 删除设置项
func (s *postgresqlStore) DeleteSetting(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return errors.Wrap(err, "failed to delete setting")
	}

	return nil
}

// AppendAuditEntry 追加审计日志条目
func (s *postgresqlStore) AppendAuditEntry(ctx context.Context, entry *AuditEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, user_id, time, site_id_hash, action, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.Time, entry.SiteIDHash, entry.Action, entry.Notes,
	)
	if err != nil {
		return errors.Wrap(err, "failed to append audit entry")
	}

	return nil
}

// ListAuditEntries 查询审计日志，按时间倒序
func (s *postgresqlStore) ListAuditEntries(ctx context.Context, filter *AuditFilter) ([]*AuditEntry, error) {
	query := `SELECT id, user_id, time, site_id_hash, action, notes FROM audit_log`
	args := []interface{}{}
	where := ""

	if filter != nil {
		argn := 1
		if filter.UserID != "" {
			where = appendCondition(where, "user_id", argn)
			args = append(args, filter.UserID)
			argn++
		}
		if filter.Action != "" {
			where = appendCondition(where, "action", argn)
			args = append(args, filter.Action)
			argn++
		}
	}

	query += where + ` ORDER BY time DESC`

	if filter != nil && filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}
	if filter != nil && filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	entries := make([]*AuditEntry, 0)
	for rows.Next() {
		entry := &AuditEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Time, &entry.SiteIDHash, &entry.Action, &entry.Notes); err != nil {
			return nil, errors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

// SaveLicense 写入许可证记录（key+type 维度幂等）
func (s *postgresqlStore) SaveLicense(ctx context.Context, license *License) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO licenses (key, type, site_url, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key, type) DO UPDATE SET site_url = EXCLUDED.site_url`,
		license.Key, license.Type, license.SiteURL, license.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save license")
	}

	return nil
}

// LicenseExists 判断许可证是否存在，siteURL 为空时不参与匹配
func (s *postgresqlStore) LicenseExists(ctx context.Context, key string, licenseType string, siteURL string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM licenses WHERE key = $1 AND type = $2`
	args := []interface{}{key, licenseType}

	if siteURL != "" {
		query += ` AND site_url = $3`
		args = append(args, siteURL)
	}
	query += `)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check license existence")
	}

	return exists, nil
}

func appendCondition(where, column string, argn int) string {
	if where == "" {
		return ` WHERE ` + column + ` = $` + itoa(argn)
	}
	return where + ` AND ` + column + ` = $` + itoa(argn)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
