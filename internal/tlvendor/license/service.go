// Package license answers whether a customer holds a known license key,
// backing the public verify endpoint used by customer-side plugins.
package license

import (
	"context"

	"github.com/pkg/errors"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/storage"
)

var ErrTypeNotAllowed = errors.New("license type is not in the allow-list")

// Service 许可证查询服务接口
type Service interface {
	// Exists 判断许可证是否存在；type 不在允许列表时返回 ErrTypeNotAllowed。
	Exists(ctx context.Context, key string, licenseType string, siteURL string) (bool, error)
}

// service 许可证查询服务实现
type service struct {
	store        storage.Store
	allowedTypes map[string]bool
}

// NewService 创建新的许可证查询服务
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewService(store storage.Store, allowedTypes []string) Service {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}

	return &service{store: store, allowedTypes: allowed}
}

// Exists 查询许可证
func (s *service) Exists(ctx context.Context, key string, licenseType string, siteURL string) (bool, error) {
	if !s.allowedTypes[licenseType] {
		return false, ErrTypeNotAllowed
	}

	exists, err := s.store.LicenseExists(ctx, key, licenseType, siteURL)
	if err != nil {
		return false, errors.Wrap(err, "failed to query license")
	}

	return exists, nil
}
