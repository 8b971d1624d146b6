package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trustedlogin/go-vendor/internal/auth"
	"github.com/trustedlogin/go-vendor/internal/tlvendor/authz"
)

func TestIsAuthorized(t *testing.T) {
	approved := []string{"support", "administrator"}

	actor := &auth.Actor{ID: "agent-1", Roles: []string{"support"}}
	assert.True(t, authz.IsAuthorized(actor, approved))

	multi := &auth.Actor{ID: "agent-2", Roles: []string{"billing", "administrator"}}
	assert.True(t, authz.IsAuthorized(multi, approved))
}

func TestIsAuthorizedFailsClosed(t *testing.T) {
	approved := []string{"support"}

	// 未认证
	assert.False(t, authz.IsAuthorized(nil, approved))
	assert.False(t, authz.IsAuthorized(&auth.Actor{Roles: []string{"support"}}, approved))

	// 无角色交集
	actor := &auth.Actor{ID: "agent-1", Roles: []string{"billing"}}
	assert.False(t, authz.IsAuthorized(actor, approved))

	// 空角色集合
	assert.False(t, authz.IsAuthorized(&auth.Actor{ID: "agent-1"}, approved))
	assert.False(t, authz.IsAuthorized(actor, nil))
	assert.False(t, authz.IsAuthorized(actor, []string{}))
}
