// Package authz decides whether an actor may be redirected into a customer
// site. Pure role-set evaluation; authentication state lives elsewhere.
package authz

import (
	"github.com/trustedlogin/go-vendor/internal/auth"
)

// IsAuthorized 判断执行者角色与批准角色是否有交集。
// 无交集、空角色或未认证（actor 为 nil）一律拒绝（fail closed）。
func IsAuthorized(actor *auth.Actor, approvedRoles []string) bool {
	if actor == nil || actor.ID == "" {
		return false
	}
	if len(actor.Roles) == 0 || len(approvedRoles) == 0 {
		return false
	}

	approved := make(map[string]bool, len(approvedRoles))
	for _, role := range approvedRoles {
		approved[role] = true
	}

	for _, role := range actor.Roles {
		if approved[role] {
			return true
		}
	}

	return false
}
