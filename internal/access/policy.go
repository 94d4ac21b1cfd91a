// Package access decides what a verified principal may see or do. It owns no
// state: every decision is a pure function of the principal and the resource
// restrictions, evaluated independently on each request.
package access

import "github.com/abz-group/portal-api/internal/domain"

// Principal is the authenticated identity a decision is made for.
type Principal struct {
	UserID string
	Role   string
}

// Resource describes the visibility restrictions attached to a portal entity
// (dashboard cards, documents). Zero value means visible to any
// authenticated user.
type Resource struct {
	AdminOnly      bool
	ManagerOnly    bool
	AllowedRoles   []string
	AllowedUserIDs []string
}

// tier maps a role to its rank in the admin ⊇ manager ⊇ user hierarchy.
func tier(role string) int {
	switch role {
	case domain.RoleAdmin:
		return 3
	case domain.RoleManager:
		return 2
	case domain.RoleUser:
		return 1
	}
	return 0
}

// AtLeast reports whether role sits at or above required in the tier
// hierarchy. Unknown roles rank below USER and satisfy nothing.
func AtLeast(role, required string) bool {
	r := tier(role)
	return r > 0 && r >= tier(required)
}

// CanAccess reports whether p may access res. When a resource declares both a
// role restriction and an explicit user allow-list, they combine as a union:
// satisfying either one grants access. A resource restricted only to a user
// allow-list bypasses the role tier entirely.
func CanAccess(p Principal, res Resource) bool {
	restrictedByUsers := len(res.AllowedUserIDs) > 0
	restrictedByRole := res.AdminOnly || res.ManagerOnly || len(res.AllowedRoles) > 0

	if !restrictedByUsers && !restrictedByRole {
		return true
	}

	for _, id := range res.AllowedUserIDs {
		if id == p.UserID {
			return true
		}
	}
	if !restrictedByRole {
		return false
	}

	if res.AdminOnly {
		return p.Role == domain.RoleAdmin
	}
	if res.ManagerOnly {
		return AtLeast(p.Role, domain.RoleManager)
	}
	for _, role := range res.AllowedRoles {
		if p.Role == role {
			return true
		}
	}
	return false
}
