package domain

import "strings"

// Role is a privilege level held by an account. Roles are totally ordered:
// RoleUser < RoleAdmin < RoleSuperAdmin.
type Role string

const (
	RoleUser       Role = "User"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "SuperAdmin"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// protectedRoles are the roles whose holders an Admin may not mutate.
var protectedRoles = []Role{RoleAdmin, RoleSuperAdmin}

// ParseRole converts a role name into a Role. Matching is case-insensitive
// so that "admin" and "Admin" resolve to the same role.
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for r := range roleRank {
		if strings.EqualFold(string(r), name) {
			return r, true
		}
	}
	return "", false
}

// Rank returns the position of r in the hierarchy. Unknown roles rank 0.
func (r Role) Rank() int {
	return roleRank[r]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r grants at least the privilege of other.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && r.Rank() >= other.Rank()
}

// IsProtected reports whether accounts holding r are shielded from
// mutation by an Admin.
func (r Role) IsProtected() bool {
	for _, p := range protectedRoles {
		if r == p {
			return true
		}
	}
	return false
}

// HighestRole returns the most privileged known role in roles, or "" when
// roles holds none.
func HighestRole(roles []Role) Role {
	var top Role
	for _, r := range roles {
		if r.Rank() > top.Rank() {
			top = r
		}
	}
	return top
}

// AnyProtected reports whether any of roles is protected.
func AnyProtected(roles []Role) bool {
	for _, r := range roles {
		if r.IsProtected() {
			return true
		}
	}
	return false
}

// RoleNames converts roles to their string form.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return names
}

// ParseRoles converts role names into Roles, deduplicating them. The second
// return value is the first unknown name, if any.
func ParseRoles(names []string) ([]Role, string) {
	seen := make(map[Role]struct{}, len(names))
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, ok := ParseRole(n)
		if !ok {
			return nil, n
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles, ""
}
