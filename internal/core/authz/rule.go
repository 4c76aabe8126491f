// Package authz decides whether a Principal may perform an operation.
//
// Endpoints declare a Rule built from a small closed set of variants. The
// Engine evaluates the rule against the caller, the role hierarchy, the
// ownership of the targeted resource and the protected-account invariant.
// Decisions are recomputed for every request and never cached.
package authz

import (
	"strings"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// Kind enumerates the rule variants.
type Kind int

const (
	KindPublic Kind = iota
	KindAuthenticated
	KindRequireRole
	KindRequireRoleOrOwner
	KindRequireSelf
	KindRequireSelfOrProtectedRole
)

func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindAuthenticated:
		return "authenticated"
	case KindRequireRole:
		return "require_role"
	case KindRequireRoleOrOwner:
		return "require_role_or_owner"
	case KindRequireSelf:
		return "require_self"
	case KindRequireSelfOrProtectedRole:
		return "require_self_or_protected_role"
	default:
		return "unknown"
	}
}

// Rule is the access requirement attached to an endpoint. Build rules with
// the constructors below; the zero Rule is Public.
type Rule struct {
	kind      Kind
	roles     []domain.Role
	resource  domain.ResourceKind
	protected bool
}

// Public allows every caller, authenticated or not.
func Public() Rule {
	return Rule{kind: KindPublic}
}

// Authenticated allows any authenticated caller.
func Authenticated() Rule {
	return Rule{kind: KindAuthenticated}
}

// RequireRole allows callers holding one of roles, or a higher role.
func RequireRole(roles ...domain.Role) Rule {
	return Rule{kind: KindRequireRole, roles: roles}
}

// RequireRoleOrOwner allows callers holding one of roles, or the owner of the
// targeted resource of the given kind.
func RequireRoleOrOwner(kind domain.ResourceKind, roles ...domain.Role) Rule {
	return Rule{kind: KindRequireRoleOrOwner, roles: roles, resource: kind}
}

// RequireSelf allows only the owner of the targeted account.
func RequireSelf() Rule {
	return Rule{kind: KindRequireSelf, resource: domain.ResourceAccount}
}

// RequireSelfOrProtectedRole allows the owner of the targeted account, or a
// caller holding one of roles. Either way the protected-account invariant
// applies, so an Admin is refused on a protected account even its own.
func RequireSelfOrProtectedRole(roles ...domain.Role) Rule {
	return Rule{kind: KindRequireSelfOrProtectedRole, roles: roles, resource: domain.ResourceAccount, protected: true}
}

// Protected marks the rule as guarding a mutation of the targeted account,
// so the protected-account invariant is enforced after the rule passes.
// It has no effect on rules whose target is not an account.
func (r Rule) Protected() Rule {
	if r.resource == "" {
		r.resource = domain.ResourceAccount
	}
	r.protected = r.resource == domain.ResourceAccount
	return r
}

func (r Rule) Kind() Kind                    { return r.kind }
func (r Rule) Resource() domain.ResourceKind { return r.resource }
func (r Rule) IsProtected() bool             { return r.protected }

// Roles returns a copy of the roles the rule requires.
func (r Rule) Roles() []domain.Role {
	cp := make([]domain.Role, len(r.roles))
	copy(cp, r.roles)
	return cp
}

// NeedsTarget reports whether evaluating the rule requires a target id.
func (r Rule) NeedsTarget() bool {
	switch r.kind {
	case KindRequireRoleOrOwner, KindRequireSelf, KindRequireSelfOrProtectedRole:
		return true
	}
	return r.protected
}

func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(r.kind.String())
	if len(r.roles) > 0 {
		b.WriteByte('(')
		b.WriteString(strings.Join(domain.RoleNames(r.roles), ","))
		b.WriteByte(')')
	}
	if r.protected {
		b.WriteString("+protected")
	}
	return b.String()
}
