package authz

import "github.com/coffeetica/coffeetica/internal/core/domain"

// Reason explains a DENY.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonUnauthenticated       Reason = "unauthenticated"
	ReasonInsufficientRole      Reason = "insufficient_role"
	ReasonNotOwnerNorPrivileged Reason = "not_owner_nor_privileged"
	ReasonProtectedAccount      Reason = "protected_account"
)

// Decision is the outcome of one authorization request.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Outcome is "allow" or "deny", for logging and metrics labels.
func (d Decision) Outcome() string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}

// Err converts a DENY into its domain error; ALLOW yields nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return domain.ErrUnauthenticated
	case ReasonInsufficientRole:
		return domain.ErrInsufficientRole
	case ReasonNotOwnerNorPrivileged:
		return domain.ErrNotOwnerNorPrivileged
	case ReasonProtectedAccount:
		return domain.ErrProtectedAccount
	default:
		return domain.ErrInsufficientRole
	}
}
