package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// ErrMissingTarget is returned when a rule that inspects a resource is
// evaluated without a target id. It signals a wiring bug, not a DENY.
var ErrMissingTarget = errors.New("authz: rule requires a target resource")

// OwnershipChecker is satisfied by *OwnershipResolver.
type OwnershipChecker interface {
	IsOwner(ctx context.Context, p domain.Principal, resourceID string, kind domain.ResourceKind) (bool, error)
}

// Target identifies the resource an operation acts on. Its kind is the one
// declared by the rule.
type Target struct {
	ID string
}

// Request is one authorization question.
type Request struct {
	Principal domain.Principal
	Rule      Rule
	Target    Target
}

// Engine evaluates Requests. It holds no per-request state and only reads
// from its collaborators, so one Engine serves all requests concurrently.
type Engine struct {
	accounts AccountFinder
	owners   OwnershipChecker
	log      zerolog.Logger
}

func NewEngine(accounts AccountFinder, owners OwnershipChecker, log zerolog.Logger) *Engine {
	return &Engine{accounts: accounts, owners: owners, log: log}
}

// Authorize decides req. A non-nil error means a collaborator failed and no
// decision could be made; it is never used to express a DENY.
//
// Evaluation order:
//  1. Public rules allow unconditionally.
//  2. Unauthenticated callers are denied.
//  3. Role and ownership requirements of the rule variant.
//  4. For protected mutations, the protected-account invariant. It runs
//     after the rule has allowed and can only turn ALLOW into DENY.
func (e *Engine) Authorize(ctx context.Context, req Request) (Decision, error) {
	rule, p := req.Rule, req.Principal

	if rule.kind == KindPublic {
		return allow(), nil
	}
	if !p.IsAuthenticated() {
		return e.denied(req, ReasonUnauthenticated), nil
	}
	if rule.NeedsTarget() && req.Target.ID == "" {
		return Decision{}, fmt.Errorf("%w: %s", ErrMissingTarget, rule)
	}

	var (
		self bool
		err  error
	)
	switch rule.kind {
	case KindAuthenticated:

	case KindRequireRole:
		if !p.Satisfies(rule.roles) {
			return e.denied(req, ReasonInsufficientRole), nil
		}

	case KindRequireRoleOrOwner:
		if !p.Satisfies(rule.roles) {
			owner, err := e.owners.IsOwner(ctx, p, req.Target.ID, rule.resource)
			if err != nil {
				return Decision{}, err
			}
			if !owner {
				return e.denied(req, ReasonNotOwnerNorPrivileged), nil
			}
		}

	case KindRequireSelf:
		if self, err = e.isSelf(ctx, p, req.Target.ID); err != nil {
			return Decision{}, err
		}
		if !self {
			return e.denied(req, ReasonNotOwnerNorPrivileged), nil
		}

	case KindRequireSelfOrProtectedRole:
		if self, err = e.isSelf(ctx, p, req.Target.ID); err != nil {
			return Decision{}, err
		}
		if !self && !p.Satisfies(rule.roles) {
			return e.denied(req, ReasonNotOwnerNorPrivileged), nil
		}

	default:
		return Decision{}, fmt.Errorf("authz: unknown rule kind %d", rule.kind)
	}

	// The invariant applies to the caller's own account too: an Admin
	// holding a protected account cannot mutate it through an Admin route.
	if rule.protected {
		reason, err := e.checkProtection(ctx, p, req.Target.ID)
		if err != nil {
			return Decision{}, err
		}
		if reason != ReasonNone {
			return e.denied(req, reason), nil
		}
	}
	return allow(), nil
}

// checkProtection enforces the protected-account invariant for a mutation of
// the account targetID by p.
func (e *Engine) checkProtection(ctx context.Context, p domain.Principal, targetID string) (Reason, error) {
	switch p.HighestRole() {
	case domain.RoleSuperAdmin:
		return ReasonNone, nil

	case domain.RoleAdmin:
		target, err := e.accounts.FindByID(ctx, targetID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return ReasonNone, nil
		}
		if err != nil {
			return ReasonNone, fmt.Errorf("load target account: %w", err)
		}
		if target.IsProtected() {
			return ReasonProtectedAccount, nil
		}
		return ReasonNone, nil

	default:
		self, err := e.isSelf(ctx, p, targetID)
		if err != nil {
			return ReasonNone, err
		}
		if !self {
			return ReasonNotOwnerNorPrivileged, nil
		}
		return ReasonNone, nil
	}
}

func (e *Engine) isSelf(ctx context.Context, p domain.Principal, accountID string) (bool, error) {
	return e.owners.IsOwner(ctx, p, accountID, domain.ResourceAccount)
}

func (e *Engine) denied(req Request, reason Reason) Decision {
	e.log.Debug().
		Str("rule", req.Rule.String()).
		Str("subject", req.Principal.Subject()).
		Str("target", req.Target.ID).
		Str("reason", string(reason)).
		Msg("authorization denied")
	return deny(reason)
}
