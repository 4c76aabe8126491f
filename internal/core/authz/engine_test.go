package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

type stubAccounts struct {
	byID map[string]*domain.Account
	err  error
}

func newStubAccounts(accounts ...*domain.Account) *stubAccounts {
	s := &stubAccounts{byID: make(map[string]*domain.Account)}
	for _, a := range accounts {
		s.byID[a.ID] = a
	}
	return s
}

func (s *stubAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *stubAccounts) FindByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, a := range s.byID {
		if a.Username == identifier || a.Email == identifier {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

type stubReviews struct {
	owners map[string]string
	err    error
}

func (s *stubReviews) FindOwnerID(_ context.Context, reviewID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	owner, ok := s.owners[reviewID]
	if !ok {
		return "", domain.ErrReviewNotFound
	}
	return owner, nil
}

var (
	alice = &domain.Account{ID: "1", Username: "alice", Email: "alice@example.com", Roles: []domain.Role{domain.RoleUser}}
	bob   = &domain.Account{ID: "2", Username: "bob", Email: "bob@example.com", Roles: []domain.Role{domain.RoleUser}}
	carol = &domain.Account{ID: "3", Username: "carol", Roles: []domain.Role{domain.RoleAdmin}}
	dave  = &domain.Account{ID: "4", Username: "dave", Roles: []domain.Role{domain.RoleAdmin}}
	root  = &domain.Account{ID: "5", Username: "root", Roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}}
)

func principalOf(a *domain.Account) domain.Principal {
	return domain.NewPrincipal(a.Username, a.ID, a.Roles)
}

func newTestEngine(accounts *stubAccounts, reviews *stubReviews) *Engine {
	return NewEngine(accounts, NewOwnershipResolver(accounts, reviews), zerolog.Nop())
}

func defaultEngine() *Engine {
	return newTestEngine(
		newStubAccounts(alice, bob, carol, dave, root),
		&stubReviews{owners: map[string]string{"42": alice.ID, "43": bob.ID}},
	)
}

func TestEngine_Authorize(t *testing.T) {
	anonymous := domain.AnonymousPrincipal()

	tests := []struct {
		name      string
		principal domain.Principal
		rule      Rule
		target    string
		allowed   bool
		reason    Reason
	}{
		{"public allows anonymous", anonymous, Public(), "", true, ReasonNone},
		{"authenticated denies anonymous", anonymous, Authenticated(), "", false, ReasonUnauthenticated},
		{"authenticated allows user", principalOf(alice), Authenticated(), "", true, ReasonNone},
		{"role rule denies anonymous", anonymous, RequireRole(domain.RoleAdmin), "", false, ReasonUnauthenticated},

		{"admin satisfies admin", principalOf(carol), RequireRole(domain.RoleAdmin), "", true, ReasonNone},
		{"user lacks admin", principalOf(alice), RequireRole(domain.RoleAdmin), "", false, ReasonInsufficientRole},
		{"superadmin outranks admin", domain.NewPrincipal("sa", "9", []domain.Role{domain.RoleSuperAdmin}), RequireRole(domain.RoleAdmin), "", true, ReasonNone},
		{"admin lacks superadmin", principalOf(carol), RequireRole(domain.RoleSuperAdmin), "", false, ReasonInsufficientRole},
		{"admin satisfies user", principalOf(carol), RequireRole(domain.RoleUser), "", true, ReasonNone},
		{"no roles lacks user", domain.NewPrincipal("ghost", "99", nil), RequireRole(domain.RoleUser), "", false, ReasonInsufficientRole},

		{"author edits own review", principalOf(alice), RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin), "42", true, ReasonNone},
		{"non author denied review", principalOf(bob), RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin), "42", false, ReasonNotOwnerNorPrivileged},
		{"admin edits any review", principalOf(carol), RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin), "42", true, ReasonNone},
		{"missing review is not owned", principalOf(alice), RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin), "404", false, ReasonNotOwnerNorPrivileged},

		{"self updates own email", principalOf(alice), RequireSelf(), alice.ID, true, ReasonNone},
		{"self rule denies other account", principalOf(alice), RequireSelf(), bob.ID, false, ReasonNotOwnerNorPrivileged},
		{"self rule ignores privilege", principalOf(carol), RequireSelf(), alice.ID, false, ReasonNotOwnerNorPrivileged},

		{"admin deletes user", principalOf(carol), RequireRole(domain.RoleAdmin).Protected(), alice.ID, true, ReasonNone},
		{"admin cannot delete admin", principalOf(carol), RequireRole(domain.RoleAdmin).Protected(), dave.ID, false, ReasonProtectedAccount},
		{"admin cannot delete superadmin", principalOf(carol), RequireRole(domain.RoleAdmin).Protected(), root.ID, false, ReasonProtectedAccount},
		{"admin cannot delete itself", principalOf(carol), RequireRole(domain.RoleAdmin).Protected(), carol.ID, false, ReasonProtectedAccount},
		{"superadmin deletes admin", principalOf(root), RequireRole(domain.RoleAdmin).Protected(), dave.ID, true, ReasonNone},
		{"admin deletes missing account", principalOf(carol), RequireRole(domain.RoleAdmin).Protected(), "404", true, ReasonNone},
		{"user denied before protection", principalOf(alice), RequireRole(domain.RoleAdmin).Protected(), bob.ID, false, ReasonInsufficientRole},
		{"user protected mutation of self", principalOf(alice), RequireRole(domain.RoleUser).Protected(), alice.ID, true, ReasonNone},
		{"user protected mutation of other", principalOf(alice), RequireRole(domain.RoleUser).Protected(), bob.ID, false, ReasonNotOwnerNorPrivileged},
		{"admin changes roles needs superadmin", principalOf(carol), RequireRole(domain.RoleSuperAdmin).Protected(), alice.ID, false, ReasonInsufficientRole},

		{"user updates own profile", principalOf(alice), RequireSelfOrProtectedRole(domain.RoleAdmin), alice.ID, true, ReasonNone},
		{"admin cannot update own protected profile", principalOf(carol), RequireSelfOrProtectedRole(domain.RoleAdmin), carol.ID, false, ReasonProtectedAccount},
		{"superadmin updates own profile", principalOf(root), RequireSelfOrProtectedRole(domain.RoleAdmin), root.ID, true, ReasonNone},
		{"admin updates user profile", principalOf(carol), RequireSelfOrProtectedRole(domain.RoleAdmin), alice.ID, true, ReasonNone},
		{"admin cannot update admin profile", principalOf(carol), RequireSelfOrProtectedRole(domain.RoleAdmin), dave.ID, false, ReasonProtectedAccount},
		{"superadmin updates admin profile", principalOf(root), RequireSelfOrProtectedRole(domain.RoleAdmin), dave.ID, true, ReasonNone},
		{"user cannot update other profile", principalOf(alice), RequireSelfOrProtectedRole(domain.RoleAdmin), bob.ID, false, ReasonNotOwnerNorPrivileged},
	}

	engine := defaultEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := engine.Authorize(context.Background(), Request{
				Principal: tt.principal,
				Rule:      tt.rule,
				Target:    Target{ID: tt.target},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestEngine_OwnershipAlternativeFollowsAuthorship(t *testing.T) {
	reviews := &stubReviews{owners: map[string]string{"42": bob.ID}}
	engine := newTestEngine(newStubAccounts(alice, bob), reviews)
	req := Request{
		Principal: principalOf(alice),
		Rule:      RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin),
		Target:    Target{ID: "42"},
	}

	d, err := engine.Authorize(context.Background(), req)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Err(), domain.ErrNotOwnerNorPrivileged)

	reviews.owners["42"] = alice.ID
	d, err = engine.Authorize(context.Background(), req)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.NoError(t, d.Err())
}

func TestEngine_ResolvesAccountIDFromSubject(t *testing.T) {
	engine := defaultEngine()
	// a principal without a resolved account id still owns its account
	p := domain.NewPrincipal("alice@example.com", "", []domain.Role{domain.RoleUser})

	d, err := engine.Authorize(context.Background(), Request{Principal: p, Rule: RequireSelf(), Target: Target{ID: alice.ID}})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestEngine_MissingTarget(t *testing.T) {
	engine := defaultEngine()

	_, err := engine.Authorize(context.Background(), Request{Principal: principalOf(alice), Rule: RequireSelf()})
	require.ErrorIs(t, err, ErrMissingTarget)

	// anonymous callers are rejected before the target matters
	d, err := engine.Authorize(context.Background(), Request{Principal: domain.AnonymousPrincipal(), Rule: RequireSelf()})
	require.NoError(t, err)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestEngine_StoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")

	accounts := newStubAccounts(alice, carol, dave)
	engine := newTestEngine(accounts, &stubReviews{err: boom})

	_, err := engine.Authorize(context.Background(), Request{
		Principal: principalOf(alice),
		Rule:      RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin),
		Target:    Target{ID: "42"},
	})
	require.ErrorIs(t, err, boom)

	accounts.err = boom
	_, err = engine.Authorize(context.Background(), Request{
		Principal: principalOf(carol),
		Rule:      RequireRole(domain.RoleAdmin).Protected(),
		Target:    Target{ID: dave.ID},
	})
	require.ErrorIs(t, err, boom)
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, allow().Err())
	assert.ErrorIs(t, deny(ReasonUnauthenticated).Err(), domain.ErrUnauthenticated)
	assert.ErrorIs(t, deny(ReasonInsufficientRole).Err(), domain.ErrInsufficientRole)
	assert.ErrorIs(t, deny(ReasonNotOwnerNorPrivileged).Err(), domain.ErrNotOwnerNorPrivileged)
	assert.ErrorIs(t, deny(ReasonProtectedAccount).Err(), domain.ErrProtectedAccount)
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "public", Public().String())
	assert.Equal(t, "require_role(Admin)+protected", RequireRole(domain.RoleAdmin).Protected().String())
	assert.Equal(t, "require_role_or_owner(Admin)", RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin).String())
	assert.False(t, RequireRoleOrOwner(domain.ResourceReview, domain.RoleAdmin).Protected().IsProtected())
}
