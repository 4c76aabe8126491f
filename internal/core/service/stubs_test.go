package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Account
	nextID  int
	findErr error // if set, lookups return this error
}

func newStubAccountRepo(accounts ...*domain.Account) *stubAccountRepo {
	r := &stubAccountRepo{byID: make(map[string]*domain.Account)}
	for _, a := range accounts {
		clone := *a
		r.byID[a.ID] = &clone
	}
	return r
}

func (r *stubAccountRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if a.Username == identifier || strings.EqualFold(a.Email, identifier) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Username == account.Username || strings.EqualFold(a.Email, account.Email) {
			return nil, domain.ErrAccountExists
		}
	}
	r.nextID++
	clone := *account
	clone.ID = "acc-" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id string, username, email *string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if username != nil {
		a.Username = *username
	}
	if email != nil {
		a.Email = *email
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (r *stubAccountRepo) UpdateRoles(_ context.Context, id string, roles []domain.Role) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Roles = append([]domain.Role(nil), roles...)
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

// plainHasher stores secrets with a fixed prefix so tests can assert on hashes.
type plainHasher struct {
	calls int
}

func (h *plainHasher) Hash(secret string) (string, error) {
	h.calls++
	return "hashed:" + secret, nil
}

func (h *plainHasher) Matches(secret, hash string) bool {
	h.calls++
	return hash == "hashed:"+secret
}

type stubAuditRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubAuditRecorder) Record(e domain.AuditEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

type stubFailureTracker struct {
	counts map[string]int64
	resets []string
}

func newStubFailureTracker() *stubFailureTracker {
	return &stubFailureTracker{counts: make(map[string]int64)}
}

func (t *stubFailureTracker) RecordFailure(_ context.Context, identifier string) (int64, error) {
	t.counts[identifier]++
	return t.counts[identifier], nil
}

func (t *stubFailureTracker) Reset(_ context.Context, identifier string) error {
	delete(t.counts, identifier)
	t.resets = append(t.resets, identifier)
	return nil
}
