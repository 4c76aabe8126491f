package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// AccountFinder is the read side of the Account Store used by this package.
type AccountFinder interface {
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// ReviewOwnerFinder resolves the author of a review.
type ReviewOwnerFinder interface {
	FindOwnerID(ctx context.Context, reviewID string) (string, error)
}

// OwnershipResolver answers whether a principal owns a resource. Missing
// resources are reported as not owned; the not-found signal is left to the
// business layer.
type OwnershipResolver struct {
	accounts AccountFinder
	reviews  ReviewOwnerFinder
}

func NewOwnershipResolver(accounts AccountFinder, reviews ReviewOwnerFinder) *OwnershipResolver {
	return &OwnershipResolver{accounts: accounts, reviews: reviews}
}

// IsOwner reports whether p owns the resource of the given kind and id.
func (r *OwnershipResolver) IsOwner(ctx context.Context, p domain.Principal, resourceID string, kind domain.ResourceKind) (bool, error) {
	if !p.IsAuthenticated() || resourceID == "" {
		return false, nil
	}

	accountID, err := r.accountIDOf(ctx, p)
	if err != nil || accountID == "" {
		return false, err
	}

	switch kind {
	case domain.ResourceAccount:
		return resourceID == accountID, nil
	case domain.ResourceReview:
		ownerID, err := r.reviews.FindOwnerID(ctx, resourceID)
		if errors.Is(err, domain.ErrReviewNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("resolve review owner: %w", err)
		}
		return ownerID == accountID, nil
	default:
		return false, fmt.Errorf("ownership: unsupported resource kind %q", kind)
	}
}

// accountIDOf returns the account id the principal's subject resolves to.
// Principals built by the identity interceptor already carry it.
func (r *OwnershipResolver) accountIDOf(ctx context.Context, p domain.Principal) (string, error) {
	if id := p.AccountID(); id != "" {
		return id, nil
	}
	account, err := r.accounts.FindByIdentifier(ctx, p.Subject())
	if errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve principal account: %w", err)
	}
	return account.ID, nil
}
