package ports

import (
	"context"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// AccountRepository is the Account Store. Lookups return
// domain.ErrAccountNotFound when no account matches.
type AccountRepository interface {
	// FindByIdentifier matches the identifier against username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// Create returns domain.ErrAccountExists when the username or email is taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, username, email *string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRoles(ctx context.Context, id string, roles []domain.Role) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}
