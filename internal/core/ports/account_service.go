package ports

import (
	"context"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// AdminUpdateInput holds optional profile fields; nil leaves a field as is.
type AdminUpdateInput struct {
	Username *string
	Email    *string
}

// AccountService performs account mutations. Authorization has already
// been decided by the time these are called; actor is passed for auditing.
type AccountService interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	UpdateEmail(ctx context.Context, id, email string) (*domain.Account, error)
	ChangePassword(ctx context.Context, id, current, next string) error
	AdminUpdate(ctx context.Context, actor domain.Principal, id string, in AdminUpdateInput) (*domain.Account, error)
	ResetPassword(ctx context.Context, actor domain.Principal, id, password string) error
	UpdateRoles(ctx context.Context, actor domain.Principal, id string, roles []string) (*domain.Account, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
}
