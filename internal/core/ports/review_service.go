package ports

import (
	"context"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// ReviewInput carries the writable review fields.
type ReviewInput struct {
	CoffeeID string
	Rating   int
	Content  string
}

// ReviewService performs review operations once authorization has passed.
type ReviewService interface {
	Get(ctx context.Context, id string) (*domain.Review, error)
	Create(ctx context.Context, author domain.Principal, in ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, id string, in ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
