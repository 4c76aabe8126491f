package ports

import (
	"context"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// ReviewRepository is the Review Store. Lookups return
// domain.ErrReviewNotFound when the review does not exist.
type ReviewRepository interface {
	FindOwnerID(ctx context.Context, reviewID string) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, id string, rating int, content string) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
