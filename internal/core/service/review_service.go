package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/ports"
)

type ReviewService struct {
	repo ports.ReviewRepository
	log  zerolog.Logger
}

func NewReviewService(repo ports.ReviewRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, log: log}
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a review authored by the calling principal.
func (s *ReviewService) Create(ctx context.Context, author domain.Principal, in ports.ReviewInput) (*domain.Review, error) {
	if err := validateReview(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CoffeeID) == "" {
		return nil, domain.ValidationError("coffee_id is required")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Review{
		CoffeeID:  in.CoffeeID,
		AuthorID:  author.AccountID(),
		Rating:    in.Rating,
		Content:   strings.TrimSpace(in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("review_id", created.ID).Str("author", created.AuthorID).Msg("review created")
	return created, nil
}

func (s *ReviewService) Update(ctx context.Context, id string, in ports.ReviewInput) (*domain.Review, error) {
	if err := validateReview(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in.Rating, strings.TrimSpace(in.Content))
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateReview(in ports.ReviewInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.ValidationError("rating must be between 1 and 5")
	}
	if len(in.Content) > 2000 {
		return domain.ValidationError("content must be at most 2000 characters")
	}
	return nil
}
