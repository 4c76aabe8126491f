package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/coffeetica/coffeetica/internal/api/middleware"
	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/ports"
)

func withPrincipal(c echo.Context, p domain.Principal) {
	middleware.SetPrincipal(c, p)
}

// stubAccountService records the last call; unset funcs return zero values.
type stubAccountService struct {
	getFn func(ctx context.Context, id string) (*domain.Account, error)

	lastActor domain.Principal
	lastID    string
	lastAdmin ports.AdminUpdateInput
	lastRoles []string
	lastPass  [2]string
	err       error
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccountService) UpdateEmail(_ context.Context, id, email string) (*domain.Account, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Account{ID: id, Username: "alice", Email: email}, nil
}

func (s *stubAccountService) ChangePassword(_ context.Context, id, current, next string) error {
	s.lastID = id
	s.lastPass = [2]string{current, next}
	return s.err
}

func (s *stubAccountService) AdminUpdate(_ context.Context, actor domain.Principal, id string, in ports.AdminUpdateInput) (*domain.Account, error) {
	s.lastActor, s.lastID, s.lastAdmin = actor, id, in
	if s.err != nil {
		return nil, s.err
	}
	acc := &domain.Account{ID: id, Username: "alice", Email: "alice@example.com"}
	if in.Username != nil {
		acc.Username = *in.Username
	}
	if in.Email != nil {
		acc.Email = *in.Email
	}
	return acc, nil
}

func (s *stubAccountService) ResetPassword(_ context.Context, actor domain.Principal, id, password string) error {
	s.lastActor, s.lastID = actor, id
	s.lastPass = [2]string{"", password}
	return s.err
}

func (s *stubAccountService) UpdateRoles(_ context.Context, actor domain.Principal, id string, roles []string) (*domain.Account, error) {
	s.lastActor, s.lastID, s.lastRoles = actor, id, roles
	if s.err != nil {
		return nil, s.err
	}
	parsed, _ := domain.ParseRoles(roles)
	return &domain.Account{ID: id, Username: "alice", Roles: parsed}, nil
}

func (s *stubAccountService) Delete(_ context.Context, actor domain.Principal, id string) error {
	s.lastActor, s.lastID = actor, id
	return s.err
}

type stubReviewService struct {
	reviews map[string]*domain.Review
	lastIn  ports.ReviewInput
}

func (s *stubReviewService) Get(_ context.Context, id string) (*domain.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return r, nil
}

func (s *stubReviewService) Create(_ context.Context, author domain.Principal, in ports.ReviewInput) (*domain.Review, error) {
	s.lastIn = in
	return &domain.Review{ID: "rev-new", AuthorID: author.AccountID(), CoffeeID: in.CoffeeID, Rating: in.Rating, Content: in.Content}, nil
}

func (s *stubReviewService) Update(_ context.Context, id string, in ports.ReviewInput) (*domain.Review, error) {
	s.lastIn = in
	r, ok := s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	updated := *r
	updated.Rating, updated.Content = in.Rating, in.Content
	return &updated, nil
}

func (s *stubReviewService) Delete(_ context.Context, id string) error {
	if _, ok := s.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(s.reviews, id)
	return nil
}
