package handler

import (
	"time"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	Account   accountResponse `json:"account"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// --- Accounts ---

type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Roles:     domain.RoleNames(a.Roles),
		CreatedAt: a.CreatedAt,
	}
}

// publicAccountResponse omits the email address.
type publicAccountResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type updateEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=100"`
}

type adminUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email"    validate:"omitempty,email,max=100"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=100"`
}

type updateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

// --- Reviews ---

type reviewRequest struct {
	CoffeeID string `json:"coffee_id"`
	Rating   int    `json:"rating"  validate:"gte=1,lte=5"`
	Content  string `json:"content" validate:"max=2000"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	CoffeeID  string    `json:"coffee_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		CoffeeID:  r.CoffeeID,
		AuthorID:  r.AuthorID,
		Rating:    r.Rating,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
