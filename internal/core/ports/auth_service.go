package ports

import (
	"context"
	"time"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService covers credential verification, token issuance and
// principal resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// Login verifies the credentials and returns a signed token.
	Login(ctx context.Context, identifier, secret string) (string, *domain.Account, error)
	// Resolve validates a raw token and loads the Principal it names.
	Resolve(ctx context.Context, token string) (domain.Principal, error)
}

// TokenCodec issues and validates bearer tokens.
type TokenCodec interface {
	Issue(subject string, now time.Time, ttl time.Duration) (string, error)
	Validate(token string, now time.Time) (domain.Claims, error)
}
