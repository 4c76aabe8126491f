package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// LoginFailureTracker counts failed credential checks per identifier. It
// only feeds logging; no lockout is applied.
type LoginFailureTracker interface {
	RecordFailure(ctx context.Context, identifier string) (int64, error)
	Reset(ctx context.Context, identifier string) error
}

// AuthService implements registration, credential verification, token
// issuance and principal resolution.
type AuthService struct {
	accounts      ports.AccountRepository
	hasher        ports.PasswordHasher
	codec         ports.TokenCodec
	tokenTTL      time.Duration
	failures      LoginFailureTracker
	warnThreshold int64
	log           zerolog.Logger
	now           func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithFailureTracker enables failed-login counting. A warning is logged once
// an identifier accumulates threshold failures.
func WithFailureTracker(t LoginFailureTracker, threshold int64) AuthOption {
	return func(s *AuthService) {
		s.failures = t
		s.warnThreshold = threshold
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	tokenTTL time.Duration,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	s := &AuthService{
		accounts: accounts,
		hasher:   hasher,
		codec:    codec,
		tokenTTL: tokenTTL,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.accounts.Create(ctx, &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Str("username", created.Username).Msg("account registered")
	return created, nil
}

// Verify checks secret against the stored hash of the account named by
// identifier. Unknown identifiers and wrong secrets both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Verify(ctx context.Context, identifier, secret string) (*domain.Account, error) {
	if identifier == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByIdentifier(ctx, identifier)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// keep the response time of unknown identifiers close to that of known ones
		s.hasher.Matches(secret, s.decoy())
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !s.hasher.Matches(secret, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, secret string) (string, *domain.Account, error) {
	identifier = strings.TrimSpace(identifier)

	account, err := s.Verify(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.recordFailure(ctx, identifier)
		}
		return "", nil, err
	}
	s.resetFailures(ctx, identifier)

	token, err := s.IssueFor(account)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")
	return token, account, nil
}

// IssueFor issues a token for account without checking credentials.
func (s *AuthService) IssueFor(account *domain.Account) (string, error) {
	return s.codec.Issue(account.Username, s.now(), s.tokenTTL)
}

// Resolve validates token and loads the account named by its subject.
// Token failures are returned as *domain.TokenError; a subject whose account
// no longer exists yields domain.ErrAccountNotFound.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.codec.Validate(token, s.now())
	if err != nil {
		return domain.AnonymousPrincipal(), err
	}

	account, err := s.accounts.FindByIdentifier(ctx, claims.Subject)
	if err != nil {
		return domain.AnonymousPrincipal(), err
	}
	return domain.NewPrincipal(claims.Subject, account.ID, account.Roles), nil
}

func (s *AuthService) recordFailure(ctx context.Context, identifier string) {
	if s.failures == nil || identifier == "" {
		return
	}
	n, err := s.failures.RecordFailure(ctx, identifier)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
		return
	}
	ev := s.log.Info()
	if s.warnThreshold > 0 && n >= s.warnThreshold {
		ev = s.log.Warn()
	}
	ev.Str("identifier", identifier).Int64("failures", n).Msg("login failed")
}

func (s *AuthService) resetFailures(ctx context.Context, identifier string) {
	if s.failures == nil {
		return
	}
	if err := s.failures.Reset(ctx, identifier); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash("decoy-password-for-timing")
		if err == nil {
			s.decoyHash = h
		}
	})
	return s.decoyHash
}

func validateRegistration(in ports.RegisterInput) error {
	switch {
	case len(in.Username) < 3 || len(in.Username) > 50:
		return domain.ValidationError("username must be between 3 and 50 characters")
	case strings.ContainsAny(in.Username, "@ \t"):
		return domain.ValidationError("username must not contain '@' or whitespace")
	case !validEmail(in.Email):
		return domain.ValidationError("email must be a valid email")
	case len(in.Password) < 8:
		return domain.ValidationError("password must be at least 8 characters")
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" || len(email) > 100 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
