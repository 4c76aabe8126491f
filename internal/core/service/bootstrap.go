package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/ports"
)

// SuperAdminSeed names the account created by BootstrapSuperAdmin.
type SuperAdminSeed struct {
	Username string
	Email    string
	Password string
}

// BootstrapSuperAdmin creates the SuperAdmin account holding
// {SuperAdmin, Admin} unless an account with that username already exists.
// It reports whether an account was created. An existing account is left
// untouched, including its roles and password. The seed obeys the
// registration rules, so its username can never be mistaken for an email.
func BootstrapSuperAdmin(ctx context.Context, repo ports.AccountRepository, hasher ports.PasswordHasher, seed SuperAdminSeed, log zerolog.Logger) (bool, error) {
	seed.Username = strings.TrimSpace(seed.Username)
	seed.Email = strings.TrimSpace(seed.Email)
	if err := validateRegistration(ports.RegisterInput{
		Username: seed.Username,
		Email:    seed.Email,
		Password: seed.Password,
	}); err != nil {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}

	_, err := repo.FindByIdentifier(ctx, seed.Username)
	if err == nil {
		log.Debug().Str("username", seed.Username).Msg("superadmin already present")
		return false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}

	now := time.Now().UTC()
	created, err := repo.Create(ctx, &domain.Account{
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrAccountExists) {
		// another instance may have seeded it concurrently
		if _, ferr := repo.FindByIdentifier(ctx, seed.Username); ferr == nil {
			return false, nil
		}
		return false, fmt.Errorf("bootstrap superadmin: email %q belongs to another account", seed.Email)
	}
	if err != nil {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}

	log.Info().Str("account_id", created.ID).Str("username", created.Username).Msg("superadmin account created")
	return true, nil
}
