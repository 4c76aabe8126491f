package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coffeetica/coffeetica/internal/core/domain"
	"github.com/coffeetica/coffeetica/internal/core/ports"
)

// AccountService applies account mutations after the policy engine has
// allowed them. Protected mutations are reported to the audit recorder.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, audit ports.AuditRecorder, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, audit: audit, log: log}
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) UpdateEmail(ctx context.Context, id, email string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return nil, domain.ValidationError("email must be a valid email")
	}
	return s.repo.UpdateProfile(ctx, id, nil, &email)
}

// ChangePassword replaces the password of id after checking current. The new
// password must differ from the stored one.
func (s *AccountService) ChangePassword(ctx context.Context, id, current, next string) error {
	if len(next) < 8 {
		return domain.ValidationError("new password must be at least 8 characters")
	}
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Matches(current, account.PasswordHash) {
		return domain.ErrWrongPassword
	}
	if s.hasher.Matches(next, account.PasswordHash) {
		return domain.ErrSamePassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.log.Info().Str("account_id", id).Msg("password changed")
	return nil
}

func (s *AccountService) AdminUpdate(ctx context.Context, actor domain.Principal, id string, in ports.AdminUpdateInput) (*domain.Account, error) {
	if in.Username != nil {
		u := strings.TrimSpace(*in.Username)
		if len(u) < 3 || len(u) > 50 || strings.ContainsAny(u, "@ \t") {
			return nil, domain.ValidationError("username must be 3 to 50 characters without '@' or whitespace")
		}
		in.Username = &u
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		if !validEmail(e) {
			return nil, domain.ValidationError("email must be a valid email")
		}
		in.Email = &e
	}

	updated, err := s.repo.UpdateProfile(ctx, id, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if actor.AccountID() != id {
		s.record(actor, id, domain.AuditAccountUpdated, "")
	}
	return updated, nil
}

func (s *AccountService) ResetPassword(ctx context.Context, actor domain.Principal, id, password string) error {
	if len(password) < 8 {
		return domain.ValidationError("password must be at least 8 characters")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.record(actor, id, domain.AuditPasswordReset, "")
	return nil
}

func (s *AccountService) UpdateRoles(ctx context.Context, actor domain.Principal, id string, names []string) (*domain.Account, error) {
	if len(names) == 0 {
		return nil, domain.ValidationError("roles must not be empty")
	}
	roles, unknown := domain.ParseRoles(names)
	if unknown != "" {
		return nil, domain.ValidationError("unknown role: " + unknown)
	}

	updated, err := s.repo.UpdateRoles(ctx, id, roles)
	if err != nil {
		return nil, err
	}
	s.record(actor, id, domain.AuditRolesChanged, strings.Join(domain.RoleNames(roles), ","))
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(actor, id, domain.AuditAccountDeleted, "")
	return nil
}

func (s *AccountService) record(actor domain.Principal, targetID string, action domain.AuditAction, detail string) {
	s.log.Info().
		Str("actor", actor.AccountID()).
		Str("target", targetID).
		Str("action", string(action)).
		Msg("protected account mutation")
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		ID:       uuid.NewString(),
		ActorID:  actor.AccountID(),
		TargetID: targetID,
		Action:   action,
		Detail:   detail,
		At:       time.Now().UTC(),
	})
}
