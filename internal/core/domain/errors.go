package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInsufficientRole      = errors.New("insufficient role")
	ErrNotOwnerNorPrivileged = errors.New("not owner nor privileged")
	ErrProtectedAccount      = errors.New("protected account")
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrReviewNotFound  = errors.New("review not found")
	ErrValidation      = errors.New("validation failed")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrSamePassword    = errors.New("new password must differ from the current password")
)

// TokenFailure classifies why a token was rejected.
type TokenFailure string

const (
	TokenMalformed    TokenFailure = "malformed"
	TokenBadSignature TokenFailure = "bad_signature"
	TokenExpired      TokenFailure = "expired"
)

// TokenError is returned by token validation. It matches ErrInvalidToken
// under errors.Is regardless of Reason.
type TokenError struct {
	Reason TokenFailure
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid token (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid token (%s)", e.Reason)
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// TokenFailureOf extracts the failure reason from err, if it is a TokenError.
func TokenFailureOf(err error) (TokenFailure, bool) {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Reason, true
	}
	return "", false
}

// ValidationError wraps ErrValidation with a message safe to show clients.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
