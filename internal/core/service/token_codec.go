package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

// JWTCodec issues and validates HS256-signed bearer tokens. The secret is
// fixed at construction and only read afterwards, so a codec is safe for
// concurrent use.
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec returns a codec signing with secret.
func NewJWTCodec(secret string) (*JWTCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token codec: empty signing secret")
	}
	return &JWTCodec{secret: []byte(secret)}, nil
}

// Issue signs claims for subject valid from now for ttl. Claims carry second
// precision, so the expiry is rounded up to the next whole second; a token
// is therefore never shorter-lived than ttl.
func (c *JWTCodec) Issue(subject string, now time.Time, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("issue token: empty subject")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: non-positive ttl %s", ttl)
	}

	exp := now.Add(ttl)
	if t := exp.Truncate(time.Second); t.Before(exp) {
		exp = t.Add(time.Second)
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature of token and checks its expiry against
// now. Every input yields either Claims or a *domain.TokenError.
func (c *JWTCodec) Validate(token string, now time.Time) (domain.Claims, error) {
	if strings.Count(token, ".") != 2 {
		return domain.Claims{}, &domain.TokenError{Reason: domain.TokenMalformed}
	}

	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &rc, c.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return domain.Claims{}, &domain.TokenError{Reason: classify(token, err), Err: err}
	}

	if rc.Subject == "" || rc.IssuedAt == nil || rc.ExpiresAt == nil {
		return domain.Claims{}, &domain.TokenError{Reason: domain.TokenMalformed, Err: errors.New("missing required claims")}
	}
	claims := domain.Claims{
		Subject:   rc.Subject,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		return domain.Claims{}, &domain.TokenError{Reason: domain.TokenMalformed, Err: errors.New("expiry not after issue time")}
	}
	if claims.ExpiredAt(now) {
		return domain.Claims{}, &domain.TokenError{Reason: domain.TokenExpired}
	}
	return claims, nil
}

func (c *JWTCodec) key(*jwt.Token) (any, error) {
	return c.secret, nil
}

// classify maps a parse failure to a TokenFailure. A signature segment that
// is not valid base64 is a signature mismatch as long as the header and
// payload segments decode.
func classify(token string, err error) domain.TokenFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.TokenBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		parts := strings.Split(token, ".")
		if decodes(parts[0]) && decodes(parts[1]) && !decodes(parts[2]) {
			return domain.TokenBadSignature
		}
	}
	return domain.TokenMalformed
}

func decodes(seg string) bool {
	_, err := base64.RawURLEncoding.DecodeString(seg)
	return err == nil
}
