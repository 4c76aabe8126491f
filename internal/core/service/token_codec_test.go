package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coffeetica/coffeetica/internal/core/domain"
)

var issuedAt = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func mustCodec(t *testing.T, secret string) *JWTCodec {
	t.Helper()
	c, err := NewJWTCodec(secret)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func mustIssue(t *testing.T, c *JWTCodec, subject string, ttl time.Duration) string {
	t.Helper()
	tok, err := c.Issue(subject, issuedAt, ttl)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func expectFailure(t *testing.T, err error, want domain.TokenFailure) {
	t.Helper()
	got, ok := domain.TokenFailureOf(err)
	if !ok {
		t.Fatalf("expected token error %q, got %v", want, err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q (%v)", want, got, err)
	}
}

func TestJWTCodec_RoundTrip(t *testing.T) {
	c := mustCodec(t, "round-trip-secret")
	for _, ttl := range []time.Duration{time.Millisecond, time.Second, 90 * time.Minute, 24 * time.Hour} {
		tok := mustIssue(t, c, "alice", ttl)

		claims, err := c.Validate(tok, issuedAt)
		if err != nil {
			t.Fatalf("ttl %s: validate: %v", ttl, err)
		}
		if claims.Subject != "alice" {
			t.Fatalf("ttl %s: expected subject alice, got %q", ttl, claims.Subject)
		}
		if !claims.ExpiresAt.After(claims.IssuedAt) {
			t.Fatalf("ttl %s: expiry %v not after issue %v", ttl, claims.ExpiresAt, claims.IssuedAt)
		}
		if claims.ExpiresAt.Before(issuedAt.Add(ttl)) {
			t.Fatalf("ttl %s: token shorter-lived than requested", ttl)
		}
	}
}

func TestJWTCodec_Expiry(t *testing.T) {
	c := mustCodec(t, "expiry-secret")
	ttl := time.Hour
	tok := mustIssue(t, c, "alice", ttl)

	if _, err := c.Validate(tok, issuedAt.Add(ttl)); err != nil {
		t.Fatalf("token must be valid at its ttl boundary: %v", err)
	}

	_, err := c.Validate(tok, issuedAt.Add(ttl+time.Second))
	expectFailure(t, err, domain.TokenExpired)
}

func TestJWTCodec_TamperedSignature(t *testing.T) {
	c := mustCodec(t, "tamper-secret")
	tok := mustIssue(t, c, "alice", time.Hour)
	parts := strings.Split(tok, ".")

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	for i := 0; i < len(sig)*8; i++ {
		flipped := make([]byte, len(sig))
		copy(flipped, sig)
		flipped[i/8] ^= 1 << (i % 8)

		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)
		_, err := c.Validate(forged, issuedAt)
		expectFailure(t, err, domain.TokenBadSignature)
	}
}

func TestJWTCodec_TamperedPayload(t *testing.T) {
	c := mustCodec(t, "tamper-secret")
	tok := mustIssue(t, c, "alice", time.Hour)
	parts := strings.Split(tok, ".")

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"root","iat":1773480413,"exp":4102444800}`))
	_, err := c.Validate(parts[0]+"."+payload+"."+parts[2], issuedAt)
	expectFailure(t, err, domain.TokenBadSignature)
}

func TestJWTCodec_SignatureTextCorrupted(t *testing.T) {
	c := mustCodec(t, "tamper-secret")
	tok := mustIssue(t, c, "alice", time.Hour)

	_, err := c.Validate(tok[:len(tok)-4]+"!!!!", issuedAt)
	expectFailure(t, err, domain.TokenBadSignature)
}

func TestJWTCodec_OtherSecret(t *testing.T) {
	tok := mustIssue(t, mustCodec(t, "secret-a"), "alice", time.Hour)

	_, err := mustCodec(t, "secret-b").Validate(tok, issuedAt)
	expectFailure(t, err, domain.TokenBadSignature)
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	c := mustCodec(t, "alg-secret")
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("alg-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = c.Validate(hs512, issuedAt)
	expectFailure(t, err, domain.TokenBadSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	_, err = c.Validate(none, issuedAt)
	expectFailure(t, err, domain.TokenBadSignature)
}

func TestJWTCodec_Malformed(t *testing.T) {
	c := mustCodec(t, "malformed-secret")
	valid := mustIssue(t, c, "alice", time.Hour)
	parts := strings.Split(valid, ".")

	inputs := map[string]string{
		"empty":            "",
		"one segment":      "abc",
		"two segments":     "abc.def",
		"four segments":    valid + ".extra",
		"garbage":          "not.a.token",
		"payload not json": parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + "." + parts[2],
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := c.Validate(in, issuedAt)
			expectFailure(t, err, domain.TokenMalformed)
		})
	}
}

func TestJWTCodec_MissingClaims(t *testing.T) {
	c := mustCodec(t, "claims-secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString([]byte("claims-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = c.Validate(tok, issuedAt)
	expectFailure(t, err, domain.TokenMalformed)
}

func TestJWTCodec_IssueRejectsBadInput(t *testing.T) {
	c := mustCodec(t, "issue-secret")
	if _, err := c.Issue("", issuedAt, time.Hour); err == nil {
		t.Fatalf("expected error for empty subject")
	}
	if _, err := c.Issue("alice", issuedAt, 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
	if _, err := NewJWTCodec("  "); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}
