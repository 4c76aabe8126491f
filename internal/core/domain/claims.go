package domain

import "time"

// Claims is the signed payload carried inside a bearer token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the claims are no longer valid at now.
func (c Claims) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
