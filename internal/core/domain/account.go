package domain

import "time"

// Account models a registered user of the platform.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsProtected reports whether an Admin is barred from mutating this account.
func (a *Account) IsProtected() bool {
	return AnyProtected(a.Roles)
}
