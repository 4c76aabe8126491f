package ports

// PasswordHasher hashes secrets and compares them in constant time.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Matches(secret, hash string) bool
}
