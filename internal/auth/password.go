package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit. Longer passwords must be rejected
// before hashing; bcrypt refuses them and callers would otherwise see an
// internal failure for ordinary user input.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher, clamping the cost to bcrypt's valid range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted hash from the plaintext password. Two calls with the
// same input yield different hashes. An error here is an internal failure,
// never a property of the password itself.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored hash. Mismatches,
// malformed hashes, and wrong-scheme inputs all return false so callers cannot
// tell them apart from a wrong password.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
