package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultHashCost is the bcrypt work factor used for stored passwords.
// Cost 12 keeps a single hash in the tens-of-milliseconds range on
// current server hardware.
const defaultHashCost = 12

// MaxPasswordBytes is the longest password the hasher accepts. bcrypt
// silently truncates beyond 72 bytes, so longer input is rejected at
// validation time rather than hashed with a shortened effective secret.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt. The cost is
// injectable so tests can run at bcrypt.MinCost instead of paying the
// production work factor on every case.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: defaultHashCost}
}

func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns a self-describing bcrypt hash of password. The salt and
// cost are embedded in the output, so two calls with the same password
// produce different strings that both verify.
func (p *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password exceeds %d bytes", MaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash. The comparison
// inside bcrypt is constant time.
func (p *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
