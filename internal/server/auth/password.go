// Package auth holds the credential primitives: password hashing and
// signed session tokens.
package auth

import (
	"fmt"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored digest.
const PasswordCost = 12

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type BcryptHasher struct {
	cost int
}

func NewPasswordHasher() *BcryptHasher {
	return &BcryptHasher{cost: PasswordCost}
}

// NewBcryptHasher allows a lower cost in tests.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", common.ErrInvalidInput, maxPasswordBytes)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches digest. Malformed digests yield false.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
