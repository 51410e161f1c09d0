package embedded

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipeshare/server/internal/provider"
)

// MinPasswordLength matches the hosted provider's default policy.
const MinPasswordLength = 8

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", provider.NewValidationError("password", "password must be at least 8 characters")
	}
	// bcrypt has a 72-byte limit
	if len(password) > 72 {
		return "", provider.NewValidationError("password", "password exceeds maximum length of 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its hash.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return provider.ErrInvalidCredentials
		}
		return err
	}
	return nil
}

// newToken creates a cryptographically secure opaque token.
func newToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
