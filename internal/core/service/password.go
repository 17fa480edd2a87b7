package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// BcryptHasher is the default PasswordHasher. Salts are generated per hash
// and stored inside the encoded digest.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(_ context.Context, plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", domain.NewValidationError("password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(_ context.Context, hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrInvalidCredentials
	default:
		// Corrupt stored hash: still a failed login for this request only.
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
}
