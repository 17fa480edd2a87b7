package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash(context.Background(), "pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, _ := h.Hash(context.Background(), "pw123")
	if a == b {
		t.Fatalf("expected distinct salted hashes")
	}
	if err := h.Compare(context.Background(), a, "pw123"); err != nil {
		t.Fatalf("compare: %v", err)
	}
}

func TestBcryptHasher_Mismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, _ := h.Hash(context.Background(), "pw123")

	if err := h.Compare(context.Background(), hash, "nope"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBcryptHasher_CorruptHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	err := h.Compare(context.Background(), "not-a-bcrypt-hash", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected wrapped ErrInvalidCredentials, got %v", err)
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if h := NewBcryptHasher(1); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
