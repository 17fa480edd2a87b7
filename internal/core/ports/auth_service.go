package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   domain.PublicAccount
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicAccount, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, accountID string) (*domain.PublicAccount, error)
}

// PasswordHasher is the pluggable one-way hashing strategy.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Compare returns domain.ErrInvalidCredentials when plaintext does not match.
	Compare(ctx context.Context, hash, plaintext string) error
}

// TokenIssuer mints bearer tokens for an account.
type TokenIssuer interface {
	Issue(accountID string) (token string, expiresAt time.Time, err error)
}

// TokenVerifier validates a bearer token and returns its subject. Failures are
// domain.ErrInvalidToken or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (accountID string, err error)
}
