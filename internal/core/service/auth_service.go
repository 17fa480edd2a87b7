package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

// AuthService implements registration, login and identity lookup.
type AuthService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger

	dummyMu   sync.Mutex
	dummyHash string
}

func NewAuthService(repo ports.AccountRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicAccount, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.NewValidationError("username, email and password are required")
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.ErrAccountExists
		}
		s.log.Error().Err(err).Msg("failed to create account")
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Msg("account registered")

	pub := created.Public()
	return &pub, nil
}

// Login verifies the password and issues a token. Unknown email and wrong
// password both return domain.ErrInvalidCredentials after one hash comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		s.burnComparison(ctx, password)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(ctx, account.PasswordHash, password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			// context cancelled while waiting on the hashing pool
			return nil, err
		}
		if err != domain.ErrInvalidCredentials {
			s.log.Warn().Err(err).Str("account_id", account.ID).Msg("stored password hash rejected")
		}
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: exp, Account: account.Public()}, nil
}

// Me resolves the authenticated account. A token whose subject no longer
// exists is treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, accountID string) (*domain.PublicAccount, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	pub := account.Public()
	return &pub, nil
}

// Prime prepares the throwaway digest used for unknown emails so the first
// failed login is not slower than the rest.
func (s *AuthService) Prime(ctx context.Context) error {
	_, err := s.dummy(ctx)
	return err
}

func (s *AuthService) dummy(ctx context.Context) (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash, nil
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(ctx, hex.EncodeToString(buf))
	if err != nil {
		return "", err
	}
	s.dummyHash = hash
	return hash, nil
}

// burnComparison spends one hash comparison against a throwaway digest so an
// unknown email costs the same as a wrong password.
func (s *AuthService) burnComparison(ctx context.Context, password string) {
	hash, err := s.dummy(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
		return
	}
	_ = s.hasher.Compare(ctx, hash, password)
}
