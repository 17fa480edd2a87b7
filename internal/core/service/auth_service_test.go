package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by ID
	findErr  error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email || existing.Username == a.Username {
			return nil, domain.ErrAccountExists
		}
	}
	r.accounts[a.ID] = cloneAccount(a)
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

// countingHasher records how many comparisons ran.
type countingHasher struct {
	*BcryptHasher
	mu       sync.Mutex
	compares int
}

func (h *countingHasher) Compare(ctx context.Context, hash, plaintext string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	return h.BcryptHasher.Compare(ctx, hash, plaintext)
}

func newAuthSvc(repo ports.AccountRepository) (*AuthService, *TokenService) {
	tokens := NewTokenService("test-secret-test-secret-test-secret", time.Hour)
	return NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop()), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newAuthSvc(repo)

	acc, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "Alice@X.com ", Password: "pw123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if acc.ID == "" || acc.Username != "alice" || acc.Email != "alice@x.com" {
		t.Fatalf("unexpected account: %+v", acc)
	}

	stored := repo.accounts[acc.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "pw123" {
		t.Fatalf("expected password to be hashed, got %q", stored.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newStubAccountRepo())

	cases := []ports.RegisterInput{
		{Username: "", Email: "a@x.com", Password: "pw"},
		{Username: "a", Email: "  ", Password: "pw"},
		{Username: "a", Email: "a@x.com", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	svc, _ := newAuthSvc(newStubAccountRepo())

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "long", Email: "long@x.com", Password: strings.Repeat("p", 73),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Email: "bob@x.com", Password: "pw"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bobby", Email: "BOB@x.com", Password: "pw2"})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected no partial record, have %d accounts", len(repo.accounts))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, tokens := newAuthSvc(repo)

	acc, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Email: "carol@x.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.Account.ID != acc.ID {
		t.Fatalf("unexpected account: %+v", res.Account)
	}

	sub, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token rejected: %v", err)
	}
	if sub != acc.ID {
		t.Fatalf("expected subject %s, got %s", acc.ID, sub)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubAccountRepo()
	tokens := NewTokenService("test-secret-test-secret-test-secret", time.Hour)
	hasher := &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}
	svc := NewAuthService(repo, hasher, tokens, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Email: "dave@x.com", Password: "goodpass"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPw := svc.Login(context.Background(), "dave@x.com", "badpass")
	afterWrong := hasher.compares
	_, noUser := svc.Login(context.Background(), "ghost@x.com", "badpass")
	afterGhost := hasher.compares - afterWrong

	if wrongPw != domain.ErrInvalidCredentials || noUser != domain.ErrInvalidCredentials {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", wrongPw, noUser)
	}
	if afterWrong != 1 || afterGhost != 1 {
		t.Fatalf("expected one comparison per failed login, got %d and %d", afterWrong, afterGhost)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newStubAccountRepo())

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newAuthSvc(repo)

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error to propagate, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newAuthSvc(repo)

	acc, _ := svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Email: "erin@x.com", Password: "pw"})

	me, err := svc.Me(context.Background(), acc.ID)
	if err != nil || me.Email != "erin@x.com" {
		t.Fatalf("unexpected Me result: %+v %v", me, err)
	}

	if _, err := svc.Me(context.Background(), "missing"); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
