// Package memory is a thread-safe in-memory implementation of the account and
// item repositories, suitable for tests and local development. State is lost
// on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// Store holds accounts and items behind a single lock so the uniqueness
// check and insert in CreateAccount are atomic.
type Store struct {
	mu sync.RWMutex

	accounts   map[string]*domain.Account // by ID
	byEmail    map[string]string
	byUsername map[string]string

	items map[string]*domain.Item
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*domain.Account),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		items:      make(map[string]*domain.Item),
	}
}

// Accounts returns the store's ports.AccountRepository view.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

// Items returns the store's ports.ItemRepository view.
func (s *Store) Items() *ItemRepository { return &ItemRepository{s: s} }

type AccountRepository struct{ s *Store }

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[a.Email]; taken {
		return nil, domain.ErrAccountExists
	}
	if _, taken := s.byUsername[a.Username]; taken {
		return nil, domain.ErrAccountExists
	}

	clone := *a
	s.accounts[a.ID] = &clone
	s.byEmail[a.Email] = a.ID
	s.byUsername[a.Username] = a.ID

	out := clone
	return &out, nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *s.accounts[id]
	return &clone, nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

type ItemRepository struct{ s *Store }

func (r *ItemRepository) Create(_ context.Context, it *domain.Item) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *it
	s.items[it.ID] = &clone
	return nil
}

func (r *ItemRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Item, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Item{}
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			clone := *it
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ItemRepository) FindByID(_ context.Context, ownerID, id string) (*domain.Item, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok || it.OwnerID != ownerID {
		return nil, domain.ErrItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *ItemRepository) Update(_ context.Context, it *domain.Item) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[it.ID]
	if !ok || existing.OwnerID != it.OwnerID {
		return domain.ErrItemNotFound
	}
	clone := *it
	s.items[it.ID] = &clone
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, ownerID, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok || it.OwnerID != ownerID {
		return domain.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}
