package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Varun5711/accounts/internal/models/account"
)

// MemoryAccountStore keeps accounts in process. It enforces email
// uniqueness under its lock, the same guarantee the Postgres unique index
// gives, and is used for tests and STORE_DRIVER=memory.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	byEmail  map[string]string
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[string]*account.Account),
		byEmail:  make(map[string]string),
	}
}

func (s *MemoryAccountStore) Insert(ctx context.Context, a *account.Account) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[a.Email]; exists {
		return nil, ErrEmailTaken
	}

	now := time.Now()
	stored := *a
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.accounts[stored.ID] = &stored
	s.byEmail[stored.Email] = stored.ID

	return withoutHash(&stored), nil
}

func (s *MemoryAccountStore) FindByID(ctx context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.accounts[id]
	if !exists {
		return nil, ErrNotFound
	}

	return withoutHash(a), nil
}

func (s *MemoryAccountStore) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, ErrNotFound
	}

	found := *s.accounts[id]
	return &found, nil
}

func (s *MemoryAccountStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.byEmail[email]; exists {
		return 1, nil
	}
	return 0, nil
}

func (s *MemoryAccountStore) UpdateFields(ctx context.Context, id string, fields account.Fields) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.accounts[id]
	if !exists {
		return nil, ErrNotFound
	}

	if fields.Name != nil {
		a.Name = *fields.Name
	}
	if fields.PasswordHash != nil {
		a.PasswordHash = *fields.PasswordHash
	}
	if !fields.Empty() {
		a.UpdatedAt = time.Now()
	}

	return withoutHash(a), nil
}

func (s *MemoryAccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.accounts[id]
	if !exists {
		return ErrNotFound
	}

	delete(s.byEmail, a.Email)
	delete(s.accounts, id)
	return nil
}

// Len reports how many accounts are stored.
func (s *MemoryAccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func withoutHash(a *account.Account) *account.Account {
	out := *a
	out.PasswordHash = ""
	return &out
}
