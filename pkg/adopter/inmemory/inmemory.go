// Package inmemory provides an in-memory user store used in tests and in
// deployments without a database.
package inmemory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homeward-labs/homeward/pkg/adopter"
)

// Store implements adopter.Store using an in-memory map.
type Store struct {
	mu    sync.RWMutex
	users map[string]*adopter.User
}

// NewStore creates a new in-memory user store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]*adopter.User),
	}
}

// FindByID retrieves a user by its ID.
func (s *Store) FindByID(_ context.Context, id string) (*adopter.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, adopter.NotFoundError{ID: id}
	}

	clone := *user
	return &clone, nil
}

// Save inserts or updates a user, assigning a fresh ID when absent.
func (s *Store) Save(_ context.Context, user *adopter.User) (*adopter.User, error) {
	if user == nil {
		return nil, errors.New("cannot store nil user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *user
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	s.users[clone.ID] = &clone

	stored := clone
	return &stored, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return nil
}

// Ensure Store implements adopter.Store
var _ adopter.Store = (*Store)(nil)
