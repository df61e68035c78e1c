// Package inmemory provides an in-memory catalog store used in tests and
// in deployments without a database.
package inmemory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/homeward-labs/homeward/pkg/catalog"
)

// Store implements catalog.Store using an in-memory map plus an insertion
// order index so listings are stable.
type Store struct {
	mu    sync.RWMutex
	pets  map[string]*catalog.Pet
	order []string
}

// NewStore creates a new in-memory catalog store.
func NewStore() *Store {
	return &Store{
		pets: make(map[string]*catalog.Pet),
	}
}

// FindByID retrieves a pet by its ID.
func (s *Store) FindByID(_ context.Context, id string) (*catalog.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, ok := s.pets[id]
	if !ok {
		return nil, catalog.NotFoundError{ID: id}
	}

	clone := *pet
	return &clone, nil
}

// FindByStatus returns all pets in the given lifecycle state in insertion order.
func (s *Store) FindByStatus(_ context.Context, status catalog.Status) ([]*catalog.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*catalog.Pet
	for _, id := range s.order {
		pet := s.pets[id]
		if pet.Status != status {
			continue
		}
		clone := *pet
		result = append(result, &clone)
	}

	return result, nil
}

// Save inserts or updates a pet, assigning a fresh ID when absent.
func (s *Store) Save(_ context.Context, pet *catalog.Pet) (*catalog.Pet, error) {
	if pet == nil {
		return nil, errors.New("cannot store nil pet")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *pet
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if _, ok := s.pets[clone.ID]; !ok {
		s.order = append(s.order, clone.ID)
	}
	s.pets[clone.ID] = &clone

	stored := clone
	return &stored, nil
}

// SearchNearest returns up to limit OPEN pets ordered by ascending cosine
// distance to query. Pets without a stored embedding are not eligible.
func (s *Store) SearchNearest(_ context.Context, species *catalog.Species, query []float32, limit int) ([]*catalog.Pet, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		pet      *catalog.Pet
		distance float64
	}

	var eligible []scored
	for _, id := range s.order {
		pet := s.pets[id]
		if pet.Status != catalog.StatusOpen {
			continue
		}
		if species != nil && pet.Species != *species {
			continue
		}
		if len(pet.PersonalityVector) == 0 {
			continue
		}
		eligible = append(eligible, scored{
			pet:      pet,
			distance: cosineDistance(query, pet.PersonalityVector),
		})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].distance < eligible[j].distance
	})

	if limit > len(eligible) {
		limit = len(eligible)
	}

	result := make([]*catalog.Pet, 0, limit)
	for _, entry := range eligible[:limit] {
		clone := *entry.pet
		result = append(result, &clone)
	}

	return result, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	return nil
}

// cosineDistance computes 1 - cosine similarity, matching the pgvector
// "<=>" operator so both drivers rank candidates identically.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Ensure Store implements catalog.Store
var _ catalog.Store = (*Store)(nil)
