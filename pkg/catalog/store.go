package catalog

import "context"

// NotFoundError is returned when a pet doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "pet not found"
	}
	return "pet not found: " + e.ID
}

// Store defines the interface for persisting and querying the pet catalog.
type Store interface {
	// FindByID retrieves a pet by its ID.
	FindByID(ctx context.Context, id string) (*Pet, error)

	// FindByStatus returns all pets in the given lifecycle state, in
	// stable store order.
	FindByStatus(ctx context.Context, status Status) ([]*Pet, error)

	// Save inserts or updates a pet, assigning an ID when absent, and
	// returns the stored record.
	Save(ctx context.Context, pet *Pet) (*Pet, error)

	// SearchNearest returns up to limit OPEN pets ordered by ascending
	// cosine distance between their stored embedding and query. When
	// species is non-nil, results are restricted to that species.
	//
	// Callers must not pass an empty query vector; emptiness means "no
	// vector available" and is handled above this interface.
	SearchNearest(ctx context.Context, species *Species, query []float32, limit int) ([]*Pet, error)

	// Close closes the store and releases any resources.
	Close() error
}
