// Package adopter holds the adopter-side user record and its store. The
// preference profile (summary + embedding) lives here and is mutated only
// by the matching flow's profile refresh.
package adopter

import (
	"context"
	"time"
)

// User is one adopter. PreferenceSummary may be empty; PreferenceVector is
// either empty (no preference yet) or exactly the configured embedding
// dimension.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`

	PreferenceSummary string    `json:"preferenceSummary,omitempty"`
	PreferenceVector  []float32 `json:"-"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// NotFoundError is returned when a user doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "user not found"
	}
	return "user not found: " + e.ID
}

// Store defines the interface for persisting and retrieving users.
type Store interface {
	// FindByID retrieves a user by its ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// Save inserts or updates a user, assigning an ID when absent, and
	// returns the stored record.
	Save(ctx context.Context, user *User) (*User, error)

	// Close closes the store and releases any resources.
	Close() error
}
