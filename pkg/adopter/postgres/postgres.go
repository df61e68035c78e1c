// Package postgres provides a PostgreSQL-backed user store using pgx. The
// preference vector column mirrors the catalog's pgvector column so both
// sides of a match share one embedding space.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homeward-labs/homeward/pkg/adopter"
	"github.com/homeward-labs/homeward/pkg/vectorcodec"
)

// Store implements adopter.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL, ensures the users table exists, and
// returns the store. The pgvector extension is assumed present (the
// catalog store enables it).
func NewStore(ctx context.Context, connStr string, dimensions uint) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			email              TEXT,
			preference_summary TEXT,
			preference_vector  vector(%d),
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, dimensions)
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	return &Store{pool: pool}, nil
}

// FindByID retrieves a user by its ID.
func (s *Store) FindByID(ctx context.Context, id string) (*adopter.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, preference_summary, preference_vector::text, created_at
		FROM users WHERE id = $1`, id)

	var user adopter.User
	var email, summary, encodedVector *string
	err := row.Scan(&user.ID, &user.Name, &email, &summary, &encodedVector, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, adopter.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("querying user %s: %w", id, err)
	}

	if email != nil {
		user.Email = *email
	}
	if summary != nil {
		user.PreferenceSummary = *summary
	}
	if encodedVector != nil {
		vector, err := vectorcodec.Decode(*encodedVector)
		if err != nil {
			return nil, fmt.Errorf("decoding stored vector for user %s: %w", user.ID, err)
		}
		user.PreferenceVector = vector
	}

	return &user, nil
}

// Save inserts or updates a user, assigning a fresh ID when absent.
func (s *Store) Save(ctx context.Context, user *adopter.User) (*adopter.User, error) {
	clone := *user
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}

	var encodedVector *string
	if encoded := vectorcodec.Encode(clone.PreferenceVector); encoded != "" {
		encodedVector = &encoded
	}

	var email *string
	if clone.Email != "" {
		email = &clone.Email
	}
	var summary *string
	if clone.PreferenceSummary != "" {
		summary = &clone.PreferenceSummary
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, preference_summary, preference_vector, created_at)
		VALUES ($1, $2, $3, $4, $5::vector, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			preference_summary = EXCLUDED.preference_summary,
			preference_vector = EXCLUDED.preference_vector`,
		clone.ID, clone.Name, email, summary, encodedVector, clone.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving user %s: %w", clone.ID, err)
	}

	return &clone, nil
}

// Close closes the store and releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Store implements adopter.Store
var _ adopter.Store = (*Store)(nil)
