// Package postgres provides a PostgreSQL-backed implementation of the remote
// dictionary table read by [dictionary.Provider].
//
// The table holds substitution pairs with an active flag; only active rows
// are served, in insertion order. [Migrate] creates the table on first use.
//
// Usage:
//
//	store, err := postgres.NewStore(ctx, dsn)
//	if err != nil { … }
//	provider := dictionary.NewProvider(store)
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shuddhi-ai/shuddhi/pkg/dictionary"
)

// Compile-time interface check.
var _ dictionary.Source = (*Store)(nil)

const ddlDictionaryEntries = `
CREATE TABLE IF NOT EXISTS dictionary_entries (
    id          BIGSERIAL    PRIMARY KEY,
    original    TEXT         NOT NULL,
    replacement TEXT         NOT NULL,
    active      BOOLEAN      NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_dictionary_entries_active
    ON dictionary_entries (active, id);
`

// Store reads and maintains the dictionary_entries table through a single
// [pgxpool.Pool]. All operations are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore establishes a connection pool to the PostgreSQL database at dsn,
// verifies connectivity, and runs [Migrate].
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("dictionary store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("dictionary store: ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("dictionary store: migrate: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate ensures the dictionary_entries table and its indexes exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlDictionaryEntries); err != nil {
		return fmt.Errorf("create dictionary_entries: %w", err)
	}
	return nil
}

// ActiveEntries implements [dictionary.Source]: all active substitution
// pairs in insertion order.
func (s *Store) ActiveEntries(ctx context.Context) ([]dictionary.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT original, replacement FROM dictionary_entries WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("dictionary store: query active entries: %w", err)
	}
	defer rows.Close()

	var entries []dictionary.Entry
	for rows.Next() {
		var e dictionary.Entry
		if err := rows.Scan(&e.Original, &e.Replacement); err != nil {
			return nil, fmt.Errorf("dictionary store: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dictionary store: iterate entries: %w", err)
	}
	return entries, nil
}

// AddEntry inserts a new active substitution pair and returns its id.
func (s *Store) AddEntry(ctx context.Context, e dictionary.Entry) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO dictionary_entries (original, replacement) VALUES ($1, $2) RETURNING id`,
		e.Original, e.Replacement).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("dictionary store: add entry: %w", err)
	}
	return id, nil
}

// DeactivateEntry marks the entry with the given id inactive so it stops
// being served without losing its history.
func (s *Store) DeactivateEntry(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE dictionary_entries SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dictionary store: deactivate entry %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dictionary store: deactivate entry %d: no such entry", id)
	}
	return nil
}

// Ping verifies database connectivity. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases all connections held by the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}
