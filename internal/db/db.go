// Package db provides PostgreSQL storage for candidate banks and cached projects.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-packer/internal/logger"
)

//go:embed schema.sql
var schemaSQL string

// ErrCandidateNotFound is returned when a username has no stored candidate
var ErrCandidateNotFound = errors.New("candidate not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables used by the packer if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Component("db").Debug().Msg("schema applied")
	return nil
}

// normalizeUsername makes usernames case-insensitive keys
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// nullIfEmpty returns nil for empty strings so optional columns stay NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.Component("db").Warn().Err(err).Msg("rollback failed")
	}
}
