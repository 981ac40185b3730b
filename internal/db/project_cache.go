package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-packer/internal/types"
)

// GetProjects returns unexpired cached projects for username; found is false on a miss
func (db *DB) GetProjects(ctx context.Context, username string) ([]types.ProjectEntry, bool, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT projects FROM cached_projects
		 WHERE username = $1 AND expires_at > NOW()`,
		normalizeUsername(username),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached projects: %w", err)
	}

	var projects []types.ProjectEntry
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached projects: %w", err)
	}
	return projects, true, nil
}

// PutProjects caches projects for username until ttl elapses
func (db *DB) PutProjects(ctx context.Context, username string, projects []types.ProjectEntry, ttl time.Duration) error {
	if projects == nil {
		projects = []types.ProjectEntry{}
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO cached_projects (username, projects, fetched_at, expires_at)
		 VALUES ($1, $2, NOW(), NOW() + $3::interval)
		 ON CONFLICT (username) DO UPDATE SET
		     projects = $2, fetched_at = NOW(), expires_at = NOW() + $3::interval`,
		normalizeUsername(username), raw, fmt.Sprintf("%d milliseconds", ttl.Milliseconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to cache projects: %w", err)
	}
	return nil
}
