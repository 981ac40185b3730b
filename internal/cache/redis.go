// Package cache stores fetched project entries in Redis, keyed by username.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-packer/internal/types"
)

// DefaultKeyPrefix namespaces project keys
const DefaultKeyPrefix = "resume-packer:projects:"

// Redis is a ProjectCache backed by a Redis server.
type Redis struct {
	client *redis.Client
	prefix string
}

// New connects to the Redis server at rawURL (redis:// or rediss://) and pings it.
func New(ctx context.Context, rawURL string) (*Redis, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewWithClient(client, DefaultKeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(username string) string {
	return r.prefix + strings.ToLower(username)
}

// GetProjects returns the cached projects for username; found is false on a miss.
func (r *Redis) GetProjects(ctx context.Context, username string) ([]types.ProjectEntry, bool, error) {
	data, err := r.client.Get(ctx, r.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get projects for %s: %w", username, err)
	}

	var projects []types.ProjectEntry
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached projects for %s: %w", username, err)
	}
	return projects, true, nil
}

// PutProjects stores projects for username with the given TTL.
func (r *Redis) PutProjects(ctx context.Context, username string, projects []types.ProjectEntry, ttl time.Duration) error {
	if projects == nil {
		projects = []types.ProjectEntry{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	if err := r.client.Set(ctx, r.key(username), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache projects for %s: %w", username, err)
	}
	return nil
}

// Invalidate removes the cached projects for username.
func (r *Redis) Invalidate(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, r.key(username)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate projects for %s: %w", username, err)
	}
	return nil
}
