package fetch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/metrics"
	"github.com/jonathan/resume-packer/internal/types"
)

// DefaultCacheTTL is how long fetched projects stay fresh
const DefaultCacheTTL = 7 * 24 * time.Hour

// ProjectSource supplies raw project entries for a candidate identity.
type ProjectSource interface {
	Projects(ctx context.Context, username string) ([]types.ProjectEntry, error)
}

// ProjectCache stores project entries per username.
// Get returns found=false on a miss or an expired entry.
type ProjectCache interface {
	GetProjects(ctx context.Context, username string) (projects []types.ProjectEntry, found bool, err error)
	PutProjects(ctx context.Context, username string, projects []types.ProjectEntry, ttl time.Duration) error
}

// Invalidator is implemented by caches that can drop one username's entry.
type Invalidator interface {
	Invalidate(ctx context.Context, username string) error
}

// EnrichFunc post-processes freshly fetched projects before they are cached.
type EnrichFunc func(ctx context.Context, projects []types.ProjectEntry) ([]types.ProjectEntry, error)

// CachedSource wraps a ProjectSource with a cache. Fetches and cache writes for
// the same username never run concurrently.
type CachedSource struct {
	source  ProjectSource
	cache   ProjectCache
	ttl     time.Duration
	enrich  EnrichFunc
	metrics *metrics.Metrics
	group   singleflight.Group
}

// CachedSourceConfig holds configuration for the cached source.
type CachedSourceConfig struct {
	CacheTTL time.Duration
	Enrich   EnrichFunc
	Metrics  *metrics.Metrics
}

// NewCachedSource creates a cached project source. A nil cache disables caching.
func NewCachedSource(source ProjectSource, cache ProjectCache, config *CachedSourceConfig) *CachedSource {
	if config == nil {
		config = &CachedSourceConfig{}
	}
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{
		source:  source,
		cache:   cache,
		ttl:     ttl,
		enrich:  config.Enrich,
		metrics: config.Metrics,
	}
}

// Projects returns cached projects when fresh, otherwise fetches and caches them.
func (c *CachedSource) Projects(ctx context.Context, username string) ([]types.ProjectEntry, error) {
	if c.cache != nil {
		projects, found, err := c.cache.GetProjects(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to read project cache: %w", err)
		}
		if found {
			c.metrics.IncCacheLookup(metrics.CacheHit)
			return projects, nil
		}
		c.metrics.IncCacheLookup(metrics.CacheMiss)
	}

	return c.refresh(ctx, username)
}

// Refresh fetches projects for username regardless of the cache and stores the result.
// Caches implementing Invalidator drop the old entry first, so a failed fetch leaves nothing stale behind.
func (c *CachedSource) Refresh(ctx context.Context, username string) ([]types.ProjectEntry, error) {
	if inv, ok := c.cache.(Invalidator); ok {
		if err := inv.Invalidate(ctx, username); err != nil {
			log := logger.Component("fetch")
			log.Warn().Err(err).Str("username", username).Msg("failed to invalidate cached projects")
		}
	}
	return c.refresh(ctx, username)
}

func (c *CachedSource) refresh(ctx context.Context, username string) ([]types.ProjectEntry, error) {
	v, err, shared := c.group.Do(username, func() (any, error) {
		projects, err := c.source.Projects(ctx, username)
		if err != nil {
			return nil, err
		}
		if c.enrich != nil {
			projects, err = c.enrich(ctx, projects)
			if err != nil {
				return nil, fmt.Errorf("failed to enrich projects: %w", err)
			}
		}
		if c.cache != nil {
			if err := c.cache.PutProjects(ctx, username, projects, c.ttl); err != nil {
				logger.Component("fetch").Warn().Err(err).Str("username", username).Msg("failed to cache projects")
			}
		}
		return projects, nil
	})
	if err != nil {
		return nil, err
	}

	projects := v.([]types.ProjectEntry)
	if shared {
		// Callers sharing one fetch must not alias each other's slices.
		projects = append([]types.ProjectEntry(nil), projects...)
	}
	return projects, nil
}
