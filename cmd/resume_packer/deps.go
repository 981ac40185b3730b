package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-packer/internal/cache"
	"github.com/jonathan/resume-packer/internal/db"
	"github.com/jonathan/resume-packer/internal/fetch"
	"github.com/jonathan/resume-packer/internal/llm"
	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/metrics"
	"github.com/jonathan/resume-packer/internal/types"
)

// openDB connects to PostgreSQL and applies the schema
func openDB(ctx context.Context) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set database_url or DATABASE_URL)")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// newGeminiClient returns nil when no API key is configured
func newGeminiClient(ctx context.Context) (*llm.GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	llmCfg := llm.DefaultConfig()
	if cfg.EmbeddingModel != "" {
		llmCfg.EmbeddingModel = cfg.EmbeddingModel
	}
	return llm.NewGeminiClient(ctx, llmCfg, cfg.APIKey)
}

type closer func()

// newProjectSource builds the GitHub scraper behind the best available cache:
// Redis when configured, otherwise the database when one is open, otherwise none.
func newProjectSource(ctx context.Context, database *db.DB, gen llm.Generator, m *metrics.Metrics) (*fetch.CachedSource, closer, error) {
	var render fetch.RenderFunc
	if cfg.UseBrowser {
		render = fetch.BrowserRenderer(fetch.DefaultTimeout, fetch.RepositoryListSelector)
	}
	scraper := fetch.NewGitHubScraper(cfg.GitHubBase, render)

	var projectCache fetch.ProjectCache
	done := func() {}
	switch {
	case cfg.RedisURL != "":
		r, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		projectCache = r
		done = func() { _ = r.Close() }
	case database != nil:
		projectCache = database
	default:
		logger.Component("cli").Debug().Msg("no project cache configured")
	}

	sourceCfg := &fetch.CachedSourceConfig{CacheTTL: cfg.CacheDuration(), Metrics: m}
	if gen != nil {
		sourceCfg.Enrich = bulletEnricher(gen)
	}
	return fetch.NewCachedSource(scraper, projectCache, sourceCfg), done, nil
}

// bulletEnricher generates bullets for projects that have none. Failures keep the
// project without bullets.
func bulletEnricher(gen llm.Generator) fetch.EnrichFunc {
	return func(ctx context.Context, projects []types.ProjectEntry) ([]types.ProjectEntry, error) {
		log := logger.Component("cli")
		out := make([]types.ProjectEntry, len(projects))
		for i, p := range projects {
			enriched, err := llm.GenerateProjectBullets(ctx, gen, p)
			if err != nil {
				log.Warn().Err(err).Str("project", p.Title).Msg("bullet generation failed")
				enriched = p
			}
			out[i] = enriched
		}
		return out, nil
	}
}

// writeOutput writes data to path, creating parent directories, or to out when path is empty or "-"
func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := out.Write(append(data, '\n'))
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
