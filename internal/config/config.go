// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/selection"
	"github.com/jonathan/resume-packer/internal/types"
)

const (
	// DefaultCacheTTL is how long scraped projects stay cached per username
	DefaultCacheTTL = 7 * 24 * time.Hour
	// DefaultEmbeddingModel is the Gemini embedding model used for similarity
	DefaultEmbeddingModel = "text-embedding-004"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Bank     string `json:"bank,omitempty"`     // Path to candidate bank JSON
	Job      string `json:"job,omitempty"`      // Path to job description text file
	Template string `json:"template,omitempty"` // Path to LaTeX template

	// Candidate
	Username  string            `json:"username,omitempty"`
	Header    types.Header      `json:"header" validate:"-"`
	Education []types.Education `json:"education,omitempty" validate:"dive"`

	// Page budget
	Budget          float64 `json:"budget,omitempty" validate:"gte=0"`
	BaseCost        float64 `json:"base_cost,omitempty" validate:"gte=0"`
	NewTitlePenalty float64 `json:"new_title_penalty,omitempty" validate:"gte=0"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"`                             // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" validate:"omitempty,url"`       // Redis URL for the project cache
	CacheTTL    string `json:"cache_ttl,omitempty"`                                // Go duration, e.g. "72h"
	GitHubBase  string `json:"github_base_url,omitempty" validate:"omitempty,url"` // Override for GitHub host

	// Behavior
	APIKey         string        `json:"api_key,omitempty"`         // Gemini API key
	EmbeddingModel string        `json:"embedding_model,omitempty"` // Gemini embedding model
	UseBrowser     bool          `json:"use_browser,omitempty"`     // Render GitHub pages in a headless browser
	Verbose        bool          `json:"verbose,omitempty"`         // Print detailed debug information
	Log            logger.Config `json:"log"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are enforced by the commands that need them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.CacheTTL != "" {
		ttl, err := time.ParseDuration(c.CacheTTL)
		if err != nil {
			return fmt.Errorf("config error: 'cache_ttl' is not a duration: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("config error: 'cache_ttl' must be positive")
		}
	}

	if c.BaseCost != 0 || c.NewTitlePenalty != 0 {
		if _, err := selection.New(c.CostModel()); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.Bank != "" {
		if _, err := os.Stat(c.Bank); os.IsNotExist(err) {
			return fmt.Errorf("config error: bank file not found: %s", c.Bank)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// CostModel returns the configured page costs, falling back to the defaults per field
func (c *Config) CostModel() selection.CostModel {
	m := selection.DefaultCostModel()
	if c.BaseCost > 0 {
		m.BaseCost = c.BaseCost
	}
	if c.NewTitlePenalty > 0 {
		m.NewTitlePenalty = c.NewTitlePenalty
	}
	return m
}

// CacheDuration returns the parsed cache TTL or the default
func (c *Config) CacheDuration() time.Duration {
	if c.CacheTTL == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil || ttl <= 0 {
		return DefaultCacheTTL
	}
	return ttl
}

// ApplyEnv fills connection settings and secrets from the environment when unset
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.RedisURL == "" {
		c.RedisURL = os.Getenv("REDIS_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Bank == "" {
		result.Bank = defaults.Bank
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Username == "" {
		result.Username = defaults.Username
	}
	if result.Header == (types.Header{}) {
		result.Header = defaults.Header
	}
	if len(result.Education) == 0 {
		result.Education = defaults.Education
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.GitHubBase == "" {
		result.GitHubBase = defaults.GitHubBase
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Log == (logger.Config{}) {
		result.Log = defaults.Log
	}

	if result.EmbeddingModel == "" {
		if defaults.EmbeddingModel != "" {
			result.EmbeddingModel = defaults.EmbeddingModel
		} else {
			result.EmbeddingModel = DefaultEmbeddingModel
		}
	}

	if result.Budget == 0 {
		if defaults.Budget > 0 {
			result.Budget = defaults.Budget
		} else {
			result.Budget = selection.DefaultBudget
		}
	}
	if result.BaseCost == 0 {
		result.BaseCost = defaults.BaseCost
	}
	if result.NewTitlePenalty == 0 {
		result.NewTitlePenalty = defaults.NewTitlePenalty
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
