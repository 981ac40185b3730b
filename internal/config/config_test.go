package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/selection"
	"github.com/jonathan/resume-packer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"username": "octocat",
		"header": {"name": "John Doe", "email": "john@example.com"},
		"education": [{"school": "UIUC", "degree": "Bachelor of Science", "major": "Computer Science"}],
		"budget": 25,
		"base_cost": 1.25,
		"cache_ttl": "48h",
		"verbose": true,
		"log": {"level": "debug", "format": "pretty"}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "octocat", cfg.Username)
	assert.Equal(t, "John Doe", cfg.Header.Name)
	require.Len(t, cfg.Education, 1)
	assert.Equal(t, "UIUC", cfg.Education[0].School)
	assert.Equal(t, 25.0, cfg.Budget)
	assert.Equal(t, 48*time.Hour, cfg.CacheDuration())
	assert.Equal(t, logger.Config{Level: "debug", Format: "pretty"}, cfg.Log)
	assert.True(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config is valid", cfg: Config{}},
		{name: "negative budget", cfg: Config{Budget: -1}, wantErr: "Budget"},
		{name: "negative penalty", cfg: Config{NewTitlePenalty: -2}, wantErr: "NewTitlePenalty"},
		{name: "bad redis url", cfg: Config{RedisURL: "not a url"}, wantErr: "RedisURL"},
		{name: "bad ttl", cfg: Config{CacheTTL: "soon"}, wantErr: "cache_ttl"},
		{name: "zero ttl", cfg: Config{CacheTTL: "0s"}, wantErr: "must be positive"},
		{name: "education missing degree", cfg: Config{Education: []types.Education{{School: "MIT"}}}, wantErr: "Degree"},
		{name: "missing template", cfg: Config{Template: "/nonexistent/template.tex"}, wantErr: "template file not found"},
		{name: "missing bank", cfg: Config{Bank: "/nonexistent/bank.json"}, wantErr: "bank file not found"},
		{name: "missing job", cfg: Config{Job: "/nonexistent/job.txt"}, wantErr: "job file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCostModel(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, selection.DefaultCostModel(), cfg.CostModel())

	cfg = Config{BaseCost: 1.0, NewTitlePenalty: 3.0}
	assert.Equal(t, selection.CostModel{BaseCost: 1.0, NewTitlePenalty: 3.0}, cfg.CostModel())
}

func TestCacheDuration_Default(t *testing.T) {
	assert.Equal(t, DefaultCacheTTL, (&Config{}).CacheDuration())
	assert.Equal(t, DefaultCacheTTL, (&Config{CacheTTL: "garbage"}).CacheDuration())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := Config{APIKey: "file-key"}
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Template: "templates/one_page.tex",
		Header:   types.Header{Name: "Default Name"},
		Budget:   20,
		APIKey:   "default-key",
	}

	cfg := Config{Username: "octocat", Budget: 12}
	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "octocat", merged.Username)
	assert.Equal(t, "templates/one_page.tex", merged.Template)
	assert.Equal(t, "Default Name", merged.Header.Name)
	assert.Equal(t, 12.0, merged.Budget)
	assert.Equal(t, "default-key", merged.APIKey)
	assert.Equal(t, DefaultEmbeddingModel, merged.EmbeddingModel)
}

func TestMergeWithDefaults_BudgetFallback(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, selection.DefaultBudget, merged.Budget)
}
