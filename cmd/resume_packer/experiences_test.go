package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExperienceEntries(t *testing.T) {
	path := writeTemp(t, "experiences.json", `[
		{"title": "  Engineer ", "company": "Acme", "bullets": [" Shipped things ", ""]},
		{"title": "Analyst", "bullets": null}
	]`)

	entries, err := loadExperienceEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Engineer", entries[0].Title)
	assert.Equal(t, []string{"Shipped things"}, entries[0].Bullets)
	assert.Equal(t, "Analyst", entries[1].Title)
}

func TestLoadExperienceEntries_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"not an array", `{"title": "Engineer"}`, "failed to unmarshal"},
		{"missing title", `[{"company": "Acme"}]`, "invalid experience entry 0"},
		{"blank title", `[{"title": "Engineer"}, {"title": "   "}]`, "invalid experience entry 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "experiences.json", tt.content)
			_, err := loadExperienceEntries(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := loadExperienceEntries(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read experiences file")
}

func TestExperiencesCommand_RequiresUsername(t *testing.T) {
	path := writeTemp(t, "experiences.json", `[{"title": "Engineer"}]`)

	_, err := execute(t, "experiences", "set", "--in", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
}

func TestExperiencesCommand_RequiresDatabase(t *testing.T) {
	_, err := execute(t, "experiences", "get", "--username", "octo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestWriteOutput(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, "", []byte(`{"a":1}`)))
		assert.Equal(t, "{\"a\":1}\n", buf.String())

		buf.Reset()
		require.NoError(t, writeOutput(&buf, "-", []byte("x")))
		assert.Equal(t, "x\n", buf.String())
	})

	t.Run("file in new directory", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "a", "b", "out.json")
		require.NoError(t, writeOutput(&buf, path, []byte("data")))
		assert.Empty(t, buf.String())

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "data", string(got))
	})
}
