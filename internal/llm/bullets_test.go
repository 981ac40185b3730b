package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-packer/internal/types"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestGenerateProjectBullets(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"bullets\": [\"Built a CLI\", \"  \", \"Added caching\", \"Wrote docs\", \"Extra\"]}\n```"}
	project := types.ProjectEntry{Title: "packer", Description: "Resume packer", Language: "Go"}

	got, err := GenerateProjectBullets(context.Background(), gen, project)
	require.NoError(t, err)

	assert.Equal(t, []string{"Built a CLI", "Added caching", "Wrote docs"}, got.Bullets)
	assert.Equal(t, "packer", got.Title)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Project: packer")
	assert.Contains(t, gen.prompts[0], "Language: Go")
	assert.Contains(t, gen.prompts[0], "Description: Resume packer")
}

func TestGenerateProjectBullets_KeepsExisting(t *testing.T) {
	gen := &stubGenerator{}
	project := types.ProjectEntry{Title: "packer", Bullets: []string{"already here"}}

	got, err := GenerateProjectBullets(context.Background(), gen, project)
	require.NoError(t, err)
	assert.Equal(t, project, got)
	assert.Empty(t, gen.prompts)
}

func TestGenerateProjectBullets_Errors(t *testing.T) {
	project := types.ProjectEntry{Title: "packer"}

	t.Run("generator error", func(t *testing.T) {
		_, err := GenerateProjectBullets(context.Background(), &stubGenerator{err: errors.New("boom")}, project)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "packer")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := GenerateProjectBullets(context.Background(), &stubGenerator{response: "not json"}, project)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := GenerateProjectBullets(context.Background(), nil, project)
		assert.Error(t, err)
	})
}

func TestBuildBulletPrompt(t *testing.T) {
	prompt := buildBulletPrompt(types.ProjectEntry{Title: "packer"})

	assert.Contains(t, prompt, "at most 3 bullets")
	assert.Contains(t, prompt, "Project: packer")
	assert.NotContains(t, prompt, "Language:")
	assert.NotContains(t, prompt, "Description:")
	assert.NotContains(t, prompt, "{{.")
}
