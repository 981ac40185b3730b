package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-packer/internal/prompts"
	"github.com/jonathan/resume-packer/internal/types"
)

// MaxProjectBullets caps how many bullets are kept per generated project
const MaxProjectBullets = 3

const promptFile = "generation.json"

type bulletResponse struct {
	Bullets []string `json:"bullets"`
}

// GenerateProjectBullets writes resume bullets for a scraped project.
// Projects that already have bullets are returned unchanged.
func GenerateProjectBullets(ctx context.Context, gen Generator, project types.ProjectEntry) (types.ProjectEntry, error) {
	if len(project.Bullets) > 0 {
		return project, nil
	}
	if gen == nil {
		return project, fmt.Errorf("no generator configured")
	}

	raw, err := gen.GenerateJSON(ctx, buildBulletPrompt(project))
	if err != nil {
		return project, fmt.Errorf("failed to generate bullets for %q: %w", project.Title, err)
	}

	var resp bulletResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &resp); err != nil {
		return project, fmt.Errorf("failed to parse bullets for %q: %w", project.Title, err)
	}

	bullets := make([]string, 0, MaxProjectBullets)
	for _, b := range resp.Bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		bullets = append(bullets, b)
		if len(bullets) == MaxProjectBullets {
			break
		}
	}

	project.Bullets = bullets
	return project, nil
}

func buildBulletPrompt(p types.ProjectEntry) string {
	var details strings.Builder
	if p.Language != "" {
		details.WriteString(prompts.Format(prompts.MustGet(promptFile, "project-details-language"),
			map[string]string{"Language": p.Language}))
	}
	if p.Description != "" {
		details.WriteString(prompts.Format(prompts.MustGet(promptFile, "project-details-description"),
			map[string]string{"Description": p.Description}))
	}

	return prompts.Format(prompts.MustGet(promptFile, "project-bullets"), map[string]string{
		"MaxBullets": strconv.Itoa(MaxProjectBullets),
		"Title":      p.Title,
		"Details":    details.String(),
	})
}
