package experience

import (
	"strings"

	"github.com/jonathan/resume-packer/internal/types"
)

// NormalizeCandidateBank trims text fields, drops blank bullets and lowercases the username
func NormalizeCandidateBank(bank *types.CandidateBank) {
	bank.Username = strings.ToLower(strings.TrimSpace(bank.Username))
	bank.Header.Name = strings.TrimSpace(bank.Header.Name)
	bank.Header.Email = strings.TrimSpace(bank.Header.Email)

	for i := range bank.Experiences {
		e := &bank.Experiences[i]
		e.Title = strings.TrimSpace(e.Title)
		e.Company = strings.TrimSpace(e.Company)
		e.Bullets = cleanBullets(e.Bullets)
	}
	for i := range bank.Projects {
		p := &bank.Projects[i]
		p.Title = strings.TrimSpace(p.Title)
		p.Description = strings.TrimSpace(p.Description)
		p.Bullets = cleanBullets(p.Bullets)
	}
}

func cleanBullets(bullets []string) []string {
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// MergeProjects appends fetched projects whose titles are not already in the bank.
// Titles compare case-insensitively and hand-written projects win.
func MergeProjects(bank *types.CandidateBank, fetched []types.ProjectEntry) int {
	seen := make(map[string]bool, len(bank.Projects))
	for _, p := range bank.Projects {
		seen[strings.ToLower(p.Title)] = true
	}

	added := 0
	for _, p := range fetched {
		key := strings.ToLower(strings.TrimSpace(p.Title))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		p.Bullets = cleanBullets(p.Bullets)
		bank.Projects = append(bank.Projects, p)
		added++
	}
	return added
}
