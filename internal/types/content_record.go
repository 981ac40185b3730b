// Package types provides type definitions for structured data used throughout the resume-packer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// Kind tags where a content record came from
type Kind string

const (
	// KindExperience marks a work experience record
	KindExperience Kind = "experience"
	// KindProject marks a project record
	KindProject Kind = "project"
)

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	return k == KindExperience || k == KindProject
}

// ContentRecord is one candidate entry annotated with ranking signals.
// Payload is carried through selection untouched.
type ContentRecord struct {
	Kind         Kind    `json:"kind"`
	Title        string  `json:"title"`
	KeywordCount int     `json:"keyword_count"`
	Similarity   float64 `json:"similarity"`
	Payload      Payload `json:"payload"`
}

// Payload holds the renderer-only data for a record
type Payload struct {
	Company   string   `json:"company,omitempty"`
	Dates     string   `json:"dates,omitempty"`
	Location  string   `json:"location,omitempty"`
	URL       string   `json:"url,omitempty"`
	Bullets   []string `json:"bullets"`
	SourceRef string   `json:"source_ref,omitempty"`
}

// RecordSet is the on-disk shape of selector input
type RecordSet struct {
	Experience []ContentRecord `json:"experience"`
	Projects   []ContentRecord `json:"projects"`
}

// SelectionResult holds the admitted records split by kind, each in rank order
type SelectionResult struct {
	Experience []ContentRecord `json:"experience"`
	Projects   []ContentRecord `json:"projects"`
	TotalCost  float64         `json:"total_cost"`
	Budget     float64         `json:"budget"`
}

// Len returns the number of admitted records across both kinds
func (r *SelectionResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Experience) + len(r.Projects)
}

// Titles returns the set of titles included in the result
func (r *SelectionResult) Titles() map[string]bool {
	titles := make(map[string]bool)
	if r == nil {
		return titles
	}
	for _, rec := range r.Experience {
		titles[rec.Title] = true
	}
	for _, rec := range r.Projects {
		titles[rec.Title] = true
	}
	return titles
}

// UnmarshalJSON rejects unknown kinds so a bad tag never reaches the selector
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = ""
		return nil
	}
	kind := Kind(s)
	if !kind.Valid() {
		return fmt.Errorf("unknown record kind %q", s)
	}
	*k = kind
	return nil
}
