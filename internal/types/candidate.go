// Package types provides type definitions for structured data used throughout the resume-packer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// CandidateBank is everything known about one candidate before scoring
type CandidateBank struct {
	Username    string            `json:"username" validate:"required"`
	Header      Header            `json:"header"`
	Education   []Education       `json:"education" validate:"dive"`
	Experiences []ExperienceEntry `json:"experiences" validate:"dive"`
	Projects    []ProjectEntry    `json:"projects" validate:"dive"`
}

// Header is the contact block printed at the top of the page
type Header struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

// Education is a single degree line
type Education struct {
	School         string `json:"school" validate:"required"`
	Degree         string `json:"degree" validate:"required"`
	Major          string `json:"major,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty"`
}

// ExperienceEntry is a raw work experience with its bullets
type ExperienceEntry struct {
	Title    string   `json:"title" validate:"required"`
	Company  string   `json:"company,omitempty"`
	Dates    string   `json:"dates,omitempty"`
	Location string   `json:"location,omitempty"`
	Bullets  []string `json:"bullets"`
}

// ProjectEntry is a raw project, typically a scraped repository
type ProjectEntry struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Language    string   `json:"language,omitempty"`
	Bullets     []string `json:"bullets"`
}

// Text returns the free text used for keyword matching and embeddings
func (e *ExperienceEntry) Text() string {
	return joinText(e.Title, e.Company, e.Bullets)
}

// Text returns the free text used for keyword matching and embeddings
func (p *ProjectEntry) Text() string {
	return joinText(p.Title, p.Description, p.Bullets)
}

func joinText(title, extra string, bullets []string) string {
	n := len(title) + len(extra)
	for _, b := range bullets {
		n += len(b) + 1
	}
	buf := make([]byte, 0, n+2)
	buf = append(buf, title...)
	if extra != "" {
		buf = append(buf, '\n')
		buf = append(buf, extra...)
	}
	for _, b := range bullets {
		buf = append(buf, '\n')
		buf = append(buf, b...)
	}
	return string(buf)
}

// Validate validates the CandidateBank using the validator.
func (b *CandidateBank) Validate() error {
	validate := validator.New()
	return validate.Struct(b)
}
