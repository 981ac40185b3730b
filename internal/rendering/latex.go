// Package rendering renders a selection of resume records into a LaTeX document.
package rendering

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-packer/internal/types"
)

//go:embed templates/resume.tex.tmpl
var defaultTemplate string

// Input is everything printed on the page
type Input struct {
	Header    types.Header
	Education []types.Education
	Selection *types.SelectionResult
}

// TemplateData represents the data structure passed to the LaTeX template.
// All strings are already LaTeX-escaped.
type TemplateData struct {
	Name        string
	ContactLine string
	Education   []EducationSection
	Experience  []ExperienceSection
	Projects    []ProjectSection
}

// EducationSection is one degree line
type EducationSection struct {
	School         string
	Degree         string
	Major          string
	GraduationDate string
}

// ExperienceSection is one experience record as printed
type ExperienceSection struct {
	Title    string
	Company  string
	Dates    string
	Location string
	Bullets  []string
}

// ProjectSection is one project record as printed
type ProjectSection struct {
	Title   string
	URL     string
	Bullets []string
}

// RenderLaTeX renders in with the template at templatePath, or the built-in
// template when templatePath is empty. Records are printed in the order given.
func RenderLaTeX(in Input, templatePath string) (string, error) {
	tmpl, err := loadTemplate(templatePath)
	if err != nil {
		return "", err
	}

	if in.Header.Name == "" {
		return "", &RenderError{Section: "header", Message: "name is required"}
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, buildTemplateData(in)); err != nil {
		return "", &TemplateError{
			Template: templatePath,
			Message:  "failed to execute",
			Cause:    err,
		}
	}

	return result.String(), nil
}

func loadTemplate(templatePath string) (*template.Template, error) {
	if templatePath == "" {
		return parseTemplate("", defaultTemplate)
	}

	content, err := os.ReadFile(templatePath)
	if err != nil {
		msg := "failed to read"
		if os.IsNotExist(err) {
			msg = "not found"
		}
		return nil, &TemplateError{Template: templatePath, Message: msg, Cause: err}
	}
	return parseTemplate(templatePath, string(content))
}

func parseTemplate(path, content string) (*template.Template, error) {
	name := path
	if name == "" {
		name = "resume"
	}
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{Template: path, Message: "failed to parse", Cause: err}
	}
	return tmpl, nil
}

func buildTemplateData(in Input) *TemplateData {
	data := &TemplateData{
		Name:        EscapeLaTeX(in.Header.Name),
		ContactLine: contactLine(in.Header),
	}

	for _, e := range in.Education {
		data.Education = append(data.Education, EducationSection{
			School:         EscapeLaTeX(e.School),
			Degree:         EscapeLaTeX(e.Degree),
			Major:          EscapeLaTeX(e.Major),
			GraduationDate: EscapeLaTeX(e.GraduationDate),
		})
	}

	if in.Selection == nil {
		return data
	}

	for _, r := range in.Selection.Experience {
		data.Experience = append(data.Experience, ExperienceSection{
			Title:    EscapeLaTeX(r.Title),
			Company:  EscapeLaTeX(r.Payload.Company),
			Dates:    EscapeLaTeX(r.Payload.Dates),
			Location: EscapeLaTeX(r.Payload.Location),
			Bullets:  escapeAll(r.Payload.Bullets),
		})
	}
	for _, r := range in.Selection.Projects {
		data.Projects = append(data.Projects, ProjectSection{
			Title:   EscapeLaTeX(r.Title),
			URL:     escapeURL(r.Payload.URL),
			Bullets: escapeAll(r.Payload.Bullets),
		})
	}

	return data
}

// contactLine joins the non-empty contact fields with a separator
func contactLine(h types.Header) string {
	var parts []string
	for _, p := range []string{h.Address, h.Email, h.Phone} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, EscapeLaTeX(p))
		}
	}
	return strings.Join(parts, ` $\cdot$ `)
}

func escapeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, EscapeLaTeX(s))
	}
	return out
}
