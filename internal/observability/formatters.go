// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-packer/internal/selection"
	"github.com/jonathan/resume-packer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending with "..." when cut
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintKeywords outputs the keywords extracted from the job description.
func (p *Printer) PrintKeywords(keywords []string) {
	if len(keywords) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d keywords:\n\n", len(keywords)))

	line := ""
	for _, k := range keywords {
		if line != "" && len(line)+len(k)+2 > boxWidth-4 {
			sb.WriteString(line + "\n")
			line = ""
		}
		if line != "" {
			line += ", "
		}
		line += k
	}
	sb.WriteString(line)

	p.printBox("JOB KEYWORDS", sb.String())
}

// PrintRankedRecords outputs the top records in the order the selector will visit them.
func (p *Printer) PrintRankedRecords(set *types.RecordSet) {
	if set == nil || len(set.Experience)+len(set.Projects) == 0 {
		return
	}

	ranked := make([]types.ContentRecord, 0, len(set.Experience)+len(set.Projects))
	ranked = append(ranked, set.Experience...)
	ranked = append(ranked, set.Projects...)
	selection.Rank(ranked)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total records ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %s [%s]\n", i+1, r.Title, r.Kind))
		sb.WriteString(fmt.Sprintf("    Keywords: %d  Similarity: %.3f\n", r.KeywordCount, r.Similarity))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more records", len(ranked)-maxItemsToShow))
	}

	p.printBox("TOP RANKED RECORDS", sb.String())
}

// PrintSelection outputs what fit on the page and how much budget it used.
func (p *Printer) PrintSelection(result *types.SelectionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Budget:   %.1f\n", result.Budget))
	sb.WriteString(fmt.Sprintf("Used:     %.1f\n", result.TotalCost))
	sb.WriteString(fmt.Sprintf("Titles:   %d\n", len(result.Titles())))

	writeRecords(&sb, "Experience", result.Experience)
	writeRecords(&sb, "Projects", result.Projects)

	if result.Len() == 0 {
		sb.WriteString("\nNothing fit within the budget")
	}

	p.printBox("SELECTION", strings.TrimSuffix(sb.String(), "\n"))
}

func writeRecords(sb *strings.Builder, heading string, records []types.ContentRecord) {
	if len(records) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s (%d):\n", heading, len(records)))
	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s (%d bullets)\n", records[i].Title, len(records[i].Payload.Bullets)))
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(records)-maxItemsToShow))
	}
}

// PrintProjects outputs projects fetched for a username.
func (p *Printer) PrintProjects(username string, projects []types.ProjectEntry) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:     %s\n", username))
	sb.WriteString(fmt.Sprintf("Projects: %d\n", len(projects)))

	count := min(len(projects), maxItemsToShow)
	if count > 0 {
		sb.WriteString("\n")
	}
	for i := 0; i < count; i++ {
		pr := projects[i]
		sb.WriteString(fmt.Sprintf("• %s", pr.Title))
		if pr.Language != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", pr.Language))
		}
		sb.WriteString("\n")
	}
	if len(projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(projects)-maxItemsToShow))
	}

	p.printBox("FETCHED PROJECTS", strings.TrimSuffix(sb.String(), "\n"))
}
