// Package ingestion loads job descriptions from text files or job posting URLs.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	bulletMarks = []string{"• ", "· ", "* "}
)

// CleanText normalizes a job description while keeping its line structure.
// Line endings become LF, runs of spaces collapse, bullet markers become "- "
// and at most one blank line is kept between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	for _, mark := range bulletMarks {
		if strings.HasPrefix(line, mark) {
			line = "- " + strings.TrimSpace(strings.TrimPrefix(line, mark))
			break
		}
	}
	return innerSpace.ReplaceAllString(line, " ")
}

// FromFile reads and cleans a job description text file
func FromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read job description %s: %w", path, err)
	}

	text := CleanText(string(content))
	if text == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrEmptyJobDescription, path)
	}
	return text, NewMetadata(text, ""), nil
}
