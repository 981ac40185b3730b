package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Built a Go service", "Built a Go service"},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"braces", "text{with}braces", `text\{with\}braces`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "R&D", `R\&D`},
		{"percent", "cut latency 40%", `cut latency 40\%`},
		{"hash", "C#", `C\#`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "snake_case", `snake\_case`},
		{"tilde", "~home", `\textasciitilde{}home`},
		{"backslash not double escaped", `\{`, `\textbackslash{}\{`},
		{"unicode untouched", "Zürich – café", "Zürich – café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.input))
		})
	}
}

func TestEscapeURL(t *testing.T) {
	assert.Equal(t, "https://github.com/octo/packer", escapeURL("https://github.com/octo/packer"))
	assert.Equal(t, `https://x.dev/a\%20b\#top`, escapeURL("https://x.dev/a%20b#top"))
	assert.Equal(t, "https://x.dev/%7Bid%7D", escapeURL("https://x.dev/{id}"))
}
