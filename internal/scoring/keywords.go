// Package scoring turns raw candidate entries into ranked content records.
package scoring

import (
	"strings"
	"unicode"
)

// stopWords are dropped from job descriptions before matching
var stopWords = map[string]bool{
	"a": true, "about": true, "across": true, "all": true, "an": true, "and": true, "any": true,
	"are": true, "as": true, "at": true, "be": true, "been": true, "both": true, "but": true,
	"by": true, "can": true, "do": true, "each": true, "etc": true, "experience": true, "for": true,
	"from": true, "have": true, "help": true, "in": true, "including": true, "into": true, "is": true,
	"it": true, "its": true, "job": true, "like": true, "more": true, "must": true, "not": true,
	"of": true, "on": true, "or": true, "our": true, "plus": true, "preferred": true, "required": true,
	"role": true, "should": true, "strong": true, "such": true, "team": true, "that": true, "the": true,
	"their": true, "this": true, "to": true, "using": true, "we": true, "who": true, "will": true,
	"with": true, "work": true, "working": true, "years": true, "you": true, "your": true,
}

// Tokenize lowercases text and splits it into word tokens. Symbols that are part of
// common technology names ("c++", "c#", "node.js") are kept inside tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExtractKeywords returns the distinct non-stop-word tokens of a job description in
// first-seen order.
func ExtractKeywords(jobDescription string) []string {
	seen := make(map[string]bool)
	keywords := make([]string, 0)
	for _, tok := range Tokenize(jobDescription) {
		if len(tok) < 2 && tok != "c" && tok != "r" {
			continue
		}
		if stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}

// CountKeywords returns how many distinct keywords occur in text
func CountKeywords(text string, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}
	present := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		present[tok] = true
	}

	count := 0
	for _, kw := range keywords {
		if present[kw] {
			count++
		}
	}
	return count
}
