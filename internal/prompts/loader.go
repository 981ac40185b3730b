// Package prompts holds the Gemini prompt templates used by the generator.
// Prompt files are flat JSON objects embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// library maps file name to prompt key to template, parsed on first use
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	return parseAll(promptFiles)
})

func parseAll(fsys fs.FS) (map[string]map[string]string, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		out[name] = prompts
	}
	return out, nil
}

func file(filename string) (map[string]string, error) {
	lib, err := library()
	if err != nil {
		return nil, err
	}
	prompts, ok := lib[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	return prompts, nil
}

// Get returns the prompt stored under key in filename (e.g. "generation.json")
func Get(filename, key string) (string, error) {
	prompts, err := file(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts compiled into the binary; a miss is a programming error
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data.
// Placeholders without a value are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the prompt keys in filename, sorted
func List(filename string) ([]string, error) {
	prompts, err := file(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
