package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/types"
)

// DefaultGitHubBase is the public GitHub web root
const DefaultGitHubBase = "https://github.com"

// RepositoryListSelector matches the repository list on a profile's repositories tab
const RepositoryListSelector = "#user-repositories-list"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// ValidUsername reports whether name is a syntactically valid GitHub login
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name) && !strings.HasSuffix(name, "-")
}

// GitHubScraper lists a user's public repositories from their profile page.
type GitHubScraper struct {
	BaseURL string
	Options *Options
	// Render, when set, is used for pages whose plain HTTP response lists no repositories.
	Render RenderFunc
}

// NewGitHubScraper creates a scraper rooted at baseURL (DefaultGitHubBase when empty).
func NewGitHubScraper(baseURL string, render RenderFunc) *GitHubScraper {
	if baseURL == "" {
		baseURL = DefaultGitHubBase
	}
	return &GitHubScraper{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Options: DefaultOptions(),
		Render:  render,
	}
}

// Projects implements ProjectSource.
func (s *GitHubScraper) Projects(ctx context.Context, username string) ([]types.ProjectEntry, error) {
	if !ValidUsername(username) {
		return nil, &Error{URL: username, Message: "invalid GitHub username"}
	}

	pageURL := fmt.Sprintf("%s/%s?tab=repositories", s.BaseURL, url.PathEscape(username))
	log := logger.Component("fetch")

	result, err := URL(ctx, pageURL, s.Options)
	if err != nil {
		var fetchErr *Error
		if errors.As(err, &fetchErr) && fetchErr.NotFound() {
			return nil, &Error{URL: pageURL, StatusCode: fetchErr.StatusCode, Message: fmt.Sprintf("GitHub user %s not found", username)}
		}
		return nil, err
	}

	projects, err := ParseRepositories(result.HTML, s.BaseURL)
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to parse repositories", Cause: err}
	}

	if len(projects) == 0 && s.Render != nil {
		log.Info().Str("username", username).Msg("no repositories in static HTML, rendering with browser")
		html, err := s.Render(ctx, pageURL)
		if err != nil {
			return nil, &Error{URL: pageURL, Message: "browser fallback failed", Cause: err}
		}
		projects, err = ParseRepositories(html, s.BaseURL)
		if err != nil {
			return nil, &Error{URL: pageURL, Message: "failed to parse rendered repositories", Cause: err}
		}
	}

	log.Info().Str("username", username).Int("projects", len(projects)).Msg("fetched repositories")
	return projects, nil
}

// ParseRepositories extracts project entries from a GitHub repositories tab.
// Forks are skipped. Relative repository links are resolved against baseURL.
func ParseRepositories(html, baseURL string) ([]types.ProjectEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var projects []types.ProjectEntry
	seen := make(map[string]bool)

	doc.Find(RepositoryListSelector + " li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find(`a[itemprop~="codeRepository"]`).First()
		title := collapseSpace(link.Text())
		if title == "" || seen[title] {
			return
		}
		if isFork(item) {
			return
		}
		seen[title] = true

		href, _ := link.Attr("href")
		projects = append(projects, types.ProjectEntry{
			Title:       title,
			Description: collapseSpace(item.Find(`[itemprop="description"]`).First().Text()),
			URL:         resolveURL(baseURL, href),
			Language:    collapseSpace(item.Find(`[itemprop="programmingLanguage"]`).First().Text()),
			Bullets:     []string{},
		})
	})

	return projects, nil
}

func isFork(item *goquery.Selection) bool {
	if item.HasClass("fork") {
		return true
	}
	return strings.Contains(strings.ToLower(item.Find("span").Text()), "forked from")
}

func resolveURL(baseURL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
