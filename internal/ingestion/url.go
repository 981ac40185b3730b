package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-packer/internal/fetch"
	"github.com/jonathan/resume-packer/internal/logger"
)

// MinContentLength is the shortest extracted text accepted before trying a rendered page
const MinContentLength = 200

var (
	// ErrContentExtractionFailed is returned when a page cannot be parsed
	ErrContentExtractionFailed = errors.New("content extraction failed")
	// ErrEmptyJobDescription is returned when a job description has no text
	ErrEmptyJobDescription = errors.New("job description is empty")
)

// contentSelectors are tried in order; the first that yields text wins
var contentSelectors = []string{
	"[data-automation-id='jobPostingDescription']",
	"#content .job-post",
	".posting-page",
	"main",
	"article",
	"[role='main']",
	"body",
}

var noiseSelectors = []string{
	"script", "style", "noscript", "svg", "nav", "header", "footer", "form",
	"[aria-hidden='true']", ".cookie-banner", "#cookie-consent",
}

const blockElements = "p, li, h1, h2, h3, h4, h5, h6, div, br, tr"

// URLOptions configures FromURL
type URLOptions struct {
	Fetch *fetch.Options
	// Render re-renders pages whose static HTML has too little text
	Render fetch.RenderFunc
}

// FromURL downloads a job posting and returns its cleaned main text
func FromURL(ctx context.Context, urlStr string, opts *URLOptions) (string, *Metadata, error) {
	if opts == nil {
		opts = &URLOptions{}
	}
	log := logger.Component("ingestion")

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return "", nil, err
	}

	title, text, err := ExtractMainText(result.HTML)
	if err != nil {
		return "", nil, err
	}
	log.Debug().Str("url", urlStr).Int("chars", len(text)).Msg("extracted job posting text")

	rendered := false
	if opts.Render != nil && len(text) < MinContentLength {
		html, renderErr := opts.Render(ctx, urlStr)
		if renderErr != nil {
			log.Warn().Err(renderErr).Str("url", urlStr).Msg("browser rendering failed, using static page")
		} else if rTitle, rText, rErr := ExtractMainText(html); rErr == nil && len(rText) > len(text) {
			title, text, rendered = rTitle, rText, true
		}
	}

	text = CleanText(text)
	if text == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrEmptyJobDescription, urlStr)
	}

	meta := NewMetadata(text, urlStr)
	meta.Title = title
	meta.Rendered = rendered
	return text, meta, nil
}

// ExtractMainText returns the page title and the text of the most specific content
// container, with navigation, scripts and other noise removed.
func ExtractMainText(html string) (title string, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()

	for _, sel := range contentSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if text = blockText(node); text != "" {
			return title, text, nil
		}
	}
	return title, "", nil
}

// blockText keeps block elements on their own lines and marks list items
func blockText(sel *goquery.Selection) string {
	sel.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "li" {
			s.PrependHtml("- ")
		}
		s.AppendHtml("\n")
	})
	return strings.TrimSpace(sel.Text())
}
