// Package fetch retrieves web pages, including a candidate's public projects on GitHub.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single page request
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the scraper to remote hosts
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumePacker/1.0)"
	// DefaultMaxBytes caps how much of a response body is read
	DefaultMaxBytes = 5 << 20
)

// ErrBodyTooLarge is returned when a page exceeds Options.MaxBytes
var ErrBodyTooLarge = errors.New("response body too large")

// Result is a fetched page
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error describes a failed fetch. StatusCode is zero when no response arrived.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound reports whether the server answered 404
func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Options configures URL
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	MaxBytes  int64
	// Client overrides the HTTP client; Timeout is ignored when set
	Client *http.Client
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (o *Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// URL GETs a page. On a non-200 answer the Result is still returned with an *Error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", agent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &Error{URL: urlStr, StatusCode: resp.StatusCode, Message: "failed to read body", Cause: err}
	}
	if int64(len(body)) > limit {
		return nil, &Error{URL: urlStr, StatusCode: resp.StatusCode, Message: fmt.Sprintf("more than %d bytes", limit), Cause: ErrBodyTooLarge}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// collapseSpace joins the whitespace-separated words of text with single spaces
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
