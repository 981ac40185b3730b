package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-packer/internal/logger"
)

// RenderFunc returns the HTML of a page after client-side scripts have run
type RenderFunc func(ctx context.Context, url string) (string, error)

// settleDelay lets late XHR content land after the wait selector appears
const settleDelay = 500 * time.Millisecond

// WithBrowser loads url in headless Chrome, waits until waitSelector is visible
// (or "body" when empty) and returns the document HTML. Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, url, waitSelector string, timeout time.Duration) (string, error) {
	if waitSelector == "" {
		waitSelector = "body"
	}
	log := logger.Component("fetch")
	log.Debug().Str("url", url).Str("wait", waitSelector).Msg("rendering with headless browser")

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.UserAgent(DefaultUserAgent),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var html string
	start := time.Now()
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	log.Debug().Str("url", url).Int("bytes", len(html)).Dur("took", time.Since(start)).Msg("rendered page")
	return html, nil
}

// BrowserRenderer returns a RenderFunc that waits for waitSelector on every page
func BrowserRenderer(timeout time.Duration, waitSelector string) RenderFunc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func(ctx context.Context, url string) (string, error) {
		html, err := WithBrowser(ctx, url, waitSelector, timeout)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", url, err)
		}
		return html, nil
	}
}
