package source

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	appLog "holidaycal/internal/log"
)

// DefaultChromiumTimeout bounds one headless page load.
const DefaultChromiumTimeout = 30 * time.Second

// ChromiumFetcher loads announcement pages in a headless Chromium instance
// via chromedp. It is meant for mirrors that only build the article body
// with scripts; the plain Fetcher is preferred otherwise.
type ChromiumFetcher struct {
	// Timeout bounds the entire page load. If zero,
	// DefaultChromiumTimeout is used.
	Timeout time.Duration
}

// Fetch navigates to url, waits until the article container is present and
// returns its outer HTML.
func (c *ChromiumFetcher) Fetch(parentCtx context.Context, url string) (FetchResult, error) {
	if url == "" {
		return FetchResult{}, fmt.Errorf("chromium: URL is required")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultChromiumTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	appLog.Info("paper chromium fetch start", "url", url)

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady(containerSelector, chromedp.ByQuery),
		chromedp.OuterHTML(containerSelector, &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return FetchResult{}, fmt.Errorf("chromium: chromedp run failed: %w", err)
	}

	appLog.Info("paper chromium fetch success", "url", url, "bytes", len(html))
	return FetchResult{URL: url, Body: []byte(html)}, nil
}
