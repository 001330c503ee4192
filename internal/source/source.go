// Package source downloads official holiday announcements and turns the
// article page into plain text for internal/paper.
package source

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"holidaycal/internal/config"
)

// ErrSourceFormat is returned for announcement URLs that do not have the
// publisher's usual shape. The page layout ExtractText relies on is only
// known for those.
var ErrSourceFormat = errors.New("source: unexpected announcement URL, site changed, need human verify")

var paperURLPattern = regexp.MustCompile(`^http://www\.gov\.cn/zhengce/content/\d{4}-\d{2}/\d{2}/content_\d+\.htm$`)

// ValidateURL checks url against the publisher's article URL shape.
func ValidateURL(url string) error {
	if !paperURLPattern.MatchString(url) {
		return fmt.Errorf("%w: %s", ErrSourceFormat, url)
	}
	return nil
}

// PageFetcher returns the raw article page for a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// Source fetches announcement pages and extracts their text.
type Source struct {
	pages  PageFetcher
	strict bool
}

// New returns a Source using pages. When strict is set, URLs are checked
// with ValidateURL before anything is fetched.
func New(pages PageFetcher, strict bool) *Source {
	return &Source{pages: pages, strict: strict}
}

// FromConfig builds the Source selected by cfg.FetchMode.
func FromConfig(cfg *config.Config) *Source {
	var pages PageFetcher
	switch cfg.FetchMode {
	case config.FetchChromium:
		pages = &ChromiumFetcher{}
	default:
		pages = NewFetcher(cfg.CacheDir)
	}
	return New(pages, cfg.Strict())
}

// Text returns the announcement text published at url.
func (s *Source) Text(ctx context.Context, url string) (string, error) {
	if s.strict {
		if err := ValidateURL(url); err != nil {
			return "", err
		}
	}

	res, err := s.pages.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("can not get paper from url %s: %w", url, err)
	}

	text, err := ExtractText(res.Body)
	if err != nil {
		return "", fmt.Errorf("can not get paper context from url %s: %w", url, err)
	}
	return text, nil
}
