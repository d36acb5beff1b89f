// Package rss discovers article links from RSS/Atom feeds for topic sites
// that publish one.
package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/vivimundo/internal/scraper"
)

// Reader turns a feed into the same link list a scraped page would give.
type Reader struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewReader creates a feed reader sharing the given HTTP client.
func NewReader(client *http.Client, userAgent string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &Reader{parser: p, logger: logger}
}

// Links fetches feedURL and returns item titles and links in feed order,
// bounded by limit (<= 0 means no bound).
func (r *Reader) Links(ctx context.Context, feedURL string, limit int) ([]scraper.Link, error) {
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	links := make([]scraper.Link, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(links) >= limit {
			break
		}
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		links = append(links, scraper.Link{
			Text: strings.Join(strings.Fields(item.Title), " "),
			Href: strings.TrimSpace(item.Link),
		})
	}
	r.logger.Debug("feed loaded", "url", feedURL, "items", len(feed.Items), "links", len(links))
	return links, nil
}
