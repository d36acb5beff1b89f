// Package acquire walks a topic's source sites and returns the first
// candidate article that survives every filter.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/vivimundo/internal/dedup"
	"github.com/deusflow/vivimundo/internal/metrics"
	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/scraper"
	"github.com/deusflow/vivimundo/internal/textnorm"
)

// ErrExhausted means every site of the topic was tried without success.
var ErrExhausted = errors.New("all sites exhausted without an acceptable candidate")

const (
	DefaultMaxLinks     = 80
	DefaultMinBodyRunes = 500
)

// Fetcher loads and parses an HTML page.
type Fetcher interface {
	Document(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// FeedReader lists the entries of an RSS or Atom feed.
type FeedReader interface {
	Links(ctx context.Context, feedURL string, limit int) ([]scraper.Link, error)
}

// Options tune the engine. Zero values fall back to defaults, except the
// pause range where zero disables politeness delays.
type Options struct {
	MaxLinks     int
	MinBodyRunes int
	PauseMin     time.Duration
	PauseMax     time.Duration
}

// Engine is the candidate acquisition pipeline.
type Engine struct {
	fetcher  Fetcher
	feeds    FeedReader
	detector *dedup.Detector
	opts     Options
	logger   *slog.Logger
}

func New(fetcher Fetcher, feeds FeedReader, detector *dedup.Detector, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxLinks <= 0 {
		opts.MaxLinks = DefaultMaxLinks
	}
	if opts.MinBodyRunes <= 0 {
		opts.MinBodyRunes = DefaultMinBodyRunes
	}
	return &Engine{fetcher: fetcher, feeds: feeds, detector: detector, opts: opts, logger: logger}
}

// Acquire tries the topic's sites in order. Greedy: the first link that
// passes every check is accepted into the duplicate caches and returned.
func (e *Engine) Acquire(ctx context.Context, topic news.Topic) (*news.Candidate, error) {
	visited := make(map[string]bool)

	for _, site := range topic.Sites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		links, err := e.links(ctx, site)
		if err != nil {
			metrics.Global.IncrementFetchErrors()
			e.logger.Warn("site unavailable", "topic", topic.Name, "site", site.URL, "error", err)
			continue
		}

		cand, err := e.scanSite(ctx, site.URL, links, visited)
		if err != nil {
			return nil, err
		}
		if cand != nil {
			metrics.Global.IncrementCandidatesAccepted()
			e.logger.Info("candidate found", "topic", topic.Name, "title", cand.Title, "url", cand.SourceURL)
			return cand, nil
		}
		e.logger.Info("nothing found on site", "topic", topic.Name, "site", site.URL)
	}
	return nil, fmt.Errorf("%s: %w", topic.Name, ErrExhausted)
}

func (e *Engine) links(ctx context.Context, site news.Site) ([]scraper.Link, error) {
	if site.Feed && e.feeds != nil {
		return e.feeds.Links(ctx, site.URL, e.opts.MaxLinks)
	}
	doc, err := e.fetcher.Document(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	return scraper.Links(doc, e.opts.MaxLinks), nil
}

// scanSite returns (nil, nil) when the site has nothing acceptable. Only
// context cancellation is reported as an error.
func (e *Engine) scanSite(ctx context.Context, siteURL string, links []scraper.Link, visited map[string]bool) (*news.Candidate, error) {
	for _, link := range links {
		metrics.Global.IncrementLinksScanned()

		title := textnorm.CleanTitle(link.Text)
		if ok, reason := news.CheckTitle(title); !ok {
			metrics.Global.IncrementTitlesRejected()
			e.logger.Debug("title rejected", "title", title, "reason", reason)
			continue
		}
		if news.IsBlockedTitle(title) {
			metrics.Global.IncrementTitlesRejected()
			e.logger.Debug("title rejected", "title", title, "reason", news.ReasonBlockedKeyword)
			continue
		}

		href := scraper.ResolveURL(siteURL, link.Href)
		if !scraper.IsHTTP(href) {
			continue
		}
		if news.IsBlockedDomain(href) {
			e.logger.Debug("link rejected", "url", href, "reason", news.ReasonBlockedDomain)
			continue
		}

		key := textnorm.NormalizeURL(href)
		if visited[key] {
			continue
		}
		visited[key] = true

		if reason := e.detector.Check(href, title); reason != dedup.ReasonNone {
			metrics.Global.IncrementDuplicatesFiltered()
			e.logger.Debug("duplicate", "title", title, "reason", reason)
			continue
		}

		if err := scraper.Pause(ctx, e.opts.PauseMin, e.opts.PauseMax); err != nil {
			return nil, err
		}

		cand, err := e.inspect(ctx, title, href)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.Global.IncrementFetchErrors()
			e.logger.Debug("article fetch failed", "url", href, "error", err)
			continue
		}
		if cand != nil {
			return cand, nil
		}
	}
	return nil, nil
}

// inspect fetches one article. Content-quality rejections record only the
// URL, so the headline stays available from other sources.
func (e *Engine) inspect(ctx context.Context, title, href string) (*news.Candidate, error) {
	doc, err := e.fetcher.Document(ctx, href)
	if err != nil {
		return nil, err
	}

	image := scraper.ExtractImage(doc, href)
	body := scraper.Body(doc)

	if !scraper.IsValidImage(image) {
		metrics.Global.IncrementImagesRejected()
		e.detector.RecordURL(href)
		e.logger.Debug("image rejected", "url", href, "image", image)
		return nil, nil
	}

	if utf8.RuneCountInString(body) <= e.opts.MinBodyRunes {
		metrics.Global.IncrementBodiesTooShort()
		e.detector.RecordURL(href)
		e.logger.Debug("body too short", "url", href, "runes", utf8.RuneCountInString(body))
		return nil, nil
	}

	e.detector.Accept(href, title)
	return &news.Candidate{
		Title:     title,
		Body:      body,
		SourceURL: href,
		ImageURL:  image,
	}, nil
}
