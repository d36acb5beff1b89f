package site

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gorilla/feeds"

	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/storage"
)

// Regenerate rewrites the home page, every category page and the feed
// from the index.
func (p *Publisher) Regenerate(articles []news.Article) error {
	if err := p.WriteHome(articles); err != nil {
		return err
	}
	if err := p.WriteCategoryPages(articles); err != nil {
		return err
	}
	return p.WriteFeed(articles)
}

// WriteHome lists the last HomeLimit articles, newest first.
func (p *Publisher) WriteHome(articles []news.Article) error {
	recent := newestFirst(articles, HomeLimit)
	data := listData{
		Nav:     p.nav(),
		Title:   p.name + " - Portal de Notícias",
		Heading: "Últimas Notícias",
		Author:  p.author,
		Cards:   p.cards(recent),
	}
	return p.renderList(HomeFile, data)
}

// WriteCategoryPages writes categoria-<slug>.html for every known category,
// including ones with no articles yet.
func (p *Publisher) WriteCategoryPages(articles []news.Article) error {
	byCategory := make(map[string][]news.Article)
	for _, a := range articles {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	slugs := make([]string, 0, len(p.categories))
	seen := make(map[string]bool)
	for _, c := range p.categories {
		slugs = append(slugs, c.Slug)
		seen[c.Slug] = true
	}
	for _, a := range articles {
		if a.Category != "" && !seen[a.Category] {
			slugs = append(slugs, a.Category)
			seen[a.Category] = true
		}
	}

	for _, slug := range slugs {
		name := p.categoryName(slug)
		data := listData{
			Nav:     p.nav(),
			Title:   name + " - " + p.name,
			Heading: name,
			Author:  p.author,
			Cards:   p.cards(newestFirst(byCategory[slug], 0)),
		}
		if err := p.renderList(CategoryFile(slug), data); err != nil {
			return err
		}
	}
	return nil
}

// WriteFeed writes an RSS 2.0 feed of the most recent articles.
func (p *Publisher) WriteFeed(articles []news.Article) error {
	recent := newestFirst(articles, 20)

	updated := p.now()
	if len(recent) > 0 {
		updated = recent[0].PublishedAt
	}

	feed := &feeds.Feed{
		Title:       p.name,
		Link:        &feeds.Link{Href: p.AbsURL(HomeFile)},
		Description: p.name + " - Portal de Notícias",
		Author:      &feeds.Author{Name: p.author},
		Created:     updated,
		Updated:     updated,
	}
	for _, a := range recent {
		link := p.AbsURL(a.ContentURL)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       a.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.categoryName(a.Category),
			Created:     a.PublishedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fmt.Errorf("failed to render feed: %w", err)
	}
	return storage.WriteFileAtomic(filepath.Join(p.root, FeedFile), []byte(rss), 0o644)
}

func (p *Publisher) renderList(name string, data listData) error {
	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return storage.WriteFileAtomic(filepath.Join(p.root, name), buf.Bytes(), 0o644)
}

func (p *Publisher) nav() navData {
	return navData{SiteName: p.name, Prefix: "", Categories: p.categories}
}

func (p *Publisher) cards(articles []news.Article) []card {
	out := make([]card, 0, len(articles))
	for _, a := range articles {
		out = append(out, card{
			Title:        a.Title,
			URL:          a.ContentURL,
			ImageURL:     a.ImageURL,
			Category:     a.Category,
			CategoryName: p.categoryName(a.Category),
			Date:         formatDate(a.PublishedAt),
		})
	}
	return out
}

// AbsURL joins rel onto the configured base URL.
func (p *Publisher) AbsURL(rel string) string {
	if p.baseURL == "" {
		return rel
	}
	return p.baseURL + "/" + rel
}

// newestFirst reverses index order (append order is publication order)
// and keeps at most limit entries; limit 0 keeps all.
func newestFirst(articles []news.Article, limit int) []news.Article {
	n := len(articles)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]news.Article, 0, n)
	for i := len(articles) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, articles[i])
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
