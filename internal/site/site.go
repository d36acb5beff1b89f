// Package site renders the static portal: article documents under posts/,
// the posts.json index, the home page, per-category pages and feed.xml.
package site

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/deusflow/vivimundo/internal/news"
)

const (
	PostsDir      = "posts"
	QuarantineDir = "posts/_quarantine"
	IndexFile     = "posts.json"
	HomeFile      = "index.html"
	FeedFile      = "feed.xml"
	HomeLimit     = 10
)

// ErrOutsideRoot is returned for content URLs that escape the site root.
var ErrOutsideRoot = errors.New("content url outside site root")

// Category is one navigation entry.
type Category struct {
	Slug string
	Name string
}

// Options configure a Publisher.
type Options struct {
	Root       string
	SiteName   string
	BaseURL    string
	Author     string
	Categories []Category
}

// Publisher owns every file under the site root.
type Publisher struct {
	root       string
	name       string
	baseURL    string
	author     string
	categories []Category
	logger     *slog.Logger
	now        func() time.Time
}

func NewPublisher(opts Options, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.SiteName == "" {
		opts.SiteName = "Vivimundo"
	}
	if opts.Author == "" {
		opts.Author = "Redação " + opts.SiteName
	}
	return &Publisher{
		root:       opts.Root,
		name:       opts.SiteName,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		author:     opts.Author,
		categories: opts.Categories,
		logger:     logger,
		now:        time.Now,
	}
}

// CategoriesFromTopics builds the navigation from the topic table.
func CategoriesFromTopics(topics []news.Topic) []Category {
	seen := make(map[string]bool)
	var out []Category
	for _, t := range topics {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		name := t.Name
		if name == "" {
			name = CategoryName(t.Category)
		}
		out = append(out, Category{Slug: t.Category, Name: name})
	}
	return out
}

// CategoryName turns a slug like "politica-nacional" into "Politica Nacional".
func CategoryName(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

func (p *Publisher) Root() string { return p.root }

func (p *Publisher) Name() string { return p.name }

// IndexPath is the filesystem path of posts.json.
func (p *Publisher) IndexPath() string {
	return filepath.Join(p.root, IndexFile)
}

// Path resolves a content URL such as "posts/post-0001-x.html" below the
// site root.
func (p *Publisher) Path(contentURL string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(contentURL))
	if clean == "/" || strings.Contains(contentURL, "..") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, contentURL)
	}
	return filepath.Join(p.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Exists reports whether the document behind contentURL is on disk.
func (p *Publisher) Exists(contentURL string) bool {
	fp, err := p.Path(contentURL)
	if err != nil {
		return false
	}
	info, err := os.Stat(fp)
	return err == nil && !info.IsDir()
}

func (p *Publisher) categoryName(slug string) string {
	for _, c := range p.categories {
		if c.Slug == slug {
			return c.Name
		}
	}
	return CategoryName(slug)
}

// CategoryFile is the page listing one category.
func CategoryFile(slug string) string {
	return "categoria-" + slug + ".html"
}
