package news

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// Candidate is a scraped article that passed every acquisition filter.
// It lives only until the publishing cycle turns it into an Article.
type Candidate struct {
	Title     string
	Body      string
	SourceURL string
	ImageURL  string
}

// Article is one entry of the published index (posts.json).
type Article struct {
	Title       string    `json:"title"`
	ContentURL  string    `json:"content_url"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Site is one source page of a topic.
type Site struct {
	URL  string `yaml:"url"`
	Feed bool   `yaml:"feed"`
}

// Subcategory is one row of a topic's ordered keyword table.
type Subcategory struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Topic is a static rotation entry: where to look and how to label
// what was found.
type Topic struct {
	Name          string        `yaml:"name"`
	Category      string        `yaml:"category"`
	Sites         []Site        `yaml:"sites"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Labels returns the topic's subcategory labels in table order.
func (t Topic) Labels() []string {
	labels := make([]string, 0, len(t.Subcategories))
	for _, s := range t.Subcategories {
		labels = append(labels, s.Label)
	}
	return labels
}

var (
	wordRegexpMu sync.Mutex
	wordRegexps  = map[string]*regexp.Regexp{}
)

// ContainsAny reports whether text contains any keyword, case-insensitively.
// Phrases and long keywords match as substrings; keywords of three runes
// or fewer must match a whole word so "ia" does not fire inside "notícia".
func ContainsAny(text string, keywords []string) bool {
	return MatchKeyword(text, keywords) != ""
}

// MatchKeyword returns the first keyword found in text, or "".
func MatchKeyword(text string, keywords []string) string {
	text = strings.ToLower(text)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		if strings.Contains(k, " ") || len([]rune(k)) > 3 {
			if strings.Contains(text, k) {
				return k
			}
			continue
		}

		if wordRegexp(k).MatchString(text) {
			return k
		}
	}
	return ""
}

// wordRegexp compiles a whole-word matcher. \b is ASCII-only in RE2, so
// letter classes are spelled out to keep accented neighbours inside a word.
func wordRegexp(k string) *regexp.Regexp {
	wordRegexpMu.Lock()
	defer wordRegexpMu.Unlock()

	if re, ok := wordRegexps[k]; ok {
		return re
	}
	const word = `\p{L}\p{N}_`
	re := regexp.MustCompile(`(^|[^` + word + `])` + regexp.QuoteMeta(k) + `($|[^` + word + `])`)
	wordRegexps[k] = re
	return re
}
