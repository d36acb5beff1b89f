// Package dedup decides whether a scraped link was already seen, either by
// URL, by exact title or by a near-identical title.
package dedup

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/deusflow/vivimundo/internal/textnorm"
)

// Reason explains why Check rejected a candidate. The zero value means unique.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonURL     Reason = "url_seen"
	ReasonTitle   Reason = "title_seen"
	ReasonSimilar Reason = "title_similar"
)

const (
	DefaultThreshold = 0.65
	DefaultMinTokens = 3
)

// Function words that carry no identity in a headline.
var stopWords = map[string]struct{}{
	"que": {}, "por": {}, "para": {}, "com": {}, "sem": {}, "dos": {}, "das": {},
	"nos": {}, "nas": {}, "uma": {}, "uns": {}, "umas": {}, "ao": {}, "aos": {},
	"pelo": {}, "pela": {}, "pelos": {}, "pelas": {}, "sobre": {}, "após": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
}

// Options tunes the fuzzy title check.
type Options struct {
	Threshold float64
	MinTokens int
}

// Detector holds the processed-URL cache and the processed-title set.
// Both only grow.
type Detector struct {
	mu        sync.RWMutex
	urls      map[string]struct{}
	titles    map[string]struct{}
	tokens    [][]string
	threshold float64
	minTokens int
}

// New builds a detector seeded with previously persisted URLs and titles.
// Seeds are normalized again, so older snapshots stay compatible.
func New(opts Options, urls, titles []string) *Detector {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MinTokens <= 0 {
		opts.MinTokens = DefaultMinTokens
	}
	d := &Detector{
		urls:      make(map[string]struct{}, len(urls)),
		titles:    make(map[string]struct{}, len(titles)),
		threshold: opts.Threshold,
		minTokens: opts.MinTokens,
	}
	for _, u := range urls {
		d.urls[textnorm.NormalizeURL(u)] = struct{}{}
	}
	for _, t := range titles {
		d.addTitle(textnorm.NormalizeTitle(t))
	}
	return d
}

// Check returns the first duplicate rule the candidate trips, in order:
// URL membership, exact title, fuzzy title.
func (d *Detector) Check(rawURL, title string) Reason {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if rawURL != "" {
		if _, ok := d.urls[textnorm.NormalizeURL(rawURL)]; ok {
			return ReasonURL
		}
	}

	key := textnorm.NormalizeTitle(title)
	if key == "" {
		return ReasonNone
	}
	if _, ok := d.titles[key]; ok {
		return ReasonTitle
	}

	cand := Tokens(key)
	if len(cand) < d.minTokens {
		return ReasonNone
	}
	for _, seen := range d.tokens {
		if len(seen) < d.minTokens {
			continue
		}
		if Jaccard(cand, seen) >= d.threshold {
			return ReasonSimilar
		}
	}
	return ReasonNone
}

// Accept records both the URL and the title of an accepted candidate.
func (d *Detector) Accept(rawURL, title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls[textnorm.NormalizeURL(rawURL)] = struct{}{}
	d.addTitle(textnorm.NormalizeTitle(title))
}

// RecordURL marks a URL as processed without touching the title set, so
// the same headline can still be accepted from another source.
func (d *Detector) RecordURL(rawURL string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls[textnorm.NormalizeURL(rawURL)] = struct{}{}
}

// Snapshot returns the normalized URLs and titles, sorted, for persistence.
func (d *Detector) Snapshot() (urls, titles []string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	urls = make([]string, 0, len(d.urls))
	for u := range d.urls {
		urls = append(urls, u)
	}
	titles = make([]string, 0, len(d.titles))
	for t := range d.titles {
		titles = append(titles, t)
	}
	sort.Strings(urls)
	sort.Strings(titles)
	return urls, titles
}

// Len returns the sizes of the URL cache and the title set.
func (d *Detector) Len() (urls, titles int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.urls), len(d.titles)
}

func (d *Detector) addTitle(key string) {
	if key == "" {
		return
	}
	if _, ok := d.titles[key]; ok {
		return
	}
	d.titles[key] = struct{}{}
	d.tokens = append(d.tokens, Tokens(key))
}

// Tokens splits a normalized title into the set of words used for the
// fuzzy check: function words and words of two runes or fewer are dropped.
func Tokens(normalized string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, w := range strings.Fields(normalized) {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Jaccard computes |A∩B| / |A∪B| over two token sets.
func Jaccard(a, b []string) float64 {
	aSet := make(map[string]bool, len(a))
	for _, t := range a {
		aSet[t] = true
	}
	bSet := make(map[string]bool, len(b))
	for _, t := range b {
		bSet[t] = true
	}

	inter := 0
	for t := range aSet {
		if bSet[t] {
			inter++
		}
	}
	union := len(aSet) + len(bSet) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
