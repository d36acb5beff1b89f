package scraper

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var placeholderDomains = []string{
	"placeholder.com", "placehold.it", "placehold.co", "dummyimage.com",
	"picsum.photos", "fakeimg.pl", "placekitten.com", "lorempixel.com",
}

var imageBlocklist = []string{"logo", "favicon", "avatar", "icon", "badge", "brand", "profile-pic"}

// Keywords that disqualify an <img> during extraction, matched in src and alt.
var decorativeImageKeywords = []string{"logo", "icon", "badge", "avatar"}

// IsValidImage reports whether rawURL can illustrate an article.
func IsValidImage(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "data:") {
		return false
	}

	host := ""
	path := lower
	if u, err := url.Parse(lower); err == nil {
		host = u.Host
		path = u.Path
	}
	for _, d := range placeholderDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return false
		}
	}

	for _, w := range imageBlocklist {
		if strings.Contains(lower, w) {
			return false
		}
	}

	if strings.HasSuffix(path, ".ico") || strings.HasSuffix(path, ".svg") || strings.HasSuffix(path, ".gif") {
		if containsAnyOf(lower, decorativeImageKeywords) {
			return false
		}
	}
	return true
}

// ExtractImage picks the lead image of an article page: og:image first,
// then twitter:image, then the largest declared <img>. The result is an
// absolute URL, or "" when nothing usable exists.
func ExtractImage(doc *goquery.Document, pageURL string) string {
	if og := metaContent(doc, "og:image"); og != "" && !containsAnyOf(strings.ToLower(og), decorativeImageKeywords) {
		return ResolveURL(pageURL, og)
	}
	for _, name := range []string{"twitter:image", "twitter:image:src"} {
		if tw := metaContent(doc, name); tw != "" {
			return ResolveURL(pageURL, tw)
		}
	}

	best := ""
	bestArea := -1
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := imgSource(s)
		if src == "" {
			return
		}
		alt, _ := s.Attr("alt")
		if containsAnyOf(strings.ToLower(src+" "+alt), decorativeImageKeywords) {
			return
		}
		area := dimension(s, "width") * dimension(s, "height")
		if area > bestArea {
			best = src
			bestArea = area
		}
	})
	if best == "" {
		return ""
	}
	return ResolveURL(pageURL, best)
}

func metaContent(doc *goquery.Document, key string) string {
	sel := doc.Find(`meta[property="` + key + `"], meta[name="` + key + `"]`).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

func imgSource(s *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src", "data-original"} {
		if v, ok := s.Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v != "" && !strings.HasPrefix(strings.ToLower(v), "data:") {
				return v
			}
		}
	}
	return ""
}

func dimension(s *goquery.Selection, attr string) int {
	v, ok := s.Attr(attr)
	if !ok {
		return 0
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func containsAnyOf(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
