package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	minParagraphRunes = 30
	shortBodyRunes    = 400
)

// Class or id fragments of elements that usually wrap the article text.
var contentContainerKeywords = []string{
	"article-body", "articlebody", "article__body", "article-content", "post-content",
	"post-body", "entry-content", "content-text", "materia", "story", "texto",
	"conteudo", "content-body", "news-body", "article", "content",
}

// Link is an outbound anchor of a site page.
type Link struct {
	Text string
	Href string
}

// Links returns the first limit anchors with an href, in document order.
// Anchor text is whitespace-collapsed; limit <= 0 means no bound.
func Links(doc *goquery.Document, limit int) []Link {
	var links []Link
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(links) >= limit {
			return false
		}
		href, _ := s.Attr("href")
		links = append(links, Link{
			Text: collapse(s.Text()),
			Href: strings.TrimSpace(href),
		})
		return true
	})
	return links
}

// Body extracts article text from paragraphs longer than 30 runes. When the
// page-wide pass yields under 400 runes, extraction is retried inside the
// first element that looks like an article container and the longer result
// wins.
func Body(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()

	text := paragraphs(doc.Selection)
	if utf8.RuneCountInString(text) >= shortBodyRunes {
		return text
	}

	container := contentContainer(doc)
	if container == nil {
		return text
	}
	scoped := paragraphs(container)
	if scoped == "" {
		scoped = collapse(container.Text())
	}
	if utf8.RuneCountInString(scoped) > utf8.RuneCountInString(text) {
		return scoped
	}
	return text
}

func paragraphs(root *goquery.Selection) string {
	var parts []string
	root.Find("p").Each(func(_ int, p *goquery.Selection) {
		t := collapse(p.Text())
		if utf8.RuneCountInString(t) > minParagraphRunes {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

// contentContainer walks the keyword list in priority order and returns the
// first element, in document order, whose class or id carries the keyword.
func contentContainer(doc *goquery.Document) *goquery.Selection {
	candidates := doc.Find("[class], [id]")
	for _, k := range contentContainerKeywords {
		var found *goquery.Selection
		candidates.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			id, _ := s.Attr("id")
			if strings.Contains(strings.ToLower(class+" "+id), k) {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
