package site

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/deusflow/vivimundo/internal/textnorm"
)

var bodyPolicy = newBodyPolicy()

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "b", "i", "ul", "ol", "li", "blockquote", "h2", "h3")
	return p
}

// SanitizeBody keeps only paragraph-level markup in generated HTML.
func SanitizeBody(s string) string {
	return strings.TrimSpace(bodyPolicy.Sanitize(s))
}

// FormatParagraphs escapes plain text and wraps each blank-line separated
// block in <p>. Blocks shorter than minRunes are dropped.
func FormatParagraphs(text string, minRunes int) string {
	var ps []string
	for _, block := range textnorm.Paragraphs(text) {
		block = strings.Join(strings.Fields(block), " ")
		if utf8.RuneCountInString(block) < minRunes {
			continue
		}
		ps = append(ps, "<p>"+html.EscapeString(block)+"</p>")
	}
	return strings.Join(ps, "\n")
}
