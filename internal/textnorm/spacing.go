package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	lowerUpperGlue  = regexp.MustCompile(`([a-zà-ú])([A-ZÀ-Ú])`)
	digitLetterGlue = regexp.MustCompile(`(\d)([A-Za-zÀ-Úà-ú])`)
	paragraphBreak  = regexp.MustCompile(`\n\s*\n`)
)

const sentencePunct = ",;:.!?"

// FixSpacing inserts the spaces lost around punctuation, case changes and
// digits, then collapses whitespace. Paragraph breaks (blank lines) are
// kept as "\n\n"; decimal numbers like "3,5" are left alone.
func FixSpacing(s string) string {
	paras := Paragraphs(s)
	for i, p := range paras {
		p = spaceAfterPunct(p)
		p = lowerUpperGlue.ReplaceAllString(p, "$1 $2")
		p = digitLetterGlue.ReplaceAllString(p, "$1 $2")
		paras[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Join(paras, "\n\n")
}

// Paragraphs splits s on blank lines and drops empty blocks.
func Paragraphs(s string) []string {
	var out []string
	for _, p := range paragraphBreak.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func spaceAfterPunct(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, r := range runes {
		b.WriteRune(r)
		if !strings.ContainsRune(sentencePunct, r) || i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		switch {
		case unicode.IsSpace(next):
		case strings.ContainsRune(sentencePunct+`)]"'”»`, next):
		case i > 0 && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(next):
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
