// Package editor is the editorial quality pass over already published
// articles: it flags defects, repairs what it can and quarantines the rest.
package editor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/vivimundo/internal/textnorm"
)

// Flag names a quality defect.
type Flag string

const (
	FlagTooShort         Flag = "too_short"
	FlagNotPortuguese    Flag = "not_portuguese"
	FlagMentionsSource   Flag = "mentions_source"
	FlagRepeatsTitle     Flag = "repeats_title"
	FlagContainsMarkdown Flag = "contains_markdown"
	FlagTitleGlued       Flag = "title_glued"
)

const (
	MinBodyRunes     = 800
	titleWindowRunes = 400
)

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	spaceRe      = regexp.MustCompile(`\s+`)
	ptWordRe     = regexp.MustCompile(`[a-zà-ú]+`)
	sourceMarker = []string{"fonte:", "source:", "segundo ", "de acordo com ", "conforme "}
	markdownMark = []string{"**", "__", "```"}
)

var ptStopWords = setOf(
	"que", "de", "do", "da", "em", "para", "com", "não", "uma", "um", "os", "as",
	"por", "mais", "como", "sobre", "também", "já", "foi", "será", "são", "era",
	"está", "estão", "disse", "diz", "ao", "aos", "à", "às", "no", "na", "nos", "nas",
)

var enStopWords = setOf(
	"the", "and", "for", "with", "from", "this", "that", "your", "our", "their",
	"you", "they", "we", "was", "were", "are", "is", "in", "on", "of", "to",
)

const ptAccents = "áàâãéêíóôõúç"

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// EvaluateFlags returns the defects of body, in a fixed order.
func EvaluateFlags(title, body string) []Flag {
	var flags []Flag
	if utf8.RuneCountInString(body) < MinBodyRunes {
		flags = append(flags, FlagTooShort)
	}
	if !LooksPortuguese(body) {
		flags = append(flags, FlagNotPortuguese)
	}
	if MentionsSource(body) {
		flags = append(flags, FlagMentionsSource)
	}
	if RepeatsTitle(title, body) {
		flags = append(flags, FlagRepeatsTitle)
	}
	if ContainsMarkdown(body) {
		flags = append(flags, FlagContainsMarkdown)
	}
	return flags
}

// LooksPortuguese is a stopword and accent heuristic. Texts under 200
// characters or 40 words never pass; a strongly English text fails even
// when it carries some Portuguese.
func LooksPortuguese(text string) bool {
	t := strings.ToLower(text)
	t = tagRe.ReplaceAllString(t, " ")
	t = strings.TrimSpace(spaceRe.ReplaceAllString(t, " "))
	if utf8.RuneCountInString(t) < 200 {
		return false
	}

	tokens := ptWordRe.FindAllString(t, -1)
	if len(tokens) < 40 {
		return false
	}

	pt, en := 0, 0
	for _, tok := range tokens {
		if _, ok := ptStopWords[tok]; ok {
			pt++
		}
		if _, ok := enStopWords[tok]; ok {
			en++
		}
	}
	accents := 0
	for _, r := range t {
		if strings.ContainsRune(ptAccents, r) {
			accents++
		}
	}

	if en > 2*pt && en > 20 {
		return false
	}
	return pt >= 8 || accents >= 8
}

// MentionsSource reports attribution phrases such as "fonte:" or "segundo ".
func MentionsSource(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range sourceMarker {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// RepeatsTitle reports whether the normalized title occurs in the first
// 400 runes of text.
func RepeatsTitle(title, text string) bool {
	t := textnorm.NormalizeTitle(title)
	if t == "" {
		return false
	}
	head := text
	if r := []rune(text); len(r) > titleWindowRunes {
		head = string(r[:titleWindowRunes])
	}
	return strings.Contains(textnorm.NormalizeTitle(head), t)
}

func ContainsMarkdown(text string) bool {
	for _, m := range markdownMark {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
