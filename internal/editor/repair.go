package editor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deusflow/vivimundo/internal/dedup"
	"github.com/deusflow/vivimundo/internal/textnorm"
)

// Reasons recorded when the quick cleanup changes a text.
const (
	ReasonSourceRemoved    = "source_removed"
	ReasonTitleLeadRemoved = "title_lead_removed"
)

const (
	DefaultMaxSentences = 12
	minSentenceRunes    = 60
	sentenceKeyRunes    = 120
	leadSimilarity      = 0.70
)

var boilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?im)\bleia também\b.*$`),
	regexp.MustCompile(`(?im)\bveja também\b.*$`),
	regexp.MustCompile(`(?im)\bsaiba mais\b.*$`),
	regexp.MustCompile(`(?im)\bclique aqui\b.*$`),
	regexp.MustCompile(`(?im)\bcompartilhe\b.*$`),
	regexp.MustCompile(`(?im)\bsiga\s+o\s+canal\b.*$`),
	regexp.MustCompile(`(?im)\binscreva-?se\b.*$`),
	regexp.MustCompile(`(?im)\bnewsletter\b.*$`),
	regexp.MustCompile(`(?im)\bclick here\b.*$`),
	regexp.MustCompile(`(?im)\bread more\b.*$`),
	regexp.MustCompile(`(?im)\bwatch\b.*$`),
}

var (
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
	fonteLineRe   = regexp.MustCompile(`(?im)^\s*fonte\s*:\s*.*$`)
	sourceLineRe  = regexp.MustCompile(`(?im)^\s*source\s*:\s*.*$`)
	attributionRe = regexp.MustCompile(`(?i)\b(segundo|de acordo com|conforme)\s+o\s+(site|jornal|portal)\b[^,.!?:;]{0,80}`)
)

// StripBoilerplate removes calls to action ("leia também", "clique aqui"...)
// up to the end of their line.
func StripBoilerplate(text string) string {
	for _, re := range boilerplate {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n\n"))
}

// StripSourceMentions drops "Fonte:" lines and "segundo o jornal X" phrases.
func StripSourceMentions(text string) (string, bool) {
	if text == "" {
		return text, false
	}
	out := fonteLineRe.ReplaceAllString(text, "")
	out = sourceLineRe.ReplaceAllString(out, "")
	out = attributionRe.ReplaceAllString(out, "")
	out = strings.TrimSpace(blankRunRe.ReplaceAllString(out, "\n\n"))
	return out, out != text
}

// StripRepeatedTitleLead drops the first paragraph when it merely restates
// the title. Single-paragraph texts are left alone.
func StripRepeatedTitleLead(text, title string) (string, bool) {
	if text == "" || title == "" {
		return text, false
	}
	paras := textnorm.Paragraphs(text)
	if len(paras) < 2 {
		return text, false
	}

	t := textnorm.NormalizeTitle(title)
	p0 := textnorm.NormalizeTitle(paras[0])
	rest := strings.Join(paras[1:], "\n\n")

	if t != "" {
		n := utf8.RuneCountInString(t)
		prefix := t
		if k := max(20, n/2); k < n {
			prefix = string([]rune(t)[:k])
		}
		if strings.Contains(p0, t) || strings.HasPrefix(p0, prefix) {
			return rest, true
		}
	}

	tw, pw := wordSet(t), wordSet(p0)
	if len(tw) > 0 && len(pw) > 0 && dedup.Jaccard(tw, pw) >= leadSimilarity {
		return rest, true
	}
	return text, false
}

func wordSet(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.Fields(s) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// QuickCleanup is the cheap pass run before flag evaluation. It returns the
// cleaned text and the reasons for any content it removed.
func QuickCleanup(text, title string) (string, []string) {
	var reasons []string
	text = textnorm.FixSpacing(StripBoilerplate(text))

	text, removed := StripSourceMentions(text)
	if removed {
		reasons = append(reasons, ReasonSourceRemoved)
	}
	text, removed = StripRepeatedTitleLead(text, title)
	if removed {
		reasons = append(reasons, ReasonTitleLeadRemoved)
	}
	return text, reasons
}

// RuleRepair rebuilds a text without a language model: boilerplate is
// stripped, spacing fixed, and up to maxSentences distinct sentences of at
// least 60 runes are kept, one per paragraph. If no sentence qualifies the
// cleaned text is returned as is.
func RuleRepair(text string, maxSentences int) string {
	if text == "" {
		return text
	}
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	t := textnorm.FixSpacing(StripBoilerplate(text))

	var kept []string
	seen := make(map[string]bool)
	for _, s := range Sentences(t) {
		if utf8.RuneCountInString(s) < minSentenceRunes {
			continue
		}
		key := textnorm.NormalizeTitle(s)
		if r := []rune(key); len(r) > sentenceKeyRunes {
			key = string(r[:sentenceKeyRunes])
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, s)
		if len(kept) >= maxSentences {
			break
		}
	}

	if len(kept) == 0 {
		return t
	}
	return strings.Join(kept, "\n\n")
}

// Sentences splits on blank lines and after ".", "!" or "?" followed by
// whitespace.
func Sentences(text string) []string {
	var out []string
	for _, para := range textnorm.Paragraphs(text) {
		runes := []rune(para)
		start := 0
		for i := 0; i < len(runes); i++ {
			if !strings.ContainsRune(".!?", runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
				continue
			}
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}
