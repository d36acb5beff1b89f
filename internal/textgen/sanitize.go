package textgen

import (
	"regexp"
	"strings"
)

var (
	codeFenceRe      = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	noteLineRe       = regexp.MustCompile(`(?im)^\s*(note|nota|observação|obs)\s*:.*$`)
	noteInlineRe     = regexp.MustCompile(`(?i)[\(\[]\s*(note|nota|observação)\s*:[^\)\]]*[\)\]]`)
	preambleRe       = regexp.MustCompile(`(?im)^\s*(aqui está|segue|claro[,!]?|here is|here's)[^\n]{0,80}:\s*$`)
	labelPrefixRe    = regexp.MustCompile(`(?im)^\s*(texto|matéria|resposta|título)\s*:\s*`)
	markdownHeaderRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe           = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	blankRunRe       = regexp.MustCompile(`\n{3,}`)
	spaceRunRe       = regexp.MustCompile(`[ \t]{2,}`)
)

// Sanitize strips model chatter from generated text: code fences, "Note:"
// disclaimers, preambles and markdown emphasis. Paragraph breaks survive.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = codeFenceRe.ReplaceAllString(s, "")
	s = noteInlineRe.ReplaceAllString(s, "")
	s = noteLineRe.ReplaceAllString(s, "")
	s = preambleRe.ReplaceAllString(s, "")
	s = labelPrefixRe.ReplaceAllString(s, "")
	s = markdownHeaderRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = spaceRunRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
