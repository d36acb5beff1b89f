package textnorm

import (
	"regexp"
	"strings"
)

// Boundaries where scraped link text commonly loses its separator.
// Every rule only inserts a space and a space never creates a new match,
// so a single pass is already a fixed point.
var titleBoundaries = []*regexp.Regexp{
	regexp.MustCompile(`([a-zà-ú])([A-ZÀ-Ú])`),
	regexp.MustCompile(`([!?:.\)\]])([A-ZÀ-Úa-zà-ú])`),
	regexp.MustCompile(`([A-ZÀ-Ú]{2,})([A-ZÀ-Ú][a-zà-ú])`),
	regexp.MustCompile(`(\d)([A-ZÀ-Ú])`),
	regexp.MustCompile(`([”’»\}])([A-ZÀ-Úa-zà-ú])`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanTitle separates tokens that were glued together when a headline
// was extracted from markup, e.g. "HPComo funciona" -> "HP Como funciona".
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, re := range titleBoundaries {
		title = re.ReplaceAllString(title, "$1 $2")
	}
	title = whitespaceRun.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
