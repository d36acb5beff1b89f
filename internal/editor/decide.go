package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/deusflow/vivimundo/internal/textnorm"
)

// Outcome is the fate of one article in an apply pass.
type Outcome string

const (
	OutcomeClean        Outcome = "clean"
	OutcomeRewritten    Outcome = "rewritten"
	OutcomeRuleRepaired Outcome = "rule_repaired"
	OutcomeQuarantined  Outcome = "quarantined"
	OutcomeDeleted      Outcome = "deleted"
)

// Decision reasons.
const (
	ReasonRewritten           = "rewritten"
	ReasonRuleRepaired        = "rule_repaired"
	ReasonNotPortugueseFinal  = "not_portuguese_after_rewrite"
	ReasonQuarantineNoRewrite = "quarantine_without_rewrite"
	ReasonQuarantineNotPT     = "quarantine_not_portuguese_without_rewrite"
)

// DecisionInput is everything Decide looks at. Rewrite and RewriteErr are
// only meaningful when Flags is non-empty.
type DecisionInput struct {
	Title      string
	Text       string
	Flags      []Flag
	Rewrite    string
	RewriteErr error
}

// Decision is the action to take and, for clean/rewritten/rule_repaired,
// the new body. Body is plain text with blank-line paragraphs unless
// BodyIsHTML is set.
type Decision struct {
	Outcome    Outcome
	Body       string
	BodyIsHTML bool
	Reasons    []string
}

// Decide maps flags and the rewrite attempt onto an outcome. It does no I/O.
func Decide(in DecisionInput) Decision {
	if len(in.Flags) == 0 {
		return Decision{Outcome: OutcomeClean, Body: in.Text}
	}

	if in.RewriteErr == nil {
		text := prepareRewrite(in.Rewrite, in.Title)
		if !LooksPortuguese(text) {
			return Decision{Outcome: OutcomeDeleted, Reasons: []string{ReasonNotPortugueseFinal}}
		}
		return Decision{
			Outcome:    OutcomeRewritten,
			Body:       text,
			BodyIsHTML: strings.Contains(text, "<p"),
			Reasons:    []string{ReasonRewritten},
		}
	}

	if !LooksPortuguese(in.Text) {
		return Decision{Outcome: OutcomeQuarantined, Reasons: []string{ReasonQuarantineNotPT}}
	}

	candidate := RuleRepair(in.Text, DefaultMaxSentences)
	candidate, _ = StripSourceMentions(candidate)
	candidate, _ = StripRepeatedTitleLead(candidate, in.Title)
	if !LooksPortuguese(candidate) || utf8.RuneCountInString(candidate) < MinBodyRunes {
		return Decision{Outcome: OutcomeQuarantined, Reasons: []string{ReasonQuarantineNoRewrite}}
	}
	return Decision{Outcome: OutcomeRuleRepaired, Body: candidate, Reasons: []string{ReasonRuleRepaired}}
}

func prepareRewrite(text, title string) string {
	text = textnorm.FixSpacing(text)
	text, _ = StripSourceMentions(text)
	text, _ = StripRepeatedTitleLead(text, title)
	return text
}
