package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/vivimundo/internal/storage"
)

// Action is one line of the editor report.
type Action string

const (
	ActionEdit             Action = "EDIT"
	ActionDelete           Action = "DELETE"
	ActionQuarantine       Action = "QUARANTINE"
	ActionQuarantineFailed Action = "QUARANTINE FAILED"
	ActionBlocked          Action = "BLOCKED BY LIMIT"
	ActionFlags            Action = "FLAGS"
	ActionMissing          Action = "MISSING FILE"
	ActionError            Action = "ERROR"
)

// Entry is what happened to one article.
type Entry struct {
	Action  Action
	Outcome Outcome
	Title   string
	URL     string
	Dest    string
	Reasons []string
	Err     error
}

// Report summarizes one editor run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Apply      bool
	MaxEdits   int
	MaxDeletes int
	Reviewed   int
	Edits      int
	Deletes    int
	Entries    []Entry
}

func (r *Report) add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Mode is "apply" or "audit".
func (r *Report) Mode() string {
	if r.Apply {
		return "apply"
	}
	return "audit"
}

// Markdown renders the report as EDITOR_REPORT.md.
func (r *Report) Markdown(siteName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Editor Report\n\n", siteName)
	fmt.Fprintf(&b, "- Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt.UTC().Format(time.RFC3339))
	if r.Apply {
		b.WriteString("- Mode: apply (fixes written)\n")
	} else {
		b.WriteString("- Mode: audit (nothing changed)\n")
	}
	fmt.Fprintf(&b, "- Limits: max_edits=%d, max_deletes=%d\n", r.MaxEdits, r.MaxDeletes)
	fmt.Fprintf(&b, "- Reviewed: %d\n\n", r.Reviewed)

	for _, e := range r.Entries {
		fmt.Fprintf(&b, "- %s: **%s** (%s)", e.Action, truncate(e.Title, 80), e.URL)
		if e.Dest != "" {
			fmt.Fprintf(&b, " -> `%s`", e.Dest)
		}
		if e.Outcome != "" {
			fmt.Fprintf(&b, " | outcome=%s", e.Outcome)
		}
		if len(e.Reasons) > 0 {
			fmt.Fprintf(&b, " | reasons=%s", strings.Join(e.Reasons, ", "))
		}
		if e.Err != nil {
			fmt.Fprintf(&b, " | err=%s", truncate(e.Err.Error(), 120))
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n- Summary: edits=%d deletes=%d\n", r.Edits, r.Deletes)
	return b.String()
}

// Write saves the markdown report atomically.
func (r *Report) Write(path, siteName string) error {
	return storage.WriteFileAtomic(path, []byte(r.Markdown(siteName)), 0o644)
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
