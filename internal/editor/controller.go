package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/vivimundo/internal/metrics"
	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/ratelimit"
	"github.com/deusflow/vivimundo/internal/retry"
	"github.com/deusflow/vivimundo/internal/site"
	"github.com/deusflow/vivimundo/internal/textgen"
	"github.com/deusflow/vivimundo/internal/textnorm"
)

const (
	ReasonTitleFixed       = "title_fixed"
	ReasonDocumentMissing  = "document_missing"
	ReasonRewriteDiscarded = "rewrite_discarded_edit_limit"

	DefaultMaxEdits   = 25
	DefaultMaxDeletes = 10
	DefaultReportFile = "EDITOR_REPORT.md"

	minParagraphRunes = 50
)

// Options configure a Controller run.
type Options struct {
	Apply      bool
	MaxEdits   int
	MaxDeletes int
	ReportPath string
	Retry      retry.RetryConfig
}

// Controller executes editorial decisions against the site.
type Controller struct {
	pub    *site.Publisher
	gen    textgen.Generator
	opts   Options
	logger *slog.Logger
}

// NewController builds a controller. gen may be nil, in which case every
// rewrite fails and flagged articles fall back to rule repair.
func NewController(pub *site.Publisher, gen textgen.Generator, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxEdits < 0 {
		opts.MaxEdits = 0
	}
	if opts.MaxDeletes < 0 {
		opts.MaxDeletes = 0
	}
	if opts.ReportPath == "" {
		opts.ReportPath = DefaultReportFile
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	}
	return &Controller{pub: pub, gen: gen, opts: opts, logger: logger}
}

// Run reviews the index newest first. The report is always written; the
// index and pages are only touched in apply mode.
func (c *Controller) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		Apply:      c.opts.Apply,
		MaxEdits:   c.opts.MaxEdits,
		MaxDeletes: c.opts.MaxDeletes,
	}
	log := c.logger.With("run_id", report.RunID, "mode", report.Mode())

	articles, err := c.pub.LoadIndex()
	if err != nil {
		report.add(Entry{Action: ActionError, Title: "posts.json", Err: err})
		return report, errors.Join(err, report.Write(c.opts.ReportPath, c.pub.Name()))
	}

	removed := make(map[int]bool)
	for i := len(articles) - 1; i >= 0; i-- {
		if report.Edits >= c.opts.MaxEdits && report.Deletes >= c.opts.MaxDeletes {
			log.Info("limits reached, stopping", "edits", report.Edits, "deletes", report.Deletes)
			break
		}
		if ctx.Err() != nil {
			log.Warn("run cancelled", "error", ctx.Err())
			break
		}

		report.Reviewed++
		metrics.Global.IncrementArticlesReviewed()
		if c.opts.Apply {
			removed[i] = c.review(ctx, &articles[i], report)
		} else {
			c.audit(articles[i], report)
		}
	}

	var errs []error
	if c.opts.Apply {
		kept := make([]news.Article, 0, len(articles))
		for i, a := range articles {
			if !removed[i] {
				kept = append(kept, a)
			}
		}
		if err := c.pub.SaveIndex(kept); err != nil {
			errs = append(errs, err)
		} else if err := c.pub.Regenerate(kept); err != nil {
			errs = append(errs, fmt.Errorf("regenerate pages: %w", err))
		}
	}

	if err := report.Write(c.opts.ReportPath, c.pub.Name()); err != nil {
		errs = append(errs, fmt.Errorf("write report: %w", err))
	}

	log.Info("editor finished", "reviewed", report.Reviewed, "edits", report.Edits, "deletes", report.Deletes,
		"max_edits", c.opts.MaxEdits, "max_deletes", c.opts.MaxDeletes)
	return report, errors.Join(errs...)
}

// audit reports flags without changing anything.
func (c *Controller) audit(a news.Article, r *Report) {
	if !c.pub.Exists(a.ContentURL) {
		r.add(Entry{Action: ActionMissing, Title: a.Title, URL: a.ContentURL})
		return
	}
	doc, err := c.pub.ReadDocument(a.ContentURL)
	if err != nil {
		r.add(Entry{Action: ActionError, Title: a.Title, URL: a.ContentURL, Err: err})
		return
	}

	title := a.Title
	if title == "" {
		title = doc.Title
	}
	flags := EvaluateFlags(title, doc.Text)
	if textnorm.CleanTitle(title) != title {
		flags = append(flags, FlagTitleGlued)
	}
	if len(flags) > 0 {
		r.add(Entry{Action: ActionFlags, Title: title, URL: a.ContentURL, Reasons: flagStrings(flags)})
	}
}

// review handles one article in apply mode and reports whether its index
// entry must be dropped.
func (c *Controller) review(ctx context.Context, a *news.Article, r *Report) bool {
	if !c.pub.Exists(a.ContentURL) {
		entry := Entry{Title: a.Title, URL: a.ContentURL, Outcome: OutcomeDeleted, Reasons: []string{ReasonDocumentMissing}}
		if !c.allowDelete(r, entry) {
			return false
		}
		entry.Action = ActionDelete
		r.Deletes++
		metrics.Global.IncrementDeletions()
		r.add(entry)
		return true
	}

	doc, err := c.pub.ReadDocument(a.ContentURL)
	if err != nil {
		r.add(Entry{Action: ActionError, Title: a.Title, URL: a.ContentURL, Err: err})
		return false
	}

	title := a.Title
	if title == "" {
		title = doc.Title
	}
	fixed := textnorm.CleanTitle(title)
	titleChanged := fixed != "" && fixed != a.Title

	var actions []string
	if titleChanged {
		actions = append(actions, ReasonTitleFixed)
	}
	text, cleanup := QuickCleanup(doc.Text, fixed)
	actions = append(actions, cleanup...)

	in := DecisionInput{Title: fixed, Text: text, Flags: EvaluateFlags(fixed, text)}
	if len(in.Flags) > 0 {
		c.logger.Info("flags detected", "url", a.ContentURL, "flags", flagStrings(in.Flags))
		in.Rewrite, in.RewriteErr = c.rewrite(ctx, fixed, text)
		if in.RewriteErr != nil {
			c.logger.Warn("rewrite failed", "url", a.ContentURL, "error", in.RewriteErr)
		}
	}
	dec := Decide(in)

	entry := Entry{
		Title:   fixed,
		URL:     a.ContentURL,
		Outcome: dec.Outcome,
		Reasons: append(append(flagStrings(in.Flags), actions...), dec.Reasons...),
	}

	switch dec.Outcome {
	case OutcomeQuarantined:
		if !c.allowDelete(r, entry) {
			return false
		}
		dest, err := c.pub.Quarantine(a.ContentURL)
		if err != nil {
			entry.Action = ActionQuarantineFailed
			entry.Err = err
			r.add(entry)
			c.logger.Error("quarantine failed, keeping index entry", "url", a.ContentURL, "error", err)
			return false
		}
		entry.Action = ActionQuarantine
		entry.Dest = dest
		r.Deletes++
		metrics.Global.IncrementQuarantines()
		r.add(entry)
		return true

	case OutcomeDeleted:
		if !c.allowDelete(r, entry) {
			return false
		}
		if err := c.pub.Remove(a.ContentURL); err != nil {
			entry.Action = ActionError
			entry.Err = err
			r.add(entry)
			return false
		}
		entry.Action = ActionDelete
		r.Deletes++
		metrics.Global.IncrementDeletions()
		r.add(entry)
		return true
	}

	bodyChanged := dec.Outcome != OutcomeClean || len(cleanup) > 0
	if !titleChanged && !bodyChanged {
		return false
	}
	if r.Edits >= c.opts.MaxEdits {
		entry.Action = ActionBlocked
		if len(in.Flags) > 0 {
			// The rewrite still ran because its result could have been a deletion.
			entry.Reasons = append(entry.Reasons, ReasonRewriteDiscarded)
			c.logger.Warn("edit limit reached, rewrite discarded", "url", a.ContentURL)
		}
		r.add(entry)
		metrics.Global.IncrementBlockedByLimit()
		return false
	}

	newTitle := ""
	if titleChanged {
		newTitle = fixed
	}
	bodyHTML := ""
	if bodyChanged {
		if dec.BodyIsHTML {
			bodyHTML = dec.Body
		} else {
			bodyHTML = site.FormatParagraphs(textnorm.FixSpacing(dec.Body), minParagraphRunes)
		}
	}

	if err := c.pub.Rewrite(a.ContentURL, newTitle, bodyHTML); err != nil {
		entry.Action = ActionError
		entry.Err = err
		r.add(entry)
		return false
	}
	if titleChanged {
		a.Title = fixed
	}

	entry.Action = ActionEdit
	r.Edits++
	metrics.Global.IncrementEdits()
	r.add(entry)
	return false
}

func (c *Controller) allowDelete(r *Report, entry Entry) bool {
	if r.Deletes < c.opts.MaxDeletes {
		return true
	}
	entry.Action = ActionBlocked
	r.add(entry)
	metrics.Global.IncrementBlockedByLimit()
	c.logger.Warn("delete limit reached", "url", entry.URL)
	return false
}

var errNoGenerator = errors.New("no text generation service configured")

func (c *Controller) rewrite(ctx context.Context, title, text string) (string, error) {
	if c.gen == nil {
		return "", errNoGenerator
	}

	cfg := c.opts.Retry
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger.Warn("rewrite attempt failed", "attempt", attempt, "max", cfg.MaxAttempts, "wait", wait, "error", err)
	}

	var out string
	err := retry.WithRetry(ctx, cfg, func() error {
		s, err := c.gen.Generate(ctx, textgen.RewritePrompt(title, text))
		if errors.Is(err, ratelimit.ErrBudgetExhausted) || errors.Is(err, textgen.ErrNoGenerator) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		if s = textgen.Sanitize(s); s == "" {
			return textgen.ErrEmptyResponse
		}
		out = s
		return nil
	})
	return out, err
}

func flagStrings(flags []Flag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, string(f))
	}
	return out
}
