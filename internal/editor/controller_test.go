package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/ratelimit"
	"github.com/deusflow/vivimundo/internal/retry"
	"github.com/deusflow/vivimundo/internal/site"
	"github.com/deusflow/vivimundo/internal/textgen"
)

type fixture struct {
	pub      *site.Publisher
	articles []news.Article
	report   string
}

// newFixture publishes one post per body; an empty body leaves the
// document missing while keeping its index entry.
func newFixture(t *testing.T, bodies ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	pub := site.NewPublisher(site.Options{Root: root, BaseURL: "https://vivimundo.example"}, nil)

	f := &fixture{pub: pub, report: filepath.Join(root, "EDITOR_REPORT.md")}
	for i, body := range bodies {
		a := news.Article{
			Title:       testTitle,
			Category:    "economia",
			PublishedAt: time.Date(2026, 5, i+1, 12, 0, 0, 0, time.UTC),
		}
		if body == "" {
			a.ContentURL = site.PostURL(i+1, "sumiu")
		} else {
			url, err := pub.WritePost(a, body, i+1)
			if err != nil {
				t.Fatalf("WritePost: %v", err)
			}
			a.ContentURL = url
		}
		f.articles = append(f.articles, a)
	}
	if err := pub.SaveIndex(f.articles); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	return f
}

func (f *fixture) run(t *testing.T, gen textgen.Generator, opts Options) *Report {
	t.Helper()
	opts.ReportPath = f.report
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.RetryConfig{MaxAttempts: 1}
	}
	if opts.MaxEdits == 0 {
		opts.MaxEdits = DefaultMaxEdits
	}
	if opts.MaxDeletes == 0 {
		opts.MaxDeletes = DefaultMaxDeletes
	}
	r, err := NewController(f.pub, gen, opts, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return r
}

func (f *fixture) index(t *testing.T) []news.Article {
	t.Helper()
	articles, err := f.pub.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	return articles
}

var failingGen = textgen.GeneratorFunc(func(context.Context, string) (string, error) {
	return "", errors.New("service down")
})

func findEntry(r *Report, url string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.URL == url {
			return e, true
		}
	}
	return Entry{}, false
}

func TestRun_ApplyQuarantinesAndDeletes(t *testing.T) {
	f := newFixture(t, longPortuguese(), shortPortuguese(), "")
	clean, short, missing := f.articles[0], f.articles[1], f.articles[2]

	r := f.run(t, failingGen, Options{Apply: true})

	if r.Reviewed != 3 || r.Edits != 0 || r.Deletes != 2 {
		t.Fatalf("reviewed=%d edits=%d deletes=%d", r.Reviewed, r.Edits, r.Deletes)
	}

	e, ok := findEntry(r, short.ContentURL)
	if !ok || e.Action != ActionQuarantine || e.Outcome != OutcomeQuarantined {
		t.Fatalf("short article entry = %+v", e)
	}
	if !strings.HasPrefix(e.Dest, site.QuarantineDir+"/") {
		t.Errorf("dest = %q", e.Dest)
	}
	if _, err := os.Stat(filepath.Join(f.pub.Root(), filepath.FromSlash(e.Dest))); err != nil {
		t.Errorf("quarantined file missing: %v", err)
	}
	if f.pub.Exists(short.ContentURL) {
		t.Error("short article still published")
	}

	e, ok = findEntry(r, missing.ContentURL)
	if !ok || e.Action != ActionDelete || len(e.Reasons) != 1 || e.Reasons[0] != ReasonDocumentMissing {
		t.Errorf("missing article entry = %+v", e)
	}

	if _, ok := findEntry(r, clean.ContentURL); ok {
		t.Error("clean article should not be reported")
	}

	index := f.index(t)
	if len(index) != 1 || index[0].ContentURL != clean.ContentURL {
		t.Errorf("index = %+v", index)
	}

	data, err := os.ReadFile(f.report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	for _, want := range []string{"Mode: apply", "QUARANTINE", "DELETE", "Summary: edits=0 deletes=2"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q:\n%s", want, data)
		}
	}

	home, err := os.ReadFile(filepath.Join(f.pub.Root(), site.HomeFile))
	if err != nil {
		t.Fatalf("home not regenerated: %v", err)
	}
	if strings.Contains(string(home), short.ContentURL) {
		t.Error("home still links the quarantined post")
	}
}

func TestRun_ApplyRewrites(t *testing.T) {
	f := newFixture(t, shortPortuguese())
	var prompts []string
	gen := textgen.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "Aqui está a matéria reescrita:\n\n" + longPortuguese(), nil
	})

	r := f.run(t, gen, Options{Apply: true})

	if len(prompts) != 1 || !strings.Contains(prompts[0], testTitle) {
		t.Fatalf("prompts = %d", len(prompts))
	}
	if r.Edits != 1 || r.Deletes != 0 {
		t.Fatalf("edits=%d deletes=%d", r.Edits, r.Deletes)
	}
	e := r.Entries[0]
	if e.Action != ActionEdit || e.Outcome != OutcomeRewritten {
		t.Errorf("entry = %+v", e)
	}

	doc, err := f.pub.ReadDocument(f.articles[0].ContentURL)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if !strings.Contains(doc.Text, "Banco Central") || strings.Contains(doc.Text, "Aqui está") {
		t.Errorf("document not rewritten: %q", doc.Text)
	}
	if len(f.index(t)) != 1 {
		t.Error("edited article must stay in the index")
	}
}

func TestRun_ApplyFixesGluedTitle(t *testing.T) {
	f := newFixture(t, longPortuguese())
	f.articles[0].Title = "EconomiaGoverno anuncia pacote"
	if err := f.pub.SaveIndex(f.articles); err != nil {
		t.Fatal(err)
	}

	r := f.run(t, failingGen, Options{Apply: true})

	if r.Edits != 1 {
		t.Fatalf("edits = %d, entries %+v", r.Edits, r.Entries)
	}
	if got := f.index(t)[0].Title; got != "Economia Governo anuncia pacote" {
		t.Errorf("index title = %q", got)
	}
	doc, err := f.pub.ReadDocument(f.articles[0].ContentURL)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Economia Governo anuncia pacote" {
		t.Errorf("document title = %q", doc.Title)
	}
}

func TestRun_AuditChangesNothing(t *testing.T) {
	f := newFixture(t, longPortuguese(), shortPortuguese(), "")
	before, err := os.ReadFile(f.pub.IndexPath())
	if err != nil {
		t.Fatal(err)
	}
	post, err := os.ReadFile(filepath.Join(f.pub.Root(), filepath.FromSlash(f.articles[1].ContentURL)))
	if err != nil {
		t.Fatal(err)
	}

	called := false
	gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})
	r := f.run(t, gen, Options{Apply: false})

	if called {
		t.Error("audit must not call the generator")
	}
	if r.Edits != 0 || r.Deletes != 0 || r.Reviewed != 3 {
		t.Errorf("reviewed=%d edits=%d deletes=%d", r.Reviewed, r.Edits, r.Deletes)
	}
	if e, _ := findEntry(r, f.articles[2].ContentURL); e.Action != ActionMissing {
		t.Errorf("missing entry = %+v", e)
	}
	if e, _ := findEntry(r, f.articles[1].ContentURL); e.Action != ActionFlags || e.Reasons[0] != string(FlagTooShort) {
		t.Errorf("flags entry = %+v", e)
	}

	after, _ := os.ReadFile(f.pub.IndexPath())
	if string(after) != string(before) {
		t.Error("index changed in audit mode")
	}
	postAfter, _ := os.ReadFile(filepath.Join(f.pub.Root(), filepath.FromSlash(f.articles[1].ContentURL)))
	if string(postAfter) != string(post) {
		t.Error("post changed in audit mode")
	}
	if _, err := os.Stat(f.report); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestRun_DeleteLimitBlocks(t *testing.T) {
	f := newFixture(t, "", "")

	r := f.run(t, failingGen, Options{Apply: true, MaxDeletes: 1})

	if r.Deletes != 1 {
		t.Fatalf("deletes = %d", r.Deletes)
	}
	// Newest first: the second entry is deleted, the first is blocked.
	if e, _ := findEntry(r, f.articles[1].ContentURL); e.Action != ActionDelete {
		t.Errorf("newest entry = %+v", e)
	}
	if e, _ := findEntry(r, f.articles[0].ContentURL); e.Action != ActionBlocked {
		t.Errorf("oldest entry = %+v", e)
	}
	index := f.index(t)
	if len(index) != 1 || index[0].ContentURL != f.articles[0].ContentURL {
		t.Errorf("index = %+v", index)
	}
}

func TestRun_EditLimitBlocks(t *testing.T) {
	f := newFixture(t, longPortuguese(), longPortuguese())
	for i := range f.articles {
		f.articles[i].Title = "EconomiaGoverno anuncia pacote"
	}
	if err := f.pub.SaveIndex(f.articles); err != nil {
		t.Fatal(err)
	}
	oldest := f.articles[0]
	before, err := os.ReadFile(filepath.Join(f.pub.Root(), filepath.FromSlash(oldest.ContentURL)))
	if err != nil {
		t.Fatal(err)
	}

	r := f.run(t, failingGen, Options{Apply: true, MaxEdits: 1})

	if r.Edits != 1 || r.Deletes != 0 {
		t.Fatalf("edits=%d deletes=%d", r.Edits, r.Deletes)
	}
	if e, _ := findEntry(r, f.articles[1].ContentURL); e.Action != ActionEdit {
		t.Errorf("newest entry = %+v", e)
	}
	if e, _ := findEntry(r, oldest.ContentURL); e.Action != ActionBlocked {
		t.Errorf("oldest entry = %+v", e)
	}

	index := f.index(t)
	if len(index) != 2 {
		t.Fatalf("index = %+v", index)
	}
	if index[0].Title != "EconomiaGoverno anuncia pacote" {
		t.Errorf("blocked index title changed to %q", index[0].Title)
	}
	if index[1].Title != "Economia Governo anuncia pacote" {
		t.Errorf("edited index title = %q", index[1].Title)
	}

	doc, err := f.pub.ReadDocument(oldest.ContentURL)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != testTitle {
		t.Errorf("blocked document title = %q", doc.Title)
	}
	after, err := os.ReadFile(filepath.Join(f.pub.Root(), filepath.FromSlash(oldest.ContentURL)))
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Error("blocked document changed")
	}

	data, err := os.ReadFile(f.report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "BLOCKED BY LIMIT") {
		t.Errorf("report missing blocked entry:\n%s", data)
	}
}

func TestRun_EditLimitReportsDiscardedRewrite(t *testing.T) {
	f := newFixture(t, shortPortuguese(), shortPortuguese())
	calls := 0
	gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
		calls++
		return longPortuguese(), nil
	})

	r := f.run(t, gen, Options{Apply: true, MaxEdits: 1})

	if calls != 2 {
		t.Errorf("generator calls = %d, want 2", calls)
	}
	if r.Edits != 1 || r.Deletes != 0 {
		t.Fatalf("edits=%d deletes=%d", r.Edits, r.Deletes)
	}
	if e, _ := findEntry(r, f.articles[1].ContentURL); e.Action != ActionEdit || e.Outcome != OutcomeRewritten {
		t.Errorf("newest entry = %+v", e)
	}

	e, _ := findEntry(r, f.articles[0].ContentURL)
	if e.Action != ActionBlocked || len(e.Reasons) == 0 || e.Reasons[len(e.Reasons)-1] != ReasonRewriteDiscarded {
		t.Errorf("oldest entry = %+v", e)
	}
	doc, err := f.pub.ReadDocument(f.articles[0].ContentURL)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(doc.Text, "Banco Central") {
		t.Error("blocked document must keep its original body")
	}
	if len(f.index(t)) != 2 {
		t.Error("blocked article must stay in the index")
	}

	data, err := os.ReadFile(f.report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ReasonRewriteDiscarded) {
		t.Errorf("report does not mention the discarded rewrite:\n%s", data)
	}
}

func TestRun_StopsWhenBothLimitsReached(t *testing.T) {
	f := newFixture(t, longPortuguese(), shortPortuguese(), longPortuguese())
	f.articles[2].Title = "EconomiaGoverno anuncia pacote"
	if err := f.pub.SaveIndex(f.articles); err != nil {
		t.Fatal(err)
	}

	r := f.run(t, failingGen, Options{Apply: true, MaxEdits: 1, MaxDeletes: 1})

	if r.Edits != 1 || r.Deletes != 1 || r.Reviewed != 2 {
		t.Errorf("reviewed=%d edits=%d deletes=%d", r.Reviewed, r.Edits, r.Deletes)
	}
	if len(f.index(t)) != 2 {
		t.Error("only the quarantined article should leave the index")
	}
}

func TestRewrite_BudgetExhaustedNotRetried(t *testing.T) {
	calls := 0
	gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
		calls++
		return "", ratelimit.ErrBudgetExhausted
	})
	c := NewController(site.NewPublisher(site.Options{Root: t.TempDir()}, nil), gen, Options{
		Retry: retry.RetryConfig{MaxAttempts: 3, Delay: time.Hour},
	}, nil)

	_, err := c.rewrite(context.Background(), testTitle, shortPortuguese())
	if !errors.Is(err, ratelimit.ErrBudgetExhausted) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRewrite_EmptyAnswerRetried(t *testing.T) {
	calls := 0
	gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
		calls++
		if calls == 1 {
			return "```\n```", nil
		}
		return longPortuguese(), nil
	})
	c := NewController(site.NewPublisher(site.Options{Root: t.TempDir()}, nil), gen, Options{
		Retry: retry.RetryConfig{MaxAttempts: 2, Delay: time.Millisecond},
	}, nil)

	out, err := c.rewrite(context.Background(), testTitle, shortPortuguese())
	if err != nil || !strings.Contains(out, "Banco Central") {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d", calls)
	}
}
