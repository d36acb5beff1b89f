// Package classify assigns a subcategory label to a candidate within its
// topic category.
package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/deusflow/vivimundo/internal/cache"
	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/textgen"
	"github.com/deusflow/vivimundo/internal/textnorm"
)

// Strategy returns a label from the topic's table, or "" when it has no
// opinion.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, title string, topic news.Topic) string
}

// Classifier runs its strategies in order; the first non-empty label wins.
type Classifier struct {
	tables     map[string]news.Topic
	strategies []Strategy
	logger     *slog.Logger
}

func New(topics []news.Topic, logger *slog.Logger, strategies ...Strategy) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	tables := make(map[string]news.Topic, len(topics))
	for _, t := range topics {
		tables[strings.ToLower(t.Category)] = t
	}
	return &Classifier{tables: tables, strategies: strategies, logger: logger}
}

// Classify returns the subcategory for title, or "" if none applies.
func (c *Classifier) Classify(ctx context.Context, title, category string) string {
	topic, ok := c.tables[strings.ToLower(category)]
	if !ok || len(topic.Subcategories) == 0 {
		return ""
	}
	for _, s := range c.strategies {
		if label := s.Classify(ctx, title, topic); label != "" {
			c.logger.Debug("classified", "strategy", s.Name(), "category", category, "label", label)
			return label
		}
	}
	return ""
}

// KeywordStrategy walks the ordered subcategory table and returns the first
// row with a keyword hit in the title. Matching is case-insensitive; phrases
// and keywords longer than three runes match as substrings, shorter ones
// only as whole words, so "ia" does not fire inside "notícia".
type KeywordStrategy struct{}

func (KeywordStrategy) Name() string { return "keyword" }

func (KeywordStrategy) Classify(_ context.Context, title string, topic news.Topic) string {
	for _, sub := range topic.Subcategories {
		if news.ContainsAny(title, sub.Keywords) {
			return sub.Label
		}
	}
	return ""
}

// ModelStrategy asks a text generator to pick one label.
type ModelStrategy struct {
	gen     textgen.Generator
	answers *cache.Cache[string]
	timeout time.Duration
	logger  *slog.Logger
}

func NewModelStrategy(gen textgen.Generator, ttl, timeout time.Duration, logger *slog.Logger) *ModelStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ModelStrategy{gen: gen, answers: cache.New[string](ttl), timeout: timeout, logger: logger}
}

func (*ModelStrategy) Name() string { return "model" }

func (m *ModelStrategy) Classify(ctx context.Context, title string, topic news.Topic) string {
	if m == nil || m.gen == nil {
		return ""
	}
	category := topic.Category
	key := cache.Key(strings.ToLower(category), textnorm.NormalizeTitle(title))
	if label, ok := m.answers.Get(key); ok {
		return label
	}

	labels := topic.Labels()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	answer, err := m.gen.Generate(ctx, textgen.ClassifyPrompt(title, category, labels))
	if err != nil {
		m.logger.Warn("model classification failed", "category", category, "error", err)
		return ""
	}

	label := MatchLabel(answer, labels)
	m.answers.Cleanup()
	m.answers.Set(key, label)
	return label
}

// MatchLabel maps a free-form answer onto one of labels. An exact match
// wins; otherwise the first label that contains the answer, or is contained
// in it, case-insensitively.
func MatchLabel(answer string, labels []string) string {
	a := strings.ToLower(strings.TrimSpace(answer))
	a = strings.Trim(a, "\"'`.:;!*() \n\t")
	if a == "" {
		return ""
	}
	for _, l := range labels {
		if strings.ToLower(l) == a {
			return l
		}
	}
	for _, l := range labels {
		ll := strings.ToLower(l)
		if strings.Contains(ll, a) || strings.Contains(a, ll) {
			return l
		}
	}
	return ""
}
