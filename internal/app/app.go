// Package app wires the newsroom together: the publishing cycle that turns
// one scraped candidate into a published article, and the editorial run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deusflow/vivimundo/internal/acquire"
	"github.com/deusflow/vivimundo/internal/classify"
	"github.com/deusflow/vivimundo/internal/config"
	"github.com/deusflow/vivimundo/internal/dedup"
	"github.com/deusflow/vivimundo/internal/editor"
	"github.com/deusflow/vivimundo/internal/metrics"
	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/ratelimit"
	"github.com/deusflow/vivimundo/internal/retry"
	"github.com/deusflow/vivimundo/internal/rss"
	"github.com/deusflow/vivimundo/internal/scraper"
	"github.com/deusflow/vivimundo/internal/site"
	"github.com/deusflow/vivimundo/internal/storage"
	"github.com/deusflow/vivimundo/internal/telegram"
	"github.com/deusflow/vivimundo/internal/textgen"
)

const (
	composeTemperature  = 0.7
	rewriteTemperature  = 0.4
	classifyTemperature = 0.2
)

// App holds the collaborators of both binaries.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store      storage.Store
	topics     []news.Topic
	site       *site.Publisher
	fetcher    acquire.Fetcher
	feeds      acquire.FeedReader
	classifier *classify.Classifier
	composer   textgen.Generator
	rewriter   textgen.Generator
	notifier   *telegram.Notifier
	limiter    *ratelimit.Limiter

	closers []func()
	now     func() time.Time
}

// New builds the application from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	topics, err := config.LoadTopics(cfg.TopicsFile)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.DatabaseURL, cfg.StateFile, logger.With("component", "storage"))
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
		topics: topics,
		site: site.NewPublisher(site.Options{
			Root:       cfg.SiteRoot,
			SiteName:   cfg.SiteName,
			BaseURL:    cfg.SiteBaseURL,
			Author:     cfg.SiteAuthor,
			Categories: site.CategoriesFromTopics(topics),
		}, logger.With("component", "site")),
		limiter: newLimiter(cfg, logger.With("component", "ratelimit")),
		now:     time.Now,
	}

	client := scraper.NewClient(cfg.RequestTimeout, cfg.UserAgent)
	a.fetcher = client
	a.feeds = rss.NewReader(client.HTTPClient(), client.UserAgent(), logger.With("component", "rss"))

	if err := a.initGenerators(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.HasTelegram() {
		a.notifier = telegram.New(telegram.Config{
			Token:   cfg.TelegramToken,
			ChatID:  cfg.TelegramChatID,
			Timeout: cfg.RequestTimeout,
		}, logger.With("component", "telegram"))
	}
	return a, nil
}

func newLimiter(cfg *config.Config, logger *slog.Logger) *ratelimit.Limiter {
	l := ratelimit.NewLimiter(cfg.MaxGenerationRequests, logger)
	l.SetLimit(ratelimit.PurposeCompose, cfg.MaxComposeRequests)
	l.SetLimit(ratelimit.PurposeClassify, cfg.MaxClassifyRequests)
	l.SetLimit(ratelimit.PurposeRewrite, cfg.MaxRewriteRequests)
	return l
}

// initGenerators builds one fallback chain per temperature: Groq first,
// Gemini second, whichever keys are set.
func (a *App) initGenerators(ctx context.Context) error {
	var groq *textgen.OpenAI
	if a.cfg.GroqAPIKey != "" {
		groq = textgen.NewOpenAI(textgen.OpenAIConfig{
			APIKey:  a.cfg.GroqAPIKey,
			BaseURL: a.cfg.GroqBaseURL,
			Model:   a.cfg.GroqModel,
			Timeout: a.cfg.GenerationTimeout,
		})
	}
	var gemini *textgen.Gemini
	if a.cfg.GeminiAPIKey != "" {
		g, err := textgen.NewGemini(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}
		gemini = g
		a.closers = append(a.closers, g.Close)
	}

	chain := func(t float32) *textgen.Chain {
		var named []textgen.Named
		if groq != nil {
			named = append(named, textgen.Named{Name: "groq", Generator: groq.WithTemperature(t)})
		}
		if gemini != nil {
			named = append(named, textgen.Named{Name: "gemini", Generator: gemini.WithTemperature(t)})
		}
		return textgen.NewChain(a.logger.With("component", "textgen"), named...)
	}

	a.composer = textgen.Budgeted{Generator: chain(composeTemperature), Limiter: a.limiter, Purpose: ratelimit.PurposeCompose}
	a.rewriter = textgen.Budgeted{Generator: chain(rewriteTemperature), Limiter: a.limiter, Purpose: ratelimit.PurposeRewrite}

	strategies := []classify.Strategy{classify.KeywordStrategy{}}
	if classifier := chain(classifyTemperature); classifier.Len() > 0 {
		gen := textgen.Budgeted{Generator: classifier, Limiter: a.limiter, Purpose: ratelimit.PurposeClassify}
		strategies = append(strategies, classify.NewModelStrategy(gen, a.cfg.ClassifyCacheTTL, a.cfg.GenerationTimeout, a.logger.With("component", "classify")))
	}
	a.classifier = classify.New(a.topics, a.logger.With("component", "classify"), strategies...)
	return nil
}

// Close releases the store and generation clients.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close store", "error", err)
		}
	}
}

// Store exposes the state store for inspection.
func (a *App) Store() storage.Store { return a.store }

// GenerationBudget reports text-generation usage against the configured caps.
func (a *App) GenerationBudget() map[string]interface{} { return a.limiter.GetStats() }

// RunCycle publishes at most one article for the current topic. The
// rotation advances and the caches are saved whether or not the cycle
// published anything.
func (a *App) RunCycle(ctx context.Context) (*news.Article, error) {
	start := time.Now()
	defer func() { metrics.Global.RecordProcessingTime(time.Since(start)) }()

	if len(a.topics) == 0 {
		return nil, errors.New("no topics configured")
	}

	state, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	topic := a.topics[state.Topic(len(a.topics))]
	log := a.logger.With("topic", topic.Name, "topic_index", state.Topic(len(a.topics)))
	log.Info("starting cycle", "total_posts", state.TotalPosts)

	detector := dedup.New(dedup.Options{Threshold: a.cfg.DupThreshold, MinTokens: a.cfg.DupMinTokens},
		state.ProcessedURLs, state.ProcessedTitles)
	engine := acquire.New(a.fetcher, a.feeds, detector, acquire.Options{
		MaxLinks:     a.cfg.MaxLinks,
		MinBodyRunes: a.cfg.MinBodyRunes,
		PauseMin:     a.cfg.PauseMin,
		PauseMax:     a.cfg.PauseMax,
	}, a.logger.With("component", "acquire"))

	article, cycleErr := a.publish(ctx, engine, topic, state.TotalPosts+1)
	if cycleErr != nil {
		log.Warn("cycle produced no article", "error", cycleErr)
		metrics.Global.SetError(cycleErr.Error())
	} else {
		state.TotalPosts++
		metrics.Global.SetLastRun()
	}

	state.Advance(len(a.topics))
	state.ProcessedURLs, state.ProcessedTitles = detector.Snapshot()
	// The cycle's own context may already be cancelled; state must still land.
	if err := a.store.Save(context.WithoutCancel(ctx), state); err != nil {
		return article, errors.Join(cycleErr, fmt.Errorf("save state: %w", err))
	}
	return article, cycleErr
}

func (a *App) publish(ctx context.Context, engine *acquire.Engine, topic news.Topic, n int) (*news.Article, error) {
	cand, err := engine.Acquire(ctx, topic)
	if err != nil {
		return nil, err
	}

	sub := a.classifier.Classify(ctx, cand.Title, topic.Category)

	body, err := a.composer.Generate(ctx, textgen.ComposePrompt(cand.Title, cand.Body))
	if err != nil {
		return nil, fmt.Errorf("compose %q: %w", cand.Title, err)
	}
	body = textgen.Sanitize(body)
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("compose %q: %w", cand.Title, textgen.ErrEmptyResponse)
	}

	article := news.Article{
		Title:       cand.Title,
		ImageURL:    cand.ImageURL,
		Category:    topic.Category,
		Subcategory: sub,
		PublishedAt: a.now(),
	}
	url, err := a.site.WritePost(article, body, n)
	if err != nil {
		return nil, err
	}
	article.ContentURL = url

	articles, err := a.site.LoadIndex()
	if err != nil {
		return nil, err
	}
	articles = append(articles, article)
	if err := a.site.SaveIndex(articles); err != nil {
		return nil, err
	}
	if err := a.site.Regenerate(articles); err != nil {
		return nil, fmt.Errorf("regenerate pages: %w", err)
	}
	metrics.Global.IncrementArticlesPublished()
	a.logger.Info("article published", "title", article.Title, "url", url, "subcategory", sub)

	if a.notifier.Enabled() {
		if err := a.notifier.Announce(ctx, article, a.site.AbsURL(url)); err != nil {
			a.logger.Warn("announcement failed", "error", err)
		}
	}
	return &article, nil
}

// RunEditor runs the editorial pass in the configured mode.
func (a *App) RunEditor(ctx context.Context) (*editor.Report, error) {
	ctrl := editor.NewController(a.site, a.rewriter, editor.Options{
		Apply:      a.cfg.EditorApply,
		MaxEdits:   a.cfg.EditorMaxEdits,
		MaxDeletes: a.cfg.EditorMaxDeletes,
		ReportPath: a.cfg.EditorReportPath,
		Retry: retry.RetryConfig{
			MaxAttempts: a.cfg.RetryAttempts,
			Delay:       a.cfg.RetryDelay,
			Backoff:     true,
		},
	}, a.logger.With("component", "editor"))
	return ctrl.Run(ctx)
}
