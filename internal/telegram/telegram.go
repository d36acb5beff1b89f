// Package telegram announces newly published articles in a Telegram chat.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/retry"
)

const DefaultBaseURL = "https://api.telegram.org"

// ErrNotConfigured is returned by Send when token or chat id is missing.
var ErrNotConfigured = errors.New("telegram not configured")

type Config struct {
	Token   string
	ChatID  string
	BaseURL string
	Timeout time.Duration
	Retry   retry.RetryConfig
}

// Notifier sends HTML messages through the Bot API.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	}
	return &Notifier{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, logger: logger}
}

// Enabled reports whether both token and chat id are set.
func (n *Notifier) Enabled() bool {
	return n != nil && n.cfg.Token != "" && n.cfg.ChatID != ""
}

// Announce posts the title, category and link of a new article.
func (n *Notifier) Announce(ctx context.Context, a news.Article, link string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(a.Title))
	if a.Category != "" {
		fmt.Fprintf(&b, "#%s", strings.ReplaceAll(a.Category, "-", "_"))
		if a.Subcategory != "" {
			fmt.Fprintf(&b, " · %s", html.EscapeString(a.Subcategory))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n<a href=\"%s\">Leia a matéria</a>", html.EscapeString(link))
	return n.Send(ctx, b.String())
}

// Send delivers text with retries and linear backoff.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if !n.Enabled() {
		return ErrNotConfigured
	}

	cfg := n.cfg.Retry
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		n.logger.Warn("telegram send failed", "attempt", attempt, "max", cfg.MaxAttempts, "wait", wait, "error", err)
	}
	err := retry.WithRetry(ctx, cfg, func() error {
		return n.sendOnce(ctx, text)
	})
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	n.logger.Info("message sent to telegram")
	return nil
}

func (n *Notifier) sendOnce(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.BaseURL, n.cfg.Token)

	body, err := json.Marshal(map[string]interface{}{
		"chat_id":                  n.cfg.ChatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": false,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			n.logger.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
