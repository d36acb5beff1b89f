// Package config loads runtime settings from the environment and the
// optional topics file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/vivimundo/internal/news"
)

type Config struct {
	// Text generation
	GroqAPIKey            string
	GroqModel             string
	GroqBaseURL           string
	GeminiAPIKey          string
	GeminiModel           string
	GenerationTimeout     time.Duration
	MaxGenerationRequests int // per run, 0 = unlimited
	MaxComposeRequests    int
	MaxClassifyRequests   int
	MaxRewriteRequests    int
	ClassifyCacheTTL      time.Duration

	// Site
	SiteRoot    string
	SiteName    string
	SiteBaseURL string
	SiteAuthor  string
	TopicsFile  string

	// State
	StateFile   string
	DatabaseURL string

	// Acquisition
	RequestTimeout time.Duration
	UserAgent      string
	MaxLinks       int
	MinBodyRunes   int
	PauseMin       time.Duration
	PauseMax       time.Duration
	DupThreshold   float64
	DupMinTokens   int

	// Editor
	EditorApply      bool
	EditorMaxEdits   int
	EditorMaxDeletes int
	EditorReportPath string
	RetryAttempts    int
	RetryDelay       time.Duration

	// Process
	RunInterval time.Duration // 0 = single cycle

	// Monitoring
	Debug                bool
	EnableHTTPMonitoring bool
	HTTPPort             string

	// Telegram announcements (optional)
	TelegramToken  string
	TelegramChatID string
}

func Load() (*Config, error) {
	cfg := &Config{
		GroqAPIKey:            os.Getenv("GROQ_API_KEY"),
		GroqModel:             getEnvOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL:           getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GenerationTimeout:     getEnvDurationOrDefault("GENERATION_TIMEOUT", 60*time.Second),
		MaxGenerationRequests: getEnvIntOrDefault("MAX_GENERATION_REQUESTS", 0),
		MaxComposeRequests:    getEnvIntOrDefault("MAX_COMPOSE_REQUESTS", 0),
		MaxClassifyRequests:   getEnvIntOrDefault("MAX_CLASSIFY_REQUESTS", 0),
		MaxRewriteRequests:    getEnvIntOrDefault("MAX_REWRITE_REQUESTS", 0),
		ClassifyCacheTTL:      getEnvDurationOrDefault("CLASSIFY_CACHE_TTL", 24*time.Hour),

		SiteRoot:    getEnvOrDefault("SITE_ROOT", "."),
		SiteName:    getEnvOrDefault("SITE_NAME", "Vivimundo"),
		SiteBaseURL: os.Getenv("SITE_BASE_URL"),
		SiteAuthor:  os.Getenv("SITE_AUTHOR"),
		TopicsFile:  getEnvOrDefault("TOPICS_FILE", "configs/topics.yaml"),

		StateFile:   getEnvOrDefault("STATE_FILE", "bot_state.json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
		UserAgent:      os.Getenv("USER_AGENT"),
		MaxLinks:       getEnvIntOrDefault("MAX_LINKS", 80),
		MinBodyRunes:   getEnvIntOrDefault("MIN_BODY_RUNES", 500),
		PauseMin:       getEnvDurationOrDefault("PAUSE_MIN", time.Second),
		PauseMax:       getEnvDurationOrDefault("PAUSE_MAX", 3*time.Second),
		DupThreshold:   getEnvFloatOrDefault("DEDUP_SIMILARITY", 0.65),
		DupMinTokens:   getEnvIntOrDefault("DEDUP_MIN_TOKENS", 3),

		EditorApply:      getEnvBool("EDITOR_APPLY_FIXES"),
		EditorMaxEdits:   getEnvIntOrDefault("EDITOR_MAX_EDITS_PER_RUN", 25),
		EditorMaxDeletes: getEnvIntOrDefault("EDITOR_MAX_DELETES_PER_RUN", 10),
		EditorReportPath: getEnvOrDefault("EDITOR_REPORT_PATH", "EDITOR_REPORT.md"),
		RetryAttempts:    getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:       getEnvDurationOrDefault("RETRY_DELAY", 2*time.Second),

		RunInterval: getEnvDurationOrDefault("RUN_INTERVAL", 0),

		Debug:                getEnvBool("DEBUG"),
		EnableHTTPMonitoring: getEnvBool("ENABLE_HTTP_MONITORING"),
		HTTPPort:             getEnvOrDefault("HTTP_PORT", "8080"),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
	}
	return cfg, cfg.validateCommon()
}

func (c *Config) validateCommon() error {
	if c.PauseMin < 0 || c.PauseMax < c.PauseMin {
		return fmt.Errorf("invalid pause range %s..%s", c.PauseMin, c.PauseMax)
	}
	if c.DupThreshold <= 0 || c.DupThreshold > 1 {
		return fmt.Errorf("DEDUP_SIMILARITY must be in (0, 1], got %v", c.DupThreshold)
	}
	if c.RunInterval < 0 {
		return errors.New("RUN_INTERVAL must not be negative")
	}
	if c.MaxGenerationRequests < 0 || c.MaxComposeRequests < 0 || c.MaxClassifyRequests < 0 || c.MaxRewriteRequests < 0 {
		return errors.New("generation request limits must not be negative")
	}
	return nil
}

// ValidatePublisher checks what the publishing cycle needs.
func (c *Config) ValidatePublisher() error {
	if c.GroqAPIKey == "" && c.GeminiAPIKey == "" {
		return errors.New("GROQ_API_KEY or GEMINI_API_KEY is required")
	}
	if c.SiteRoot == "" {
		return errors.New("SITE_ROOT is required")
	}
	return nil
}

// ValidateEditor checks the editor limits. Without a generation key the
// editor still runs and falls back to rule repair.
func (c *Config) ValidateEditor() error {
	if c.EditorMaxEdits < 0 || c.EditorMaxDeletes < 0 {
		return errors.New("editor limits must not be negative")
	}
	if c.RetryAttempts < 1 {
		return errors.New("RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

// HasTelegram reports whether announcements are configured.
func (c *Config) HasTelegram() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

type topicsFile struct {
	Topics []news.Topic `yaml:"topics"`
}

// LoadTopics reads the topic table from path. A missing file yields the
// built-in table.
func LoadTopics(path string) ([]news.Topic, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return news.DefaultTopics(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read topics file: %w", err)
	}

	var f topicsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse topics file %s: %w", path, err)
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("topics file %s has no topics", path)
	}
	for i, t := range f.Topics {
		if strings.TrimSpace(t.Category) == "" {
			return nil, fmt.Errorf("topic %d (%q) has no category", i, t.Name)
		}
		if len(t.Sites) == 0 {
			return nil, fmt.Errorf("topic %q has no sites", t.Name)
		}
	}
	return f.Topics, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s") or plain seconds.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

// getEnvBool treats "1", "true" and "yes" as true.
func getEnvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
