// Command statecheck prints the publisher's persisted state: cache sizes
// and the rotation position.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/deusflow/vivimundo/internal/config"
	"github.com/deusflow/vivimundo/internal/logger"
	"github.com/deusflow/vivimundo/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	topics, err := config.LoadTopics(cfg.TopicsFile)
	if err != nil {
		logger.Error("failed to load topics", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	fmt.Printf("State backend: %s\n\n", describeBackend(cfg))

	store, err := storage.Open(ctx, cfg.DatabaseURL, cfg.StateFile, logger.Component("storage"))
	if err != nil {
		logger.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		logger.Error("failed to read stats", "error", err)
		os.Exit(1)
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("Statistics:")
	for _, k := range keys {
		fmt.Printf("  %-18s %d\n", k, stats[k])
	}

	st, err := store.Load(ctx)
	if err != nil {
		logger.Error("failed to load state", "error", err)
		os.Exit(1)
	}
	if len(topics) > 0 {
		next := topics[st.Topic(len(topics))]
		fmt.Printf("\nNext topic: %s (%s), position %d of %d\n", next.Name, next.Category, st.Topic(len(topics))+1, len(topics))
	}
	if !st.UpdatedAt.IsZero() {
		fmt.Printf("Last update: %s\n", st.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

// describeBackend names the store without printing credentials.
func describeBackend(cfg *config.Config) string {
	if cfg.DatabaseURL == "" {
		return "file " + cfg.StateFile
	}
	return maskPassword(cfg.DatabaseURL)
}

func maskPassword(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return dsn
	}
	creds := rest[:at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		creds = user + ":****"
	}
	return scheme + "://" + creds + rest[at:]
}
