package storage

import (
	"context"
	"log/slog"
	"strings"
)

// Open picks a backend: a postgres:// DSN, a sqlite file path given as
// sqlite://path (or sqlite::memory:), otherwise the JSON file at statePath.
func Open(ctx context.Context, databaseURL, statePath string, logger *slog.Logger) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return OpenSQL(ctx, "postgres", databaseURL, logger)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return OpenSQL(ctx, "sqlite", strings.TrimPrefix(databaseURL, "sqlite://"), logger)
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return OpenSQL(ctx, "sqlite", strings.TrimPrefix(databaseURL, "sqlite:"), logger)
	default:
		return NewFileStore(statePath), nil
	}
}
