package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore keeps State in SQLite or PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver string
	psql   sq.StatementBuilderType
	logger *slog.Logger
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS processed_urls (
		url TEXT PRIMARY KEY,
		recorded_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS processed_titles (
		title TEXT PRIMARY KEY,
		recorded_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rotation_state (
		id INTEGER PRIMARY KEY,
		topic_index INTEGER NOT NULL,
		total_posts INTEGER NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
}

// OpenSQL connects with driver "sqlite" or "postgres" and creates the schema.
func OpenSQL(ctx context.Context, driver, dsn string, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	placeholder, err := placeholderFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == "sqlite" {
		// Each :memory: connection is its own database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLStore{
		db:     db,
		driver: driver,
		psql:   sq.StatementBuilder.PlaceholderFormat(placeholder),
		logger: logger,
	}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("state database connected", "driver", driver)
	return s, nil
}

func placeholderFor(driver string) (sq.PlaceholderFormat, error) {
	switch driver {
	case "sqlite":
		return sq.Question, nil
	case "postgres":
		return sq.Dollar, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) (State, error) {
	var st State

	urls, err := s.column(ctx, "processed_urls", "url")
	if err != nil {
		return st, err
	}
	titles, err := s.column(ctx, "processed_titles", "title")
	if err != nil {
		return st, err
	}
	st.ProcessedURLs = urls
	st.ProcessedTitles = titles

	query, args, err := s.psql.Select("topic_index", "total_posts", "updated_at").
		From("rotation_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return st, err
	}

	var updated int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&st.TopicIndex, &st.TotalPosts, &updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return st, nil
	case err != nil:
		return st, fmt.Errorf("failed to read rotation state: %w", err)
	}
	st.UpdatedAt = time.Unix(updated, 0).UTC()
	return st, nil
}

func (s *SQLStore) column(ctx context.Context, table, col string) ([]string, error) {
	query, args, err := s.psql.Select(col).From(table).OrderBy(col).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Save inserts new cache entries and upserts the rotation row in one
// transaction. Existing entries are never removed.
func (s *SQLStore) Save(ctx context.Context, st State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	if err := s.insertAll(ctx, tx, "processed_urls", "url", st.ProcessedURLs, now); err != nil {
		return err
	}
	if err := s.insertAll(ctx, tx, "processed_titles", "title", st.ProcessedTitles, now); err != nil {
		return err
	}

	query, args, err := s.psql.Insert("rotation_state").
		Columns("id", "topic_index", "total_posts", "updated_at").
		Values(1, st.TopicIndex, st.TotalPosts, now).
		Suffix("ON CONFLICT (id) DO UPDATE SET topic_index = excluded.topic_index, total_posts = excluded.total_posts, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save rotation state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

func (s *SQLStore) insertAll(ctx context.Context, tx *sql.Tx, table, col string, values []string, now int64) error {
	for _, v := range values {
		if v == "" {
			continue
		}
		query, args, err := s.psql.Insert(table).
			Columns(col, "recorded_at").
			Values(v, now).
			Suffix("ON CONFLICT (" + col + ") DO NOTHING").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLStore) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)

	for _, table := range []string{"processed_urls", "processed_titles"} {
		query, args, err := s.psql.Select("COUNT(*)").From(table).ToSql()
		if err != nil {
			return nil, err
		}
		var n int
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = n
	}

	st, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	stats["topic_index"] = st.TopicIndex
	stats["total_posts"] = st.TotalPosts
	return stats, nil
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
