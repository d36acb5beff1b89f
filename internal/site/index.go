package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/storage"
)

// LoadIndex reads posts.json. A missing file is an empty index.
func (p *Publisher) LoadIndex() ([]news.Article, error) {
	data, err := os.ReadFile(p.IndexPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var articles []news.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	return articles, nil
}

// SaveIndex replaces posts.json atomically.
func (p *Publisher) SaveIndex(articles []news.Article) error {
	if articles == nil {
		articles = []news.Article{}
	}
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return storage.WriteFileAtomic(p.IndexPath(), data, 0o644)
}
