package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps State in a single JSON file, written atomically.
type FileStore struct {
	filePath string
	mu       sync.Mutex
}

func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

// Load returns the stored state. A missing or empty file is a fresh start.
func (fs *FileStore) Load(_ context.Context) (State, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loadLocked()
}

func (fs *FileStore) loadLocked() (State, error) {
	var st State

	data, err := os.ReadFile(fs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return st, nil
}

// Save merges st with what is on disk so caches only grow, then replaces the
// file via a temp file and rename.
func (fs *FileStore) Save(_ context.Context, st State) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, err := fs.loadLocked()
	if err != nil {
		return err
	}
	st.ProcessedURLs = mergeSorted(prev.ProcessedURLs, st.ProcessedURLs)
	st.ProcessedTitles = mergeSorted(prev.ProcessedTitles, st.ProcessedTitles)
	st.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return WriteFileAtomic(fs.filePath, data, 0o644)
}

func (fs *FileStore) Stats(ctx context.Context) (map[string]int, error) {
	st, err := fs.Load(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"processed_urls":   len(st.ProcessedURLs),
		"processed_titles": len(st.ProcessedTitles),
		"topic_index":      st.TopicIndex,
		"total_posts":      st.TotalPosts,
	}, nil
}

func (fs *FileStore) Close() error { return nil }

// WriteFileAtomic writes data next to path and renames it into place, so a
// reader never sees a half-written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
