// Package storage persists the publisher's rotation state and its
// processed-URL and processed-title caches between runs.
package storage

import (
	"context"
	"sort"
	"time"
)

// State is everything a publishing cycle needs to carry to the next one.
type State struct {
	TopicIndex      int       `json:"topic_index"`
	TotalPosts      int       `json:"total_posts"`
	ProcessedURLs   []string  `json:"processed_urls"`
	ProcessedTitles []string  `json:"processed_titles"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// Store loads and saves State. Saving never forgets entries already stored.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
	Stats(ctx context.Context) (map[string]int, error)
	Close() error
}

// Advance moves the rotation to the next topic out of n.
func (s *State) Advance(n int) {
	if n <= 0 {
		s.TopicIndex = 0
		return
	}
	s.TopicIndex = (s.TopicIndex + 1) % n
}

// Topic returns the rotation position clamped to n topics.
func (s State) Topic(n int) int {
	if n <= 0 || s.TopicIndex < 0 {
		return 0
	}
	return s.TopicIndex % n
}

func mergeSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, v := range a {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	for _, v := range b {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
