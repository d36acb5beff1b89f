package ratelimit

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrBudgetExhausted is returned once a run has spent its generation budget.
var ErrBudgetExhausted = errors.New("text generation budget exhausted")

// Purpose tags what a text-generation request is for.
type Purpose string

const (
	PurposeCompose  Purpose = "compose"
	PurposeClassify Purpose = "classify"
	PurposeRewrite  Purpose = "rewrite"
)

// Limiter caps text-generation requests per run, in total and per purpose.
// A limit of 0 means unlimited.
type Limiter struct {
	mu       sync.Mutex
	maxTotal int
	limits   map[Purpose]int
	used     map[Purpose]int
	total    int
	denied   int
	logger   *slog.Logger
}

// NewLimiter creates a limiter with a total cap. Per-purpose caps are set
// with SetLimit.
func NewLimiter(maxTotal int, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		maxTotal: maxTotal,
		limits:   make(map[Purpose]int),
		used:     make(map[Purpose]int),
		logger:   logger,
	}
}

// SetLimit caps requests for one purpose.
func (l *Limiter) SetLimit(p Purpose, max int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limits[p] = max
}

// Use spends one request for p, or returns ErrBudgetExhausted.
func (l *Limiter) Use(p Purpose) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.allowLocked(p) {
		l.denied++
		l.logger.Warn("generation budget reached", "purpose", p, "used", l.used[p], "total", l.total, "max_total", l.maxTotal)
		return ErrBudgetExhausted
	}
	l.used[p]++
	l.total++
	l.logger.Debug("generation budget", "purpose", p, "used", l.used[p], "total", l.total, "max_total", l.maxTotal)
	return nil
}

func (l *Limiter) allowLocked(p Purpose) bool {
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return false
	}
	if max := l.limits[p]; max > 0 && l.used[p] >= max {
		return false
	}
	return true
}

// GetStats returns usage counters for logs and the metrics endpoint.
func (l *Limiter) GetStats() map[string]interface{} {
	if l == nil {
		return map[string]interface{}{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := map[string]interface{}{
		"total_used":  l.total,
		"total_limit": l.maxTotal,
		"denied":      l.denied,
	}
	for _, p := range []Purpose{PurposeCompose, PurposeClassify, PurposeRewrite} {
		stats[string(p)+"_used"] = l.used[p]
		stats[string(p)+"_limit"] = l.limits[p]
	}
	return stats
}
