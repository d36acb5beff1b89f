// Package textgen talks to hosted text-generation services (Groq through
// its OpenAI-compatible API, and Gemini) behind one small interface.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deusflow/vivimundo/internal/metrics"
	"github.com/deusflow/vivimundo/internal/ratelimit"
)

// ErrEmptyResponse is returned when a service answers with no text.
var ErrEmptyResponse = errors.New("empty response from text generation service")

// ErrNoGenerator is returned by an empty Chain.
var ErrNoGenerator = errors.New("no text generation service configured")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Named attaches a provider name to a generator for logs.
type Named struct {
	Name string
	Generator
}

// Chain tries each generator in order and returns the first non-empty answer.
type Chain struct {
	generators []Named
	logger     *slog.Logger
}

// NewChain builds a fallback chain; nil generators are skipped.
func NewChain(logger *slog.Logger, generators ...Named) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chain{logger: logger}
	for _, g := range generators {
		if g.Generator != nil {
			c.generators = append(c.generators, g)
		}
	}
	return c
}

// Len returns the number of configured providers.
func (c *Chain) Len() int {
	return len(c.generators)
}

func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.generators) == 0 {
		return "", ErrNoGenerator
	}

	var errs []error
	for _, g := range c.generators {
		metrics.Global.IncrementGenerationCalls()
		out, err := g.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(out) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			return out, nil
		}
		metrics.Global.IncrementGenerationFailures()
		c.logger.Warn("text generation failed", "provider", g.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", g.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

// Budgeted spends one unit of the limiter before delegating.
type Budgeted struct {
	Generator Generator
	Limiter   *ratelimit.Limiter
	Purpose   ratelimit.Purpose
}

func (b Budgeted) Generate(ctx context.Context, prompt string) (string, error) {
	if err := b.Limiter.Use(b.Purpose); err != nil {
		return "", err
	}
	return b.Generator.Generate(ctx, prompt)
}
