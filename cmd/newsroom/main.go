package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/deusflow/vivimundo/internal/acquire"
	"github.com/deusflow/vivimundo/internal/app"
	"github.com/deusflow/vivimundo/internal/config"
	"github.com/deusflow/vivimundo/internal/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidatePublisher()
	}
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger.Component("app"))
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.EnableHTTPMonitoring {
		srv := newMonitoringServer(":"+cfg.HTTPPort, a.GenerationBudget)
		go func() {
			logger.Info("starting monitoring server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("monitoring server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.RunInterval <= 0 {
		if err := runOnce(ctx, a); err != nil {
			a.Close()
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(cfg.RunInterval)
	defer ticker.Stop()
	for {
		_ = runOnce(ctx, a)
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
		}
	}
}

// runOnce reports an exhausted topic as a normal outcome.
func runOnce(ctx context.Context, a *app.App) error {
	article, err := a.RunCycle(ctx)
	switch {
	case errors.Is(err, acquire.ErrExhausted):
		logger.Warn("no new article this cycle", "error", err)
		return nil
	case err != nil:
		logger.Error("cycle failed", "error", err)
		return err
	}
	logger.Info("cycle done", "title", article.Title, "url", article.ContentURL)
	return nil
}
