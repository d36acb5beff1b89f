package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deusflow/vivimundo/internal/app"
	"github.com/deusflow/vivimundo/internal/config"
	"github.com/deusflow/vivimundo/internal/logger"
)

func main() {
	apply := flag.Bool("apply", false, "write fixes (same as EDITOR_APPLY_FIXES=1)")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateEditor()
	}
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *apply {
		cfg.EditorApply = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger.Component("app"))
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	report, err := a.RunEditor(ctx)
	if err != nil {
		logger.Error("editor run finished with errors", "error", err)
	}
	if report != nil {
		logger.Info("editor report written", "path", cfg.EditorReportPath, "mode", report.Mode(),
			"reviewed", report.Reviewed, "edits", report.Edits, "deletes", report.Deletes)
	}
	if err != nil {
		a.Close()
		os.Exit(1)
	}
}
