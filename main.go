// Package main provides the entry point for the mviconv batch converter.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stillframe/mviconv/internal/bootstrap"
	"github.com/stillframe/mviconv/internal/config"
	"github.com/stillframe/mviconv/internal/discover"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting image conversion",
		slog.String("source_dir", cfg.SourceDir),
		slog.String("scratch_dir", cfg.ScratchDir),
		slog.Int("clip_seconds", cfg.ClipSeconds),
		slog.Int("workers", cfg.WorkerCount),
		slog.String("log_format", cfg.LogFormat),
		slog.String("log_level", cfg.LogLevel),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies using bootstrap
	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	// The scratch area is removed however the run ends; cleanup failure
	// is reported but never fatal.
	defer func() {
		if err := deps.Scratch.Remove(); err != nil {
			logger.Warn("scratch cleanup failed",
				slog.String("error", err.Error()),
			)
		}
	}()

	// Precondition gate: the transcoder must be invocable before any
	// conversion is attempted.
	if err := deps.Checker.Check(ctx); err != nil {
		return err
	}

	images, err := discover.Scan(cfg.SourceDir)
	if err != nil {
		return err
	}
	logger.Info("discovered input images", slog.Int("count", len(images)))

	summary := deps.Converter.Run(ctx, images)
	summary.Log(logger)

	if cfg.StrictExit && summary.Failed > 0 {
		return fmt.Errorf("%d conversion jobs failed", summary.Failed)
	}
	return nil
}
