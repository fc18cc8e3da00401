// Package bootstrap provides dependency initialization for the converter.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/stillframe/mviconv/internal/config"
	"github.com/stillframe/mviconv/internal/convert"
	"github.com/stillframe/mviconv/internal/deps"
	"github.com/stillframe/mviconv/internal/media"
	"github.com/stillframe/mviconv/internal/storage"
)

// Dependencies holds all initialized dependencies for a run.
type Dependencies struct {
	Checker   *deps.Checker
	Scratch   *storage.Scratch
	Converter *convert.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	feed := deps.NewOpkgFeed(deps.WithOpkgPath(cfg.OpkgPath))
	checker := deps.NewChecker(feed, cfg.FFmpegPath, logger)

	scratch, err := storage.NewScratch(cfg.ScratchDir)
	if err != nil {
		return nil, fmt.Errorf("create scratch area: %w", err)
	}

	processor := media.NewFFmpegProcessor(cfg.FFmpegPath, cfg.FFprobePath)

	opts := []convert.Option{
		convert.WithClipSeconds(cfg.ClipSeconds),
		convert.WithWorkers(cfg.WorkerCount),
	}

	if cfg.S3Enabled() {
		uploader, err := storage.NewS3Uploader(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 uploader: %w", err)
		}
		opts = append(opts, convert.WithUploader(uploader))
		logger.Info("S3 delivery configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
	}

	converter := convert.NewService(processor, scratch, logger, opts...)

	return &Dependencies{
		Checker:   checker,
		Scratch:   scratch,
		Converter: converter,
	}, nil
}
