package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stillframe/mviconv/internal/discover"
	"github.com/stillframe/mviconv/internal/media"
	"github.com/stillframe/mviconv/internal/report"
	"github.com/stillframe/mviconv/internal/storage"
)

// Service orchestrates the conversion of discovered images into looping
// clips. Failure of one job never aborts the run: it is counted and the
// loop moves on.
type Service struct {
	processor   media.Processor
	scratch     *storage.Scratch
	uploader    storage.Uploader // nil when S3 delivery is disabled
	logger      *slog.Logger
	resolutions []Resolution
	clipSeconds int
	workers     int
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithResolutions overrides the target resolution set.
func WithResolutions(resolutions []Resolution) Option {
	return func(s *Service) {
		if len(resolutions) > 0 {
			s.resolutions = resolutions
		}
	}
}

// WithClipSeconds sets the loop clip duration in seconds.
func WithClipSeconds(seconds int) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.clipSeconds = seconds
		}
	}
}

// WithWorkers sets the number of jobs processed in parallel. The default
// of 1 keeps the historical strictly sequential behavior.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithUploader enables S3 delivery of finished clips.
func WithUploader(u storage.Uploader) Option {
	return func(s *Service) {
		s.uploader = u
	}
}

// NewService creates a conversion Service.
func NewService(processor media.Processor, scratch *storage.Scratch, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		processor:   processor,
		scratch:     scratch,
		logger:      logger,
		resolutions: DefaultResolutions(),
		clipSeconds: 1,
		workers:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolutions returns the active target resolution set.
func (s *Service) Resolutions() []Resolution {
	return s.resolutions
}

// Run converts every image at every target resolution and returns the
// folded summary. Jobs abandoned because the context was cancelled are
// not counted as attempted.
func (s *Service) Run(ctx context.Context, images []discover.ImageFile) *report.Summary {
	jobs := s.buildJobs(images)
	summary := report.NewSummary(len(images))

	s.logger.Info("starting conversion",
		slog.Int("images", len(images)),
		slog.Int("resolutions", len(s.resolutions)),
		slog.Int("jobs", len(jobs)),
		slog.Int("workers", s.workers),
	)

	start := time.Now()
	s.runJobs(ctx, jobs, summary)
	summary.Elapsed = time.Since(start)

	return summary
}

// buildJobs expands the image list into the full image-by-resolution
// matrix, preserving discovery order.
func (s *Service) buildJobs(images []discover.ImageFile) []Job {
	jobs := make([]Job, 0, len(images)*len(s.resolutions))
	for _, img := range images {
		for _, res := range s.resolutions {
			jobs = append(jobs, Job{Image: img, Target: res})
		}
	}
	return jobs
}

// runJobs executes the job list, folding each result into the summary
// from a single goroutine so the counters are never shared mutable state.
func (s *Service) runJobs(ctx context.Context, jobs []Job, summary *report.Summary) {
	if s.workers <= 1 {
		for _, job := range jobs {
			if ctx.Err() != nil {
				s.logger.Warn("interrupted, abandoning remaining jobs")
				return
			}
			summary.Add(s.convert(ctx, job).Succeeded())
		}
		return
	}

	sem := make(chan struct{}, s.workers)
	results := make(chan Result)
	var wg sync.WaitGroup

	go func() {
		defer func() {
			wg.Wait()
			close(results)
		}()
		for _, job := range jobs {
			if ctx.Err() != nil {
				s.logger.Warn("interrupted, abandoning remaining jobs")
				return
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(j Job) {
				defer wg.Done()
				defer func() { <-sem }()
				results <- s.convert(ctx, j)
			}(job)
		}
	}()

	for r := range results {
		summary.Add(r.Succeeded())
	}
}

// convert runs one job through resize, encode, and finalize. Any stage
// failure abandons the job; there are no retries. Scratch artifacts are
// removed on the way out either way.
func (s *Service) convert(ctx context.Context, job Job) Result {
	// A per-job token keeps scratch names unique even when distinct
	// directories contain files with the same stem.
	token := uuid.NewString()
	resized := s.scratch.Path(fmt.Sprintf("%s_%s_%s%s", job.Image.Stem, job.Target, token, job.Image.Ext))
	encoded := s.scratch.Path(fmt.Sprintf("%s_%s_%s%s", job.Image.Stem, job.Target, token, OutputExtension))
	defer func() {
		_ = os.Remove(resized)
		_ = os.Remove(encoded)
	}()

	if err := s.processor.Resize(ctx, job.Image.Path, resized, job.Target.Width, job.Target.Height); err != nil {
		s.logJobFailure(job, StageResize, err)
		return Result{Job: job, Stage: StageResize, Err: err}
	}

	if err := s.processor.EncodeLoop(ctx, resized, encoded, s.clipSeconds); err != nil {
		s.logJobFailure(job, StageEncode, err)
		return Result{Job: job, Stage: StageEncode, Err: err}
	}

	if err := moveFile(encoded, job.OutputPath()); err != nil {
		s.logJobFailure(job, StageFinalize, err)
		return Result{Job: job, Stage: StageFinalize, Err: err}
	}

	s.logger.Info("converted",
		slog.String("input", job.Image.Base),
		slog.String("output", job.OutputName()),
	)

	// Delivery is best-effort: the clip already exists locally, so an
	// upload failure does not fail the job.
	if s.uploader != nil {
		s.upload(ctx, job)
	}

	return Result{Job: job, Stage: StageDone}
}

// upload sends the finalized clip to the configured uploader.
func (s *Service) upload(ctx context.Context, job Job) {
	f, err := os.Open(job.OutputPath()) // #nosec G304 - path is derived from discovered inputs
	if err != nil {
		s.logJobFailure(job, StageUpload, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := s.uploader.Upload(ctx, job.OutputName(), f)
	if err != nil {
		s.logJobFailure(job, StageUpload, err)
		return
	}

	s.logger.Info("clip uploaded",
		slog.String("output", job.OutputName()),
		slog.String("url", url),
	)
}

func (s *Service) logJobFailure(job Job, stage Stage, err error) {
	s.logger.Error("job failed",
		slog.String("input", job.Image.Base),
		slog.String("target", job.Target.String()),
		slog.String("stage", string(stage)),
		slog.String("error", err.Error()),
	)
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// scratch area and the output directory are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src) // #nosec G304 - src is a scratch path built by this package
	if err != nil {
		return fmt.Errorf("open scratch artifact: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy output file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close output file: %w", err)
	}

	return os.Remove(src)
}
