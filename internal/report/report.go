// Package report accumulates per-job outcomes into a run summary.
package report

import (
	"fmt"
	"log/slog"
	"time"
)

// Summary holds the aggregate counters for one conversion run.
// It is built by folding per-job results in a single goroutine, so it
// carries no synchronization of its own.
type Summary struct {
	// Found is the number of input images discovered.
	Found int
	// Attempted is the number of (image, resolution) jobs that ran.
	Attempted int
	// Succeeded is the number of jobs that produced an output clip.
	Succeeded int
	// Failed is the number of jobs abandoned at some stage.
	Failed int
	// Elapsed is the wall-clock duration of the job loop.
	Elapsed time.Duration
}

// NewSummary creates a Summary for a run over the given number of images.
func NewSummary(found int) *Summary {
	return &Summary{Found: found}
}

// Add folds one job outcome into the counters.
func (s *Summary) Add(succeeded bool) {
	s.Attempted++
	if succeeded {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// MinutesSeconds returns the elapsed time split into whole minutes and
// leftover seconds, for the fixed-format summary line.
func (s *Summary) MinutesSeconds() (minutes, seconds int) {
	total := int(s.Elapsed.Seconds())
	return total / 60, total % 60
}

// String returns the fixed-format one-line summary.
func (s *Summary) String() string {
	m, sec := s.MinutesSeconds()
	return fmt.Sprintf("%d images, %d jobs: %d converted, %d failed in %dm %ds",
		s.Found, s.Attempted, s.Succeeded, s.Failed, m, sec)
}

// Log emits the final summary through the structured logger.
func (s *Summary) Log(logger *slog.Logger) {
	m, sec := s.MinutesSeconds()
	logger.Info("conversion finished",
		slog.Int("images", s.Found),
		slog.Int("jobs", s.Attempted),
		slog.Int("succeeded", s.Succeeded),
		slog.Int("failed", s.Failed),
		slog.String("elapsed", fmt.Sprintf("%dm %ds", m, sec)),
	)
}
