// Package deps gates the pipeline on the external transcoder being
// invocable, installing it from the package feed when possible.
package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Static errors for dependency checking.
var (
	// ErrFeedUnavailable is returned when the package feed has no candidate
	// for the transcoder package.
	ErrFeedUnavailable = errors.New("deps: transcoder not available in package feed")
	// ErrInstallFailed is returned when installing the transcoder package fails.
	ErrInstallFailed = errors.New("deps: transcoder install failed")
	// ErrTranscoderUnavailable is returned when the transcoder is still not
	// invocable after a successful-looking install.
	ErrTranscoderUnavailable = errors.New("deps: transcoder not invocable")
)

// Feed defines the interface to the package feed. It is an opaque
// yes/no-plus-install capability; the opkg implementation is the default.
type Feed interface {
	// Available reports whether the feed offers the named package.
	Available(ctx context.Context, pkg string) (bool, error)

	// Install installs the named package. One attempt, no retry.
	Install(ctx context.Context, pkg string) error
}

// Checker verifies that the transcoder binary can be invoked, using the
// feed as a fallback installation path. The check is a precondition gate:
// it runs once before the pipeline and fails fast.
type Checker struct {
	feed     Feed
	binary   string
	pkg      string
	logger   *slog.Logger
	lookPath func(file string) (string, error)
}

// CheckerOption is a function that configures a Checker.
type CheckerOption func(*Checker)

// WithLookPath overrides the PATH lookup, for tests.
func WithLookPath(fn func(file string) (string, error)) CheckerOption {
	return func(c *Checker) {
		c.lookPath = fn
	}
}

// WithPackage sets the feed package name to install when the binary is
// missing. Defaults to "ffmpeg".
func WithPackage(pkg string) CheckerOption {
	return func(c *Checker) {
		c.pkg = pkg
	}
}

// NewChecker creates a Checker for the given transcoder binary.
// An empty binary defaults to "ffmpeg".
func NewChecker(feed Feed, binary string, logger *slog.Logger, opts ...CheckerOption) *Checker {
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Checker{
		feed:     feed,
		binary:   binary,
		pkg:      "ffmpeg",
		logger:   logger,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns nil when the transcoder is invocable, installing it from
// the feed if necessary. Any other outcome is fatal to the run.
func (c *Checker) Check(ctx context.Context) error {
	if _, err := c.lookPath(c.binary); err == nil {
		return nil
	}

	c.logger.Warn("transcoder not found, querying package feed",
		slog.String("binary", c.binary),
		slog.String("package", c.pkg),
	)

	ok, err := c.feed.Available(ctx, c.pkg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	if !ok {
		return ErrFeedUnavailable
	}

	if err := c.feed.Install(ctx, c.pkg); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	if _, err := c.lookPath(c.binary); err != nil {
		return fmt.Errorf("%w: %s missing after install", ErrTranscoderUnavailable, c.binary)
	}

	c.logger.Info("transcoder installed from package feed",
		slog.String("package", c.pkg),
	)
	return nil
}
