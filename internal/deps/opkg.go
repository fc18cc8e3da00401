package deps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OpkgFeed implements Feed using the opkg CLI.
type OpkgFeed struct {
	// opkgPath is the path to the opkg binary. Defaults to "opkg".
	opkgPath string
}

// FeedOption is a function that configures an OpkgFeed.
type FeedOption func(*OpkgFeed)

// WithOpkgPath sets the path to the opkg binary.
func WithOpkgPath(path string) FeedOption {
	return func(f *OpkgFeed) {
		if path != "" {
			f.opkgPath = path
		}
	}
}

// NewOpkgFeed creates a new OpkgFeed.
func NewOpkgFeed(opts ...FeedOption) *OpkgFeed {
	f := &OpkgFeed{opkgPath: "opkg"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Available reports whether the feed lists the named package. The feed
// index is refreshed first; a stale index would report recent packages
// as missing.
func (f *OpkgFeed) Available(ctx context.Context, pkg string) (bool, error) {
	// Refresh failure is not fatal: the cached index may still answer.
	_ = f.run(ctx, "update")

	// #nosec G204 - opkgPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.opkgPath, "list", pkg)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("opkg cancelled: %w", ctx.Err())
		}
		return false, fmt.Errorf("query package feed: %w, stderr: %s", err, stderr.String())
	}

	// opkg list prints "<name> - <version> - <description>" per match and
	// nothing when the package is unknown.
	for _, line := range strings.Split(stdout.String(), "\n") {
		name, _, found := strings.Cut(strings.TrimSpace(line), " ")
		if found && name == pkg {
			return true, nil
		}
	}
	return false, nil
}

// Install installs the named package via opkg.
func (f *OpkgFeed) Install(ctx context.Context, pkg string) error {
	if err := f.run(ctx, "install", pkg); err != nil {
		return fmt.Errorf("install %s: %w", pkg, err)
	}
	return nil
}

// run executes opkg with the given arguments, returning stderr in the error.
func (f *OpkgFeed) run(ctx context.Context, args ...string) error {
	// #nosec G204 - opkgPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.opkgPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("opkg cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("opkg %s: %w, stderr: %s", args[0], err, stderr.String())
	}
	return nil
}
