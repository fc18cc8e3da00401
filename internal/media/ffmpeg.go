package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Static errors for media operations.
var (
	// ErrInvalidDimensions is returned when the provided dimensions are not positive.
	ErrInvalidDimensions = errors.New("invalid dimensions: width and height must be positive")
	// ErrInvalidDuration is returned when the clip duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")
	// ErrFFprobeExecution is returned when the ffprobe command fails.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
)

// Clip encoding constants. The output bitstream is a standard
// single-video-stream MPEG program stream; the .mvi extension used by
// callers is a naming convention, not a distinct container.
const (
	loopCodec     = "mpeg1video"
	loopContainer = "mpeg"
	loopFrameRate = "25"
)

// FFmpegProcessor implements Processor using the ffmpeg CLI.
type FFmpegProcessor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// ffprobePath is the path to the ffprobe binary. Defaults to "ffprobe".
	ffprobePath string
}

// NewFFmpegProcessor creates a new FFmpegProcessor.
// Empty paths default to "ffmpeg" and "ffprobe" (found via PATH).
func NewFFmpegProcessor(ffmpegPath, ffprobePath string) *FFmpegProcessor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegProcessor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Resize scales the source still to exactly w x h. The scale filter is
// given both dimensions, so the aspect ratio is intentionally not
// preserved: outputs must match the requested resolution exactly.
func (p *FFmpegProcessor) Resize(ctx context.Context, src, dst string, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, w, h)
	}

	args := []string{
		"-y",      // Overwrite output file without asking
		"-i", src, // Input file
		"-vf", fmt.Sprintf("scale=%d:%d", w, h), // Exact target dimensions
		"-frames:v", "1", // Output single frame (image)
		dst, // Output file
	}

	return p.runFFmpeg(ctx, args)
}

// EncodeLoop loops the source still for the given duration and encodes
// it as MPEG-1 video in an MPEG program stream.
func (p *FFmpegProcessor) EncodeLoop(ctx context.Context, src, dst string, seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, seconds)
	}

	args := []string{
		"-y",         // Overwrite output file
		"-loop", "1", // Loop the input image
		"-i", src, // Input file
		"-t", strconv.Itoa(seconds), // Clip duration
		"-r", loopFrameRate, // Fixed frame rate
		"-c:v", loopCodec, // MPEG-1 video
		"-an",               // No audio stream
		"-f", loopContainer, // MPEG program stream regardless of extension
		dst, // Output file
	}

	return p.runFFmpeg(ctx, args)
}

// ProbeDimensions returns the width and height of the first video stream
// of the file at path, using ffprobe.
func (p *FFmpegProcessor) ProbeDimensions(ctx context.Context, path string) (int, int, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	var w, h int
	_, err = fmt.Sscanf(strings.TrimSpace(stdout.String()), "%dx%d", &w, &h)
	if err != nil {
		return 0, 0, fmt.Errorf("parse dimensions: %w", err)
	}

	return w, h, nil
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (p *FFmpegProcessor) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
