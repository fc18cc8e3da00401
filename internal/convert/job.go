// Package convert runs the image-by-resolution conversion matrix:
// each discovered still is resized and encoded into a looping clip at
// every target resolution.
package convert

import (
	"fmt"
	"path/filepath"

	"github.com/stillframe/mviconv/internal/discover"
)

// OutputExtension is the extension given to finished clips. The
// bitstream inside is a plain MPEG program stream.
const OutputExtension = ".mvi"

// Resolution is one target (width, height) pair.
type Resolution struct {
	Width  int
	Height int
}

// String returns the "WxH" form used in output names and logs.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// DefaultResolutions returns the fixed target set every image is
// converted to.
func DefaultResolutions() []Resolution {
	return []Resolution{
		{Width: 1280, Height: 720},
		{Width: 1920, Height: 1080},
	}
}

// Stage identifies the conversion step a job failed at.
type Stage string

const (
	// StageResize is the still-image resize step.
	StageResize Stage = "resize"
	// StageEncode is the loop-encode step.
	StageEncode Stage = "encode"
	// StageFinalize is the move into the output location.
	StageFinalize Stage = "finalize"
	// StageUpload is the optional S3 delivery step.
	StageUpload Stage = "upload"
	// StageDone marks a completed job.
	StageDone Stage = "done"
)

// Job pairs one input image with one target resolution. Jobs exist only
// for the duration of the conversion loop and are never persisted.
type Job struct {
	Image  discover.ImageFile
	Target Resolution
}

// OutputName returns the deterministic clip name <stem>_<W>x<H>.mvi.
// Distinct stems yield distinct names, so outputs never collide.
func (j Job) OutputName() string {
	return fmt.Sprintf("%s_%s%s", j.Image.Stem, j.Target, OutputExtension)
}

// OutputPath returns the final clip location, alongside the input image.
func (j Job) OutputPath() string {
	return filepath.Join(j.Image.Dir, j.OutputName())
}

// Result is the outcome of one Job.
type Result struct {
	Job Job
	// Stage is the step that failed, or StageDone on success.
	Stage Stage
	Err   error
}

// Succeeded reports whether the job produced its output clip.
func (r Result) Succeeded() bool {
	return r.Err == nil
}
