// Package media provides the transcoder port used by the conversion pipeline.
package media

import "context"

// Processor defines the interface for the external transcoding tool.
// Implementations delegate all codec work to ffmpeg or a compatible tool;
// the pipeline treats it as an opaque black box.
type Processor interface {
	// Resize scales the still image at src to exactly w x h pixels and
	// writes the result to dst in the same still format. The source
	// aspect ratio is not preserved: the output always matches the
	// requested dimensions.
	Resize(ctx context.Context, src, dst string, w, h int) error

	// EncodeLoop renders the still image at src as a looping MPEG-1
	// video clip of the given duration in seconds and writes an MPEG
	// program stream to dst.
	EncodeLoop(ctx context.Context, src, dst string, seconds int) error

	// ProbeDimensions returns the width and height of the first video
	// stream (or the image) at path.
	ProbeDimensions(ctx context.Context, path string) (w, h int, err error)
}
