// Package media provides video transcoding via the ffmpeg CLI.
package media

import (
	"context"

	"github.com/kkstools/videoconv/internal/preset"
)

// ProgressFunc receives conversion progress updates.
// Percent is in [0, 100], or -1 when the total duration is unknown and
// only liveness can be reported. Message is a short human-readable status.
type ProgressFunc func(percent float64, message string)

// TranscodeOptions describes a single conversion.
type TranscodeOptions struct {
	// Input is the path to the source file. It must exist.
	Input string
	// Output is the path the converted file is written to.
	Output string
	// Preset selects the encoder parameters.
	Preset preset.Preset
	// Overwrite allows replacing an existing output file (-y).
	Overwrite bool
	// Duration is the input duration in seconds, used to compute progress
	// percentages. Zero means unknown; progress degrades to liveness updates.
	Duration float64
	// OnProgress, when non-nil, receives progress updates during the run.
	OnProgress ProgressFunc
}

// Transcoder defines the interface for converting media files.
// Implementations should shell out to ffmpeg or an equivalent encoder.
type Transcoder interface {
	// Version returns the encoder version string, verifying the tool is
	// installed and executable.
	Version(ctx context.Context) (string, error)

	// Transcode converts a single file according to opts. The returned
	// error wraps the encoder's stderr output when the subprocess fails.
	Transcode(ctx context.Context, opts TranscodeOptions) error
}
