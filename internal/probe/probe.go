// Package probe provides media inspection via the ffprobe CLI.
package probe

import "context"

// Prober defines the interface for inspecting media files.
// Implementations should use ffprobe or similar tools.
type Prober interface {
	// Version returns the prober version string, verifying the tool is
	// installed and executable.
	Version(ctx context.Context) (string, error)

	// Duration returns the duration in seconds of a media file.
	Duration(ctx context.Context, path string) (float64, error)

	// Info returns the decoded container and stream metadata of a media file.
	Info(ctx context.Context, path string) (*MediaInfo, error)
}

// MediaInfo is the decoded output of ffprobe -show_format -show_streams.
type MediaInfo struct {
	Format  Format   `json:"format"`
	Streams []Stream `json:"streams"`
}

// Format describes the container of a media file.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// Stream describes a single audio or video stream.
type Stream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	BitRate   string `json:"bit_rate,omitempty"`
	Duration  string `json:"duration,omitempty"`
}
