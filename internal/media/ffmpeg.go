package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary cannot be executed.
var ErrFFmpegNotFound = errors.New("ffmpeg not found; install FFmpeg or set FFMPEG_PATH")

// Compile-time check that FFmpegTranscoder implements Transcoder.
var _ Transcoder = (*FFmpegTranscoder)(nil)

// FFmpegTranscoder implements Transcoder using the ffmpeg CLI.
type FFmpegTranscoder struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
}

// NewFFmpegTranscoder creates a new FFmpegTranscoder.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegTranscoder(ffmpegPath string) *FFmpegTranscoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegTranscoder{ffmpegPath: ffmpegPath}
}

// Version runs "ffmpeg -version" and returns the first line of its output.
// It is the availability check run before any conversion.
func (t *FFmpegTranscoder) Version(ctx context.Context) (string, error) {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, t.ffmpegPath, "-version")

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ffmpeg version check cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	firstLine := string(out)
	if idx := strings.IndexByte(firstLine, '\n'); idx > 0 {
		firstLine = firstLine[:idx]
	}
	return strings.TrimSpace(firstLine), nil
}

// buildArgs constructs the ffmpeg argument list for a conversion.
// H.264 video and AAC audio are the most broadly compatible combination,
// and +faststart moves the metadata to the front of the file for network
// playback.
func (t *FFmpegTranscoder) buildArgs(opts TranscodeOptions) []string {
	args := []string{
		"-i", opts.Input,
		"-c:v", "libx264",
		"-c:a", "aac",
	}
	args = append(args, opts.Preset.Args()...)
	args = append(args, "-movflags", "+faststart")

	if opts.Overwrite {
		args = append(args, "-y")
	}

	// Progress lines go to stdout so stderr stays reserved for diagnostics.
	args = append(args, "-nostats", "-progress", "pipe:1")

	return append(args, opts.Output)
}

// Transcode converts a single file with ffmpeg, streaming progress updates
// from the -progress pipe while capturing stderr for error reporting.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, opts TranscodeOptions) error {
	args := t.buildArgs(opts)

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open progress pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	// Drain the progress pipe before Wait so the child never blocks on a
	// full pipe buffer.
	readProgress(stdout, opts.Duration, opts.OnProgress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	if opts.OnProgress != nil {
		opts.OnProgress(100, "done")
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
