// Package cli implements the videoconv command-line interface on top of
// cobra. Each subcommand loads configuration from the environment, applies
// flag overrides, and wires dependencies through bootstrap.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kkstools/videoconv/internal/bootstrap"
	"github.com/kkstools/videoconv/internal/config"
)

// version is injected at build time via -ldflags.
var version = "1.0.0-dev"

var (
	flagFFmpeg     string
	flagFFprobe    string
	flagExt        string
	flagQuality    string
	flagLogFormat  string
	flagLogLevel   string
	flagLogFile    string
	flagForce      bool
	flagUpload     bool
	flagNoProgress bool
)

// NewRootCmd builds the videoconv command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "videoconv",
		Short:   "Convert video files to MP4 (H.264/AAC) with FFmpeg",
		Version: version,
		Long: `videoconv is a thin wrapper around FFmpeg for converting video files
(RMVB by default) into MP4 with H.264 video and AAC audio.

Quality presets:
  low     CRF 28, fast preset
  medium  CRF 23, medium preset (default)
  high    CRF 18, slow preset

Configuration is read from environment variables (FFMPEG_PATH, SOURCE_EXT,
LOG_FORMAT, S3_BUCKET, ...); command-line flags take precedence.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagFFmpeg, "ffmpeg", "", "path to the ffmpeg executable (default: ffmpeg on PATH)")
	pf.StringVar(&flagFFprobe, "ffprobe", "", "path to the ffprobe executable (default: ffprobe on PATH)")
	pf.StringVar(&flagExt, "ext", "", `source file extension (default: ".rmvb")`)
	pf.StringVarP(&flagQuality, "quality", "q", "", "quality preset: low, medium or high (default: medium)")
	pf.StringVar(&flagLogFormat, "log-format", "", `log format: "text" or "json"`)
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flagLogFile, "log-file", "", "also write logs to this file")
	pf.BoolVarP(&flagForce, "force", "f", false, "overwrite existing output files")
	pf.BoolVar(&flagUpload, "upload", false, "upload converted files to the configured S3 bucket")
	pf.BoolVar(&flagNoProgress, "no-progress", false, "disable the console progress bar")

	root.AddCommand(
		newConvertCmd(),
		newBatchCmd(),
		newInfoCmd(),
		newCheckCmd(),
	)

	return root
}

// Execute runs the CLI with the given context. The context is cancelled on
// SIGINT/SIGTERM by the caller so in-flight conversions stop cleanly.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// app bundles the per-invocation runtime: resolved config, logger with its
// optional file sink, and the wired dependencies.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	deps   *bootstrap.Dependencies
}

// newApp loads configuration from the environment, applies flag overrides,
// and wires the dependencies.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		closer: closer,
		deps:   deps,
	}, nil
}

// Close releases the log file sink, if any.
func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// applyFlagOverrides lets command-line flags take precedence over
// environment configuration. Empty flags leave the config untouched.
func applyFlagOverrides(cfg *config.Config) {
	if flagFFmpeg != "" {
		cfg.FFmpegPath = flagFFmpeg
	}
	if flagFFprobe != "" {
		cfg.FFprobePath = flagFFprobe
	}
	if flagExt != "" {
		cfg.SourceExt = flagExt
	}
	if flagQuality != "" {
		cfg.Quality = flagQuality
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
}
