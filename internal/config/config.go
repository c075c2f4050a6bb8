// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidLogFormat is returned when LOG_FORMAT is not "text" or "json".
	ErrInvalidLogFormat = errors.New(`config: LOG_FORMAT must be "text" or "json"`)
	// ErrInvalidSourceExt is returned when SOURCE_EXT does not start with a dot.
	ErrInvalidSourceExt = errors.New(`config: SOURCE_EXT must start with a dot, e.g. ".rmvb"`)
)

// Config holds all configuration for the converter.
type Config struct {
	// External tool settings
	FFmpegPath  string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	FFprobePath string `env:"FFPROBE_PATH, default=ffprobe" json:"ffprobe_path"`

	// Conversion settings
	SourceExt string `env:"SOURCE_EXT, default=.rmvb" json:"source_ext"`
	Quality   string `env:"QUALITY, default=medium" json:"quality"`

	// Optional S3 settings for uploading converted outputs
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
	LogFile   string `env:"LOG_FILE" json:"log_file,omitempty"`         // optional file sink
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration values are well-formed.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	if !strings.HasPrefix(c.SourceExt, ".") {
		return ErrInvalidSourceExt
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs. When LogFile is set,
// log lines are written to both the console and the file; the returned
// closer closes the file sink and is nil when no file is configured.
func (c *Config) NewLogger() (*slog.Logger, io.Closer, error) {
	level := parseLogLevel(c.LogLevel)

	var out io.Writer = os.Stdout
	var closer io.Closer
	if c.LogFile != "" {
		if dir := filepath.Dir(c.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("config: create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 - path comes from operator config
		if err != nil {
			return nil, nil, fmt.Errorf("config: open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler), closer, nil
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{FFmpegPath: %s, FFprobePath: %s, SourceExt: %s, Quality: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s, LogFile: %s}",
		c.FFmpegPath,
		c.FFprobePath,
		c.SourceExt,
		c.Quality,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
		c.LogFile,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
