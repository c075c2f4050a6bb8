// Package bootstrap provides dependency initialization for the converter.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kkstools/videoconv/internal/config"
	"github.com/kkstools/videoconv/internal/job"
	"github.com/kkstools/videoconv/internal/media"
	"github.com/kkstools/videoconv/internal/probe"
	"github.com/kkstools/videoconv/internal/storage"
)

// Dependencies holds all initialized dependencies for the CLI.
type Dependencies struct {
	Converter  *job.ConvertService
	Transcoder media.Transcoder
	Prober     probe.Prober
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	transcoder := media.NewFFmpegTranscoder(cfg.FFmpegPath)
	prober := probe.NewFFprobe(cfg.FFprobePath)
	repo := job.NewMemoryRepository()

	svc := job.NewConvertService(
		repo,
		transcoder,
		prober,
		store,
		logger,
		job.WithSourceExt(cfg.SourceExt),
	)

	return &Dependencies{
		Converter:  svc,
		Transcoder: transcoder,
		Prober:     prober,
	}, nil
}

// initStorage creates the S3 storage backend when configured. Without S3
// settings no storage is wired, so upload requests fail with an explicit
// error instead of quietly doing nothing.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !cfg.S3Enabled() {
		logger.Debug("no S3 storage configured, uploads unavailable")
		return nil, nil
	}

	s3Cfg := storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}
	s3Store, err := storage.NewS3Storage(s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("create S3 storage: %w", err)
	}
	logger.Info("S3 storage configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)
	return s3Store, nil
}
