package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kkstools/videoconv/internal/media"
	"github.com/kkstools/videoconv/internal/preset"
	"github.com/kkstools/videoconv/internal/probe"
	"github.com/kkstools/videoconv/internal/storage"
)

// Static errors for conversion requests.
var (
	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file does not exist")
	// ErrInputDirNotFound is returned when the batch input directory does not exist.
	ErrInputDirNotFound = errors.New("input directory does not exist")
	// ErrNotADirectory is returned when the batch input path is not a directory.
	ErrNotADirectory = errors.New("input path is not a directory")
	// ErrOutputExists is returned when the output file exists and overwrite is disabled.
	ErrOutputExists = errors.New("output file already exists (use overwrite to replace it)")
	// ErrStorageNotConfigured is returned when an upload is requested without storage.
	ErrStorageNotConfigured = errors.New("upload requested but no storage is configured")
)

// ConvertInput contains the parameters for a single-file conversion.
type ConvertInput struct {
	// Input is the path to the source file.
	Input string `validate:"required"`
	// Output is the path for the converted file. Empty derives
	// "<input without extension>.mp4".
	Output string
	// Quality is the preset label. Unknown labels fall back to the default
	// preset with a warning.
	Quality string
	// Overwrite allows replacing an existing output file.
	Overwrite bool
	// Upload pushes the converted file to the configured storage backend.
	Upload bool
	// OnProgress, when non-nil, receives conversion progress updates.
	OnProgress media.ProgressFunc
}

// ConvertOutput contains the result of a single-file conversion.
type ConvertOutput struct {
	// JobID is the unique identifier for the conversion job.
	JobID string
	// Status is the final job status.
	Status Status
	// Input is the source file path.
	Input string
	// OutputPath is the local path to the converted file.
	OutputPath string
	// OutputURL is the storage location when Upload was requested.
	OutputURL string
	// Error contains the error message if the conversion failed.
	Error string
}

// BatchInput contains the parameters for a batch conversion.
type BatchInput struct {
	// InputDir is the directory to scan for source files.
	InputDir string `validate:"required"`
	// OutputDir is where converted files are written. Empty uses InputDir.
	OutputDir string
	// Quality is the preset label applied to every file.
	Quality string
	// Overwrite allows replacing existing output files.
	Overwrite bool
	// Upload pushes each converted file to the configured storage backend.
	Upload bool
	// OnFileStart, when non-nil, is called before each file is converted.
	OnFileStart func(index, total int, input string)
	// OnProgress, when non-nil, receives per-file progress updates.
	OnProgress media.ProgressFunc
}

// BatchOutput contains the aggregated result of a batch conversion.
type BatchOutput struct {
	// Results holds the per-file outcomes in processing order.
	Results []ConvertOutput
	// Converted holds the output paths of the successful conversions.
	Converted []string
	// Succeeded is the number of files converted successfully.
	Succeeded int
	// Failed is the number of files that failed to convert.
	Failed int
}

// ConvertService orchestrates conversions: it validates requests, resolves
// presets, probes durations for progress reporting, runs the transcoder,
// and records every run as a Job in the repository.
type ConvertService struct {
	repo       Repository
	transcoder media.Transcoder
	prober     probe.Prober
	store      storage.Storage
	logger     *slog.Logger
	validate   *validator.Validate

	// sourceExt is the expected source container extension; inputs with a
	// different extension only produce a warning.
	sourceExt string
}

// Option configures a ConvertService.
type Option func(*ConvertService)

// WithSourceExt sets the expected source extension (with leading dot).
func WithSourceExt(ext string) Option {
	return func(s *ConvertService) {
		if ext != "" {
			s.sourceExt = ext
		}
	}
}

// NewConvertService creates a new ConvertService.
func NewConvertService(
	repo Repository,
	transcoder media.Transcoder,
	prober probe.Prober,
	store storage.Storage,
	logger *slog.Logger,
	opts ...Option,
) *ConvertService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ConvertService{
		repo:       repo,
		transcoder: transcoder,
		prober:     prober,
		store:      store,
		logger:     logger,
		validate:   validator.New(),
		sourceExt:  ".rmvb",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetJob retrieves a job by ID.
func (s *ConvertService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// ListJobs returns every job recorded during this run, in creation order.
func (s *ConvertService) ListJobs(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

// Convert runs a single-file conversion. The returned ConvertOutput is
// populated for both success and failure; the error is non-nil whenever the
// conversion did not complete.
func (s *ConvertService) Convert(ctx context.Context, input ConvertInput) (*ConvertOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}

	if _, err := os.Stat(input.Input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, input.Input)
	}

	if ext := strings.ToLower(filepath.Ext(input.Input)); ext != s.sourceExt {
		s.logger.Warn("input extension does not match the expected source format",
			slog.String("input", input.Input),
			slog.String("expected", s.sourceExt),
		)
	}

	output := input.Output
	if output == "" {
		output = strings.TrimSuffix(input.Input, filepath.Ext(input.Input)) + ".mp4"
	}

	if _, err := os.Stat(output); err == nil && !input.Overwrite {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, output)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	if input.Upload && s.store == nil {
		return nil, ErrStorageNotConfigured
	}

	quality, known := preset.Resolve(input.Quality)
	if !known && input.Quality != "" {
		s.logger.Warn("unknown quality preset, using default",
			slog.String("requested", input.Quality),
			slog.String("using", quality.Name),
		)
	}

	j := New()
	j.InputPath = input.Input
	j.OutputPath = output
	j.Quality = quality.Name
	if err := s.repo.Save(ctx, j); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	s.logger.Info("starting conversion",
		slog.String("job_id", j.ID),
		slog.String("input", input.Input),
		slog.String("output", output),
		slog.String("quality", quality.Name),
	)

	// Duration is only needed for percentage progress; probing failures
	// degrade reporting but never fail the conversion.
	duration, err := s.prober.Duration(ctx, input.Input)
	if err != nil {
		s.logger.Warn("could not determine input duration, progress will be approximate",
			slog.String("input", input.Input),
			slog.String("error", err.Error()),
		)
		duration = 0
	}

	_ = j.Start()
	_ = s.repo.Save(ctx, j)

	onProgress := func(percent float64, message string) {
		if percent >= 0 {
			j.UpdateProgress(int(percent))
		}
		if input.OnProgress != nil {
			input.OnProgress(percent, message)
		}
	}

	err = s.transcoder.Transcode(ctx, media.TranscodeOptions{
		Input:      input.Input,
		Output:     output,
		Preset:     quality,
		Overwrite:  input.Overwrite,
		Duration:   duration,
		OnProgress: onProgress,
	})
	if err != nil {
		if ctx.Err() != nil {
			_ = j.Cancel()
		} else {
			_ = j.Fail(err.Error())
		}
		_ = s.repo.Save(ctx, j)
		s.logger.Error("conversion failed",
			slog.String("job_id", j.ID),
			slog.String("input", input.Input),
			slog.String("error", err.Error()),
		)
		return s.output(j), fmt.Errorf("convert %s: %w", input.Input, err)
	}

	var location string
	if input.Upload {
		location, err = s.store.Store(ctx, output)
		if err != nil {
			_ = j.Fail(err.Error())
			_ = s.repo.Save(ctx, j)
			return s.output(j), fmt.Errorf("store output %s: %w", output, err)
		}
	}

	j.SetOutput(output, location)
	_ = j.Complete()
	if err := s.repo.Save(ctx, j); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	s.logger.Info("conversion completed",
		slog.String("job_id", j.ID),
		slog.String("output", output),
	)

	return s.output(j), nil
}

// ConvertBatch converts every file in InputDir whose extension matches the
// configured source extension, sequentially and in sorted order. A failing
// file does not stop the remaining files.
func (s *ConvertService) ConvertBatch(ctx context.Context, input BatchInput) (*BatchOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}

	info, err := os.Stat(input.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputDirNotFound, input.InputDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, input.InputDir)
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = input.InputDir
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	files, err := s.discover(input.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}

	out := &BatchOutput{}
	if len(files) == 0 {
		s.logger.Info("no matching files found",
			slog.String("dir", input.InputDir),
			slog.String("ext", s.sourceExt),
		)
		return out, nil
	}

	s.logger.Info("starting batch conversion",
		slog.Int("files", len(files)),
		slog.String("input_dir", input.InputDir),
		slog.String("output_dir", outputDir),
	)

	for i, file := range files {
		if ctx.Err() != nil {
			s.logger.Warn("batch interrupted",
				slog.Int("remaining", len(files)-i),
			)
			break
		}

		if input.OnFileStart != nil {
			input.OnFileStart(i, len(files), file)
		}

		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		result, convErr := s.Convert(ctx, ConvertInput{
			Input:      file,
			Output:     filepath.Join(outputDir, stem+".mp4"),
			Quality:    input.Quality,
			Overwrite:  input.Overwrite,
			Upload:     input.Upload,
			OnProgress: input.OnProgress,
		})
		if convErr != nil {
			out.Failed++
			if result == nil {
				result = &ConvertOutput{
					Input:  file,
					Status: StatusFailed,
					Error:  convErr.Error(),
				}
			}
			out.Results = append(out.Results, *result)
			continue
		}

		out.Succeeded++
		out.Converted = append(out.Converted, result.OutputPath)
		out.Results = append(out.Results, *result)
	}

	s.logger.Info("batch conversion finished",
		slog.Int("succeeded", out.Succeeded),
		slog.Int("failed", out.Failed),
	)

	return out, nil
}

// discover lists the files in dir (non-recursive) whose extension matches
// the source extension, case-insensitively, sorted for deterministic order.
func (s *ConvertService) discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), s.sourceExt) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// output converts a job into its external result representation.
func (s *ConvertService) output(j *Job) *ConvertOutput {
	return &ConvertOutput{
		JobID:      j.ID,
		Status:     j.GetStatus(),
		Input:      j.InputPath,
		OutputPath: j.OutputPath,
		OutputURL:  j.OutputURL,
		Error:      j.Error,
	}
}
