package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkstools/videoconv/internal/job"
	"github.com/kkstools/videoconv/internal/preset"
)

func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a single video file to MP4",
		Long: `Convert a single video file to MP4 with H.264 video and AAC audio.

The output path defaults to the input path with its extension replaced
by .mp4. Existing output files are not overwritten unless --force is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateQualityFlag(); err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			printer := newProgressPrinter(flagNoProgress)
			printer.StartFile(args[0])

			result, err := a.deps.Converter.Convert(cmd.Context(), job.ConvertInput{
				Input:      args[0],
				Output:     output,
				Quality:    a.cfg.Quality,
				Overwrite:  flagForce,
				Upload:     flagUpload,
				OnProgress: printer.Update,
			})
			printer.Finish()
			if err != nil {
				return err
			}

			a.logger.Info("done",
				slog.String("job_id", result.JobID),
				slog.String("output", result.OutputPath),
			)
			fmt.Fprintln(cmd.OutOrStdout(), result.OutputPath)
			if result.OutputURL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.OutputURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: input with .mp4 extension)")

	return cmd
}

// validateQualityFlag rejects unknown preset labels before any work starts.
// The library layer would fall back to the default preset, but an explicit
// flag deserves an explicit error.
func validateQualityFlag() error {
	if flagQuality == "" || preset.IsValid(flagQuality) {
		return nil
	}
	return fmt.Errorf("unknown quality %q (valid: %s)",
		flagQuality, strings.Join(preset.Names(), ", "))
}
