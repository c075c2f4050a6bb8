package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kkstools/videoconv/internal/job"
)

func newBatchCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Convert every matching file in a directory",
		Long: `Convert every file in the given directory whose extension matches the
configured source extension (.rmvb by default, see --ext). Files are
processed one at a time in sorted order; a failing file does not stop
the rest of the batch.

The command exits non-zero when any file in the batch failed.`,
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

			result, err := a.deps.Converter.ConvertBatch(cmd.Context(), job.BatchInput{
				InputDir:  args[0],
				OutputDir: outputDir,
				Quality:   a.cfg.Quality,
				Overwrite: flagForce,
				Upload:    flagUpload,
				OnFileStart: func(index, total int, input string) {
					printer.StartFile(fmt.Sprintf("[%d/%d] %s",
						index+1, total, filepath.Base(input)))
				},
				OnProgress: printer.Update,
			})
			printer.Finish()
			if err != nil {
				return err
			}

			for _, path := range result.Converted {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d file(s), %d failed\n",
				result.Succeeded, result.Failed)

			if result.Failed > 0 {
				// The job ledger has the per-file failure detail.
				if jobs, jerr := a.deps.Converter.ListJobs(cmd.Context()); jerr == nil {
					for _, jb := range jobs {
						if jb.GetStatus() == job.StatusFailed {
							fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %s\n",
								jb.InputPath, jb.Error)
						}
					}
				}
				return fmt.Errorf("%d of %d conversions failed",
					result.Failed, result.Succeeded+result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for converted files (default: the input directory)")

	return cmd
}
