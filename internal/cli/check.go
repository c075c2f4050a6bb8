package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that ffmpeg and ffprobe are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ffmpeg, err := a.deps.Transcoder.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("ffmpeg not available (%s): %w", a.cfg.FFmpegPath, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ffmpeg)

			ffprobe, err := a.deps.Prober.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("ffprobe not available (%s): %w", a.cfg.FFprobePath, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ffprobe)

			return nil
		},
	}
}
