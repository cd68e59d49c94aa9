package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doe300/vc4c-go/internal/telemetry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and commit information",
	Run: func(cmd *cobra.Command, _ []string) {
		noBanner, _ := cmd.Parent().PersistentFlags().GetBool("no-banner")
		logger := telemetry.NewLogger(telemetry.VerbosityDefault)
		if telemetry.ShouldShowBanner(logger.IsTTY(), noBanner) {
			telemetry.PrintBanner(logger.GetWriter(), Version, telemetry.DefaultBannerOptions())
		} else if logger.IsTTY() && !noBanner {
			fmt.Fprintln(os.Stderr, telemetry.CompactBanner(Version))
			fmt.Fprintln(os.Stderr)
		}

		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Git Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
