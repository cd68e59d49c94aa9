// Package cmd is the command-line driver: a thin Cobra entry point that
// wires the ambient stack (banner, telemetry, worker count, preference
// matrix) around the core compile pipeline. The pipeline itself lives in
// internal/pipeline; this package never touches IR directly beyond loading
// it.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doe300/vc4c-go/internal/telemetry"
)

var (
	verboseFlag bool
	debugFlag   bool

	// Version and GitCommit are set at build time via -ldflags.
	Version   = "0.1.0"
	GitCommit = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "vc4c-go",
	Short: "OpenCL-C to VideoCore IV QPU compiler backend",
	Long: `vc4c-go runs VideoCore IV QPU backend passes over normalized OpenCL-C
IR: control-flow analysis, memory-access classification, and dual-issue
instruction scheduling. It does not emit encoded bytecode.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics")
		verboseFlag, _ = cmd.Flags().GetBool("verbose")
		debugFlag, _ = cmd.Flags().GetBool("debug")

		telemetry.LoadEnvFile()
		telemetry.Init(disableMetrics)
		telemetry.SetVersion(Version)

		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := telemetry.NewLogger(telemetry.VerbosityDefault)
			if telemetry.ShouldShowBanner(logger.IsTTY(), noBanner) {
				telemetry.PrintBanner(logger.GetWriter(), Version, telemetry.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, telemetry.CompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

// Execute runs the root command; the caller's main simply forwards os.Exit
// on a non-nil error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable telemetry collection")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show progress and statistics")
	rootCmd.PersistentFlags().Bool("debug", false, "Show elapsed-time debug diagnostics")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}

func verbosity() telemetry.VerbosityLevel {
	switch {
	case debugFlag:
		return telemetry.VerbosityDebug
	case verboseFlag:
		return telemetry.VerbosityVerbose
	default:
		return telemetry.VerbosityDefault
	}
}
