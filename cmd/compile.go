package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doe300/vc4c-go/internal/cfg"
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/config"
	"github.com/doe300/vc4c-go/internal/diagnostic"
	"github.com/doe300/vc4c-go/internal/memclass"
	"github.com/doe300/vc4c-go/internal/pipeline"
	"github.com/doe300/vc4c-go/internal/scheduler"
	"github.com/doe300/vc4c-go/internal/telemetry"
)

const (
	eventCompileStarted   = "qpuc:compile_started"
	eventCompileCompleted = "qpuc:compile_completed"
	eventCompileFailed    = "qpuc:compile_failed"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Run the VideoCore IV QPU backend passes over a normalized IR method document",
	Long: `compile runs the full backend over a single method: control-flow
analysis, memory-access classification, and dual-issue instruction
scheduling. It reports diagnostics and statistics; it does not write
encoded QPU bytecode.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		startTime := time.Now()

		inputPath, _ := cmd.Flags().GetString("input")
		prefsPath, _ := cmd.Flags().GetString("prefs")
		dumpCFGPath, _ := cmd.Flags().GetString("dump-cfg")
		sarifPath, _ := cmd.Flags().GetString("sarif-out")
		workers, _ := cmd.Flags().GetInt("workers")

		if inputPath == "" {
			return fmt.Errorf("--input is required")
		}
		_ = workers // per-method compilation below is single-threaded; batch
		// compilation across methods is where config.OptimalWorkerCount's
		// pool would be used.

		logger := telemetry.NewLogger(verbosity())

		prefs := config.DefaultPreferenceMatrix()
		if prefsPath != "" {
			loaded, err := config.LoadPreferenceMatrix(prefsPath)
			if err != nil {
				return fmt.Errorf("loading preference matrix: %w", err)
			}
			prefs = loaded
		}
		prefs.Apply()

		mode := scheduler.SchedulingModeSinglePair
		if prefs.SchedulingModeExhaustive {
			mode = scheduler.SchedulingModeExhaustive
		}

		doc, err := loadMethodDoc(inputPath)
		if err != nil {
			return err
		}
		method, err := buildMethod(doc)
		if err != nil {
			return fmt.Errorf("building method: %w", err)
		}

		telemetry.ReportEventWithProperties(eventCompileStarted, map[string]interface{}{
			"kernel": method.IsKernel,
		})

		opts := pipeline.DefaultOptions()
		opts.SchedulingMode = mode
		result, cerr := pipeline.Compile(method, opts)

		if cerr != nil {
			diagnostic.PrintConsoleReport(os.Stderr, method.Name, cerr)
			telemetry.ReportEventWithProperties(eventCompileFailed, map[string]interface{}{
				"stage": compileerr.Stage,
			})
			if sarifPath != "" {
				if werr := writeSARIFFile(sarifPath, method.Name, []*compileerr.CompileError{cerr}); werr != nil {
					logger.Warning("failed to write SARIF report: %v", werr)
				}
			}
			return cerr
		}

		logger.Statistic("rewrote %d write(s), %d read(s), %d copy(s) before classification",
			result.Rewrites.WritesSplit, result.Rewrites.ReadsSplit, result.Rewrites.CopiesRewritten)
		for _, recovered := range result.Rewrites.Recovered {
			logger.Debug("read-split aborted (%s), left un-split", recovered)
		}

		logger.Statistic("classified %d memory base(s) across %d block(s)", len(result.MemoryInfo), len(result.Scheduled))
		for base, info := range result.MemoryInfo {
			if info.Recovered != memclass.RecoveredNone {
				logger.Debug("%s recovered (%s) to realization %s", base.Describe(), info.Recovered, info.Realization)
			}
		}

		if dumpCFGPath != "" {
			if err := result.CFG.DumpGraph(dumpCFGPath, cfg.DumpOptions{}); err != nil {
				logger.Warning("failed to dump CFG: %v", err)
			}
		}

		telemetry.ReportEventWithProperties(eventCompileCompleted, map[string]interface{}{
			"duration_ms": time.Since(startTime).Milliseconds(),
			"blocks":      len(result.Scheduled),
		})

		return nil
	},
}

func writeSARIFFile(path, methodName string, errs []*compileerr.CompileError) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return diagnostic.WriteSARIF(f, methodName, errs)
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().String("input", "", "Path to a JSON IR method document (required)")
	compileCmd.Flags().String("prefs", "", "Path to a YAML preference-matrix config file")
	compileCmd.Flags().String("dump-cfg", "", "Write a GraphViz dot rendering of the method's CFG to this path")
	compileCmd.Flags().String("sarif-out", "", "Write a SARIF report of fatal compile errors to this path")
	compileCmd.Flags().Int("workers", config.OptimalWorkerCount(), "Worker count for batch compilation")
	compileCmd.MarkFlagRequired("input")
}
