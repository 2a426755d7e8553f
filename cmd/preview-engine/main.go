package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/launchrail/preview-engine/internal/previewengine"
	"github.com/launchrail/preview-engine/internal/report"
)

var (
	logger *zap.Logger

	flagLabels      string
	flagOutJSON     string
	flagChecksums   string
	flagRunLog      string
	flagNoDataBlock bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "preview-engine",
	Short:         "Generate a static Standard OS preview from a design document",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if !flagVerbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run <input.json> [output.html]",
	Short: "Convert one design document into an interactive HTML preview",
	Long: `Reads a design document (flat form or preview directive form),
normalizes it, and writes a self-contained HTML preview with the hidden
developer panel and embedded data block.

Without an explicit output path, the preview lands next to the input:
"design.json" becomes "design_preview.html".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := previewengine.Config{
			InputPath:        args[0],
			LabelsPath:       flagLabels,
			OutJSONPath:      flagOutJSON,
			ChecksumsPath:    flagChecksums,
			RunLogPath:       flagRunLog,
			IncludeDataBlock: !flagNoDataBlock,
		}
		if len(args) == 2 {
			cfg.OutputPath = args[1]
		}
		logger.Debug("starting run",
			zap.String("input", cfg.InputPath),
			zap.String("labels", cfg.LabelsPath),
		)

		res, err := previewengine.Run(cfg)
		if err != nil {
			return err
		}
		logger.Info("run complete",
			zap.String("run_id", res.RunID),
			zap.Strings("artifacts", res.Artifacts),
		)
		fmt.Printf("status=%s visible=%d hidden=%d output=%s\n",
			res.Status, res.VisibleEvents, res.HiddenEvents, res.OutputPath)
		return nil
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths <input.json>",
	Short: "Print the artifact paths a run would use, without running",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := report.DefaultOutputPath(args[0])
		fmt.Printf("output=%s\nchecksums=%s\nrun_log=%s\n",
			out, report.DefaultChecksumsPath(out), report.DefaultRunLogPath(out))
	},
}

func init() {
	runCmd.Flags().StringVar(&flagLabels, "labels", "", "Path to a YAML labels pack overriding the built-in wording")
	runCmd.Flags().StringVar(&flagOutJSON, "out-json", "", "Also write the canonical model as JSON to this path")
	runCmd.Flags().StringVar(&flagChecksums, "checksums", "", "Write a checksums.sha256 manifest for the emitted artifacts")
	runCmd.Flags().StringVar(&flagRunLog, "run-log", "", "Append a JSONL run log to this path")
	runCmd.Flags().BoolVar(&flagNoDataBlock, "no-data-block", false, "Omit the embedded canonical data block from the HTML")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(runCmd, pathsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "preview-engine error:", err)
		os.Exit(2)
	}
}
