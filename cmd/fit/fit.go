// Package fit implements the fit command.
package fit

import (
	"fmt"

	"fjacquet/trendfit/cmd/common"
	"fjacquet/trendfit/cmd/root"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/report"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/validation"

	"github.com/spf13/cobra"
)

var (
	// outputFormat is the report format (json, yaml, table).
	outputFormat string
	// outputFile receives the report instead of stdout when set.
	outputFile string
	// keepRuns prunes the run history down to this many runs when positive.
	keepRuns int
)

// Cmd represents the fit command
var Cmd = &cobra.Command{
	Use:   "fit [file-or-dir...]",
	Short: "Fit trend models for every category of the input periods",
	Long: `Fit reads period entries (period,category,budgeted,actual) from CSV files or
directories of CSV files, fits every applicable model family to each category's spending,
leftover and goal progress series, selects one model per series and saves the run to the
configured model store.

When no argument is given the watch.input setting is used.

Example:
  trendfit fit budget/2025.csv budget/2026.csv --format yaml`,
	RunE: fitFunc,
}

func init() {
	Cmd.Flags().StringVarP(&outputFormat, "format", "f", report.FormatTable, "Report format: json, yaml or table")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the report to this file instead of stdout")
	Cmd.Flags().IntVar(&keepRuns, "keep", 0, "Keep only the newest N runs in stores with history (0 keeps all)")
}

func fitFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(outputFormat); err != nil {
		return err
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger().WithField("command", "fit")

	inputs := common.ResolveInputs(args, c.GetConfig().Watch.Input)
	if len(inputs) == 0 {
		return fmt.Errorf("no input given: pass files or directories, or set watch.input")
	}

	result, err := c.GetRunner().Run(cmd.Context(), inputs)
	if err != nil {
		return fmt.Errorf("fit failed: %w", err)
	}

	if keepRuns > 0 {
		if pruner, ok := c.GetStore().(store.Pruner); ok {
			removed, err := pruner.Prune(cmd.Context(), keepRuns)
			if err != nil {
				return fmt.Errorf("pruning run history: %w", err)
			}
			log.Debug("Pruned run history", logging.F(logging.FieldCount, removed))
		} else {
			log.Debug("Store keeps no history, --keep ignored")
		}
	}

	data, err := c.GetReportGenerator().GenerateReport(report.FromRun(result.Run), outputFormat)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return common.WriteOutput(cmd, data, outputFile, log)
}
