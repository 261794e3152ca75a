// Package forecast implements the forecast command.
package forecast

import (
	"errors"
	"fmt"

	"fjacquet/trendfit/cmd/common"
	"fjacquet/trendfit/cmd/root"
	internalcommon "fjacquet/trendfit/internal/common"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/report"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/validation"
	"fjacquet/trendfit/internal/trend"

	"github.com/spf13/cobra"
)

var (
	fromPeriod   int
	horizon      int
	categories   []string
	outputFormat string
	outputFile   string
	csvFile      string
)

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast category series from the latest stored fit run",
	Long: `Forecast evaluates the models chosen by the latest stored fit run at the period
indices from, from+1, ..., from+horizon-1. Period indices are the 0-based ordinals used when
fitting, so the first period after a fit over N periods is N.

Example:
  trendfit forecast --from 12 --horizon 6 --csv forecast.csv`,
	Args: cobra.NoArgs,
	RunE: forecastFunc,
}

func init() {
	Cmd.Flags().IntVar(&fromPeriod, "from", 0, "First period index to forecast")
	Cmd.Flags().IntVarP(&horizon, "horizon", "n", 3, "Number of periods to forecast")
	Cmd.Flags().StringSliceVar(&categories, "category", nil, "Only forecast these categories (repeatable)")
	Cmd.Flags().StringVarP(&outputFormat, "format", "f", report.FormatTable, "Output format: json, yaml or table")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the rendered forecast to this file instead of stdout")
	Cmd.Flags().StringVar(&csvFile, "csv", "", "Write forecast rows (category,target,period_index,value,model) to this CSV file")
}

func forecastFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(outputFormat); err != nil {
		return err
	}
	if horizon < 1 {
		return fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger().WithField("command", "forecast")

	run, err := c.GetStore().Latest(cmd.Context())
	if errors.Is(err, store.ErrNoRuns) {
		return fmt.Errorf("no stored fit run to forecast from, run 'trendfit fit' first")
	}
	if err != nil {
		return fmt.Errorf("loading latest run: %w", err)
	}

	bundles, err := run.Restore()
	if err != nil {
		return fmt.Errorf("restoring run %s: %w", run.ID, err)
	}
	bundles = filterBundles(bundles, categories)
	if len(categories) > 0 && len(bundles) == 0 {
		return fmt.Errorf("no stored category matches %v", categories)
	}

	points, err := trend.ForecastAll(bundles, fromPeriod, horizon)
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}
	log.Info("Forecast computed",
		logging.F(logging.FieldRunID, run.ID),
		logging.F(logging.FieldCount, len(points)))

	if csvFile != "" {
		if err := internalcommon.WriteForecastsToCSV(points, csvFile, log); err != nil {
			return err
		}
		if outputFile == "" {
			return nil
		}
	}

	data, err := c.GetReportGenerator().GenerateForecast(points, outputFormat)
	if err != nil {
		return fmt.Errorf("failed to render forecast: %w", err)
	}
	return common.WriteOutput(cmd, data, outputFile, log)
}

func filterBundles(bundles []trend.CategoryBundle, names []string) []trend.CategoryBundle {
	if len(names) == 0 {
		return bundles
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	var out []trend.CategoryBundle
	for _, b := range bundles {
		if _, ok := wanted[b.Category]; ok {
			out = append(out, b)
		}
	}
	return out
}
