// Package show implements the show command.
package show

import (
	"errors"
	"fmt"

	"fjacquet/trendfit/cmd/common"
	"fjacquet/trendfit/cmd/root"
	"fjacquet/trendfit/internal/report"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/validation"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	outputFile   string
	listRuns     bool
)

// Cmd represents the show command
var Cmd = &cobra.Command{
	Use:   "show",
	Short: "Show the models of the latest stored fit run",
	Long: `Show prints the model chosen for each category and target by the latest stored
fit run. With --runs it lists the stored runs instead.`,
	Args: cobra.NoArgs,
	RunE: showFunc,
}

func init() {
	Cmd.Flags().StringVarP(&outputFormat, "format", "f", report.FormatTable, "Output format: json, yaml or table")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the output to this file instead of stdout")
	Cmd.Flags().BoolVar(&listRuns, "runs", false, "List stored runs instead of showing the latest one")
}

func showFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(outputFormat); err != nil {
		return err
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger().WithField("command", "show")
	generator := c.GetReportGenerator()

	var data []byte
	if listRuns {
		runs, err := c.GetStore().Runs(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		data, err = generator.GenerateRunList(runs, outputFormat)
		if err != nil {
			return err
		}
	} else {
		run, err := c.GetStore().Latest(cmd.Context())
		if errors.Is(err, store.ErrNoRuns) {
			return fmt.Errorf("no stored fit run, run 'trendfit fit' first")
		}
		if err != nil {
			return fmt.Errorf("loading latest run: %w", err)
		}
		data, err = generator.GenerateReport(report.FromRun(run), outputFormat)
		if err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
	}

	return common.WriteOutput(cmd, data, outputFile, log)
}
