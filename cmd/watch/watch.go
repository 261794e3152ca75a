// Package watch implements the watch command.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/trendfit/cmd/common"
	"fjacquet/trendfit/cmd/root"
	"fjacquet/trendfit/internal/container"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/scheduler"

	"github.com/spf13/cobra"
)

const refitJob = "refit"

var (
	// schedule overrides watch.schedule when set.
	schedule   string
	runOnStart bool
)

// Cmd represents the watch command
var Cmd = &cobra.Command{
	Use:   "watch [file-or-dir...]",
	Short: "Refit the input periods on a cron schedule",
	Long: `Watch refits the input files or directories on a schedule and saves every run to
the configured model store, until interrupted. The schedule is a five-field cron expression
or a descriptor such as @hourly or "@every 30m"; it defaults to watch.schedule and the inputs
default to watch.input.

Example:
  trendfit watch budget/ --schedule "@every 15m" --run-on-start`,
	RunE: watchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&schedule, "schedule", "s", "", "Cron schedule (overrides watch.schedule)")
	Cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Refit once immediately before waiting for the schedule")
}

func watchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	spec := schedule
	if spec == "" {
		spec = c.GetConfig().Watch.Schedule
	}
	if err := scheduler.ValidateSchedule(spec); err != nil {
		return err
	}

	inputs := common.ResolveInputs(args, c.GetConfig().Watch.Input)
	if len(inputs) == 0 {
		return fmt.Errorf("no input given: pass files or directories, or set watch.input")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Watch(ctx, c, spec, inputs, runOnStart)
}

// Watch schedules refits of inputs and blocks until ctx is done.
func Watch(ctx context.Context, c *container.Container, spec string, inputs []string, runNow bool) error {
	log := c.GetLogger().WithField("command", "watch")
	sched := scheduler.NewScheduler(ctx, log)

	err := sched.Register(refitJob, spec, func(ctx context.Context) error {
		result, err := c.GetRunner().Run(ctx, inputs)
		if err != nil {
			return err
		}
		log.Info("Refit completed",
			logging.F(logging.FieldRunID, result.Run.ID),
			logging.F(logging.FieldCount, len(result.Bundles)))
		return nil
	})
	if err != nil {
		return err
	}

	if runNow {
		// A failed first run is already logged; keep watching.
		_ = sched.RunNow(refitJob)
	}

	sched.Start()
	log.Info("Watching inputs",
		logging.F(logging.FieldSchedule, spec),
		logging.F(logging.FieldCount, len(inputs)))

	<-ctx.Done()
	sched.Stop()
	return nil
}
