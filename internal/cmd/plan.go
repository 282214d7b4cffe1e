package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/triplog/internal/app"
	"github.com/okian/triplog/internal/config"
	"github.com/okian/triplog/internal/domain/schedule"
	"github.com/okian/triplog/pkg/logger"
)

const planTimeLayout = "Mon 2006-01-02 15:04:05 MST"

var planSeed int64

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print one scheduling pass without recording anything",
	Long: `Select a trip and derive its visit times exactly as "run" would,
then print them. Nothing is queued or sent.

Example:
  triplog plan --config trips.yaml
  triplog plan --config trips.yaml --seed 7`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "random seed; 0 draws a fresh one (default: config seed)")
}

// applyPlanFlags lets an explicit --seed, zero included, win over the config.
func applyPlanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = planSeed
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	applyPlanFlags(cmd, cfg)
	svc := service.New(
		service.WithTrips(catalog.Trips),
		service.WithClock(schedule.SystemClock{Location: loc}),
		service.WithSeed(cfg.Seed),
		service.WithLogger(logger.Named("service")),
	)

	trip, events, err := svc.Plan(ctx)
	if err != nil {
		return err
	}

	u := newUI()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, u.Header("Trip plan"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, u.KeyValue("Trip", trip))
	fmt.Fprintln(out, u.KeyValue("Seed", strconv.FormatUint(svc.Seed(), 10)))
	fmt.Fprintln(out, u.KeyValue("Timezone", loc.String()))
	fmt.Fprintln(out)
	for _, e := range events {
		fmt.Fprintln(out, u.EventRow(e, planTimeLayout))
	}
	if len(events) > 0 {
		last := events[len(events)-1].FireTime
		fmt.Fprintln(out)
		fmt.Fprintln(out, u.Muted(fmt.Sprintf("next trip selected in %s", time.Until(last).Round(time.Minute))))
	}
	return nil
}
