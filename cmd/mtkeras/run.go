package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mtkeras/internal/engine"
)

var (
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Transform, query the oracle and evaluate the relation of a run plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, engine.Config{PlanPath: *runPlan, MetricsPort: *metricsPort, Out: cmd.OutOrStdout()})
		},
	}
	runPlan     *string
	metricsPort *int
)

func init() {
	runPlan = runCmd.Flags().String("plan", "plan.yml", "Run plan file")
	metricsPort = runCmd.Flags().Int("metrics-port", 0, "Serve Prometheus /metrics on this port, 0 disables")
	rootCmd.AddCommand(runCmd)
}

func run(ctx context.Context, cfg engine.Config) error {
	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()
	_, err = e.Run(ctx)
	return err
}
