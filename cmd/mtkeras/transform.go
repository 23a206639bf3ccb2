package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"mtkeras/internal/domain"
	"mtkeras/internal/engine"
)

var (
	transformCmd = &cobra.Command{
		Use:   "transform",
		Short: "Write the follow-up test set of a run plan without consulting an oracle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine.Bootstrap(context.Background(), engine.Config{PlanPath: *transformPlan, Out: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			defer e.Close()
			ds, err := e.FollowUp()
			if err != nil {
				return err
			}
			raw, err := domain.Encode(ds)
			if err != nil {
				return err
			}
			if *transformOut == "" || *transformOut == "-" {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			return os.WriteFile(*transformOut, raw, 0o644)
		},
	}
	transformPlan *string
	transformOut  *string
)

func init() {
	transformPlan = transformCmd.Flags().String("plan", "plan.yml", "Run plan file")
	transformOut = transformCmd.Flags().StringP("out", "o", "-", "Output file for the follow-up set, - for stdout")
	rootCmd.AddCommand(transformCmd)
}
