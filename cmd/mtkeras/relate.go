package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mtkeras/internal/domain"
	"mtkeras/internal/relation"
)

var (
	relateCmd = &cobra.Command{
		Use:   "relate",
		Short: "Evaluate an output relation over precomputed oracle outputs",
		Long: `Evaluate an output relation over two JSON arrays of oracle outputs,
aligned by position. complete and difference also need --aux.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readOutputs(*relateSource)
			if err != nil {
				return err
			}
			fu, err := readOutputs(*relateFollowUp)
			if err != nil {
				return err
			}
			var aux []domain.Output
			if *relateAux != "" {
				if aux, err = readOutputs(*relateAux); err != nil {
					return err
				}
			}
			rel, err := relation.New(*relateName, aux)
			if err != nil {
				return err
			}
			rep, err := relation.Evaluate(rel, src, fu)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, rep)
			if rep.Count() > 0 {
				fmt.Fprintln(w, "violating indices:", rep.Violations)
			}
			return nil
		},
	}
	relateName     *string
	relateSource   *string
	relateFollowUp *string
	relateAux      *string
)

func init() {
	relateName = relateCmd.Flags().StringP("relation", "r", relation.NameEquality, fmt.Sprintf("Relation, one of %v", relation.Names()))
	relateSource = relateCmd.Flags().String("source", "", "JSON array of source outputs")
	relateFollowUp = relateCmd.Flags().String("followup", "", "JSON array of follow-up outputs")
	relateAux = relateCmd.Flags().String("aux", "", "JSON array of auxiliary outputs (complete, difference)")
	_ = relateCmd.MarkFlagRequired("source")
	_ = relateCmd.MarkFlagRequired("followup")
	rootCmd.AddCommand(relateCmd)
}

func readOutputs(path string) ([]domain.Output, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []domain.Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
