package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/redline/internal/prompts"
)

func newRulesCmd(root *rootOptions) *cobra.Command {
	var (
		asJSON   bool
		contract bool
	)

	cmd := &cobra.Command{
		Use:   "rules [id]",
		Short: "List the review rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}

			rules, err := cfg.Analysis.Rules()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				rule, err := prompts.FindRule(rules, args[0])
				if err != nil {
					return err
				}
				rules = []prompts.RuleSpec{rule}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rules, false)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, prompts.RuleTable(rules))
			if contract {
				fmt.Fprintln(out)
				fmt.Fprintln(out, prompts.Contract(cfg.Analysis.RecordKey()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output rules as JSON")
	cmd.Flags().BoolVar(&contract, "contract", false, "also print the output contract")

	return cmd
}
