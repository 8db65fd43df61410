package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/redline/internal/api"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/pkg/openapi"
)

func newOpenAPICmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the HTTP API's OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}

			rules, err := cfg.Analysis.Rules()
			if err != nil {
				return err
			}

			infra := infrastructure.NewWithLogger(cfg, root.logger(cmd))
			runtime := api.NewRuntime(cfg, infra, rules)
			domain := api.NewDomain(runtime, cfg.Analysis.RecordKey())
			spec := api.NewSpec(cfg, api.Groups(domain, cfg)...)

			if output == "" || output == "-" {
				return openapi.Write(cmd.OutOrStdout(), spec)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			if err := openapi.Write(f, spec); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")

	return cmd
}
