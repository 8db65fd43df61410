package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/redline/internal/config"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "redline",
		Short: "Review document text against requirement rules",
		Long: `Redline splits extracted document text into chunks, asks a reasoning
service to flag rule violations in each chunk, and prints the merged findings.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", config.BaseConfigFile, "path to the base config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log workflow progress to stderr")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newRulesCmd(opts),
		newOpenAPICmd(opts),
		newVersionCmd(),
	)

	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	var w io.Writer = io.Discard
	if o.verbose {
		w = cmd.ErrOrStderr()
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redline version %s\n", version)
		},
	}
}
