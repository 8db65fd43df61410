package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/redline/internal/analyses"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/internal/workflow"
	"github.com/JaimeStill/redline/pkg/cache"
)

type analyzeOptions struct {
	model     string
	language  string
	pages     int
	chunkSize int
	summary   bool
	compact   bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Analyze extracted document text",
		Long: `Analyze reads plain text from a file, or from stdin when the argument is "-",
runs the review workflow, and prints the analysis result as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "logical model key to use")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "response language")
	cmd.Flags().IntVarP(&opts.pages, "pages", "p", 0, "total page count reported in the result")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "maximum characters per chunk")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print finding counts instead of findings")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print JSON without indentation")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, source string) error {
	if opts.pages < 0 {
		return fmt.Errorf("invalid --pages: %d", opts.pages)
	}
	if opts.chunkSize < 0 {
		return fmt.Errorf("invalid --chunk-size: %d", opts.chunkSize)
	}

	text, filename, err := readSource(cmd, source)
	if err != nil {
		return err
	}

	cfg, err := root.load()
	if err != nil {
		return err
	}

	if opts.chunkSize > 0 {
		cfg.Analysis.ChunkSize = opts.chunkSize
		cfg.Analysis.EmbedLimit = min(cfg.Analysis.EmbedLimit, opts.chunkSize)
	}

	rules, err := cfg.Analysis.Rules()
	if err != nil {
		return err
	}

	infra := infrastructure.NewWithLogger(cfg, root.logger(cmd))
	rt := infra.Workflow(&cfg.Analysis, rules)

	result, err := workflow.Execute(cmd.Context(), rt, workflow.Document{
		Filename:   filename,
		Text:       text,
		TotalPages: opts.pages,
		Language:   opts.language,
		Model:      opts.model,
	})
	if err != nil {
		return err
	}

	var out any = result
	if opts.summary {
		out = analyses.Summarize(*result, cache.DefaultTTL)
	}
	return writeJSON(cmd.OutOrStdout(), out, opts.compact)
}

func readSource(cmd *cobra.Command, source string) (text, filename string, err error) {
	var data []byte
	if source == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		filename = "stdin"
	} else {
		data, err = os.ReadFile(source)
		filename = filepath.Base(source)
	}
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), filename, nil
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
