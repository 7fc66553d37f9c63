package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/generalbioinformatics/gbapi/internal/core/pipeline"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten FILE",
	Short: "Run the saturation check, flattener and sequence extractor over a saved JSON response",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().Int("limit", 100, "limit the response was queried with")
	flattenCmd.Flags().String("csv", "", "write flattened records to this CSV file")
	flattenCmd.Flags().String("fasta", "", "write extracted sequences to this FASTA file")
	flattenCmd.Flags().Bool("store", false, "archive the result to --db-url")
}

func runFlatten(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	doc, err := types.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	res, err := pipeline.Process(doc, cfg.Limit)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	unit := pipeline.Unit{
		Variables: map[string]any{pipeline.VarLimit: cfg.Limit},
		Raw:       raw,
		Result:    res,
	}
	return finish(context.Background(), cmd, filepath.Base(args[0]), "", []pipeline.Unit{unit}, cfg.OutputDir)
}
