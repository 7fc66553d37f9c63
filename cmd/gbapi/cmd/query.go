package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/generalbioinformatics/gbapi/internal/core/auth"
	"github.com/generalbioinformatics/gbapi/internal/core/graphql"
	"github.com/generalbioinformatics/gbapi/internal/core/pipeline"
	"github.com/generalbioinformatics/gbapi/internal/report"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a GraphQL query template against the Ceres API",
	Long: `Runs the query template, checks list fields against the limit, flattens the
response and extracts sequences. With --input or --input-file the identifiers
are sent in batches through the "input" variable.`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().String("query", "", "path to a .graphql query template (required)")
	queryCmd.Flags().String("variables", "", "YAML or JSON file of query variables")
	queryCmd.Flags().StringSlice("input", nil, "identifiers for the input variable (repeatable)")
	queryCmd.Flags().String("input-file", "", "file of identifiers, one per line")
	queryCmd.Flags().Int("limit", 100, "query limit (also the saturation threshold)")
	queryCmd.Flags().Int("offset", 0, "query offset")
	queryCmd.Flags().String("csv", "", "write flattened records to this CSV file")
	queryCmd.Flags().String("fasta", "", "write extracted sequences to this FASTA file")
	queryCmd.Flags().String("raw", "", "write the raw JSON response to this file")
	queryCmd.Flags().Bool("store", false, "archive the run to --db-url")
	_ = queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireEndpoint(); err != nil {
		return err
	}

	queryPath, _ := cmd.Flags().GetString("query")
	varsPath, _ := cmd.Flags().GetString("variables")
	ids, _ := cmd.Flags().GetStringSlice("input")
	inputFile, _ := cmd.Flags().GetString("input-file")

	query, err := graphql.ReadTemplate(queryPath)
	if err != nil {
		return err
	}
	vars, err := readVariables(varsPath)
	if err != nil {
		return err
	}
	inputs, err := readInputs(ids, inputFile)
	if err != nil {
		return err
	}

	httpClient, err := auth.HTTPClient(ctx, cfg.Token, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	client := graphql.NewClient(cfg.GraphQLURL, httpClient, logger)

	opts := pipeline.Options{
		Query:     query,
		Variables: vars,
		Limit:     cfg.Limit,
		Offset:    cfg.Offset,
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
	}

	var units []pipeline.Unit
	if len(inputs) > 0 {
		logger.Info("running batched query",
			zap.String("query", queryPath),
			zap.Int("inputs", len(inputs)),
			zap.Int("batch_size", cfg.BatchSize),
			zap.Int("workers", cfg.Workers))
		units, err = pipeline.Batch(ctx, client, inputs, opts)
	} else {
		var u pipeline.Unit
		u, err = pipeline.RunOne(ctx, client, opts)
		units = []pipeline.Unit{u}
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	return finish(ctx, cmd, filepath.Base(queryPath), query, units, cfg.OutputDir)
}

// finish reports every unit and writes the requested outputs.
func finish(ctx context.Context, cmd *cobra.Command, label, query string, units []pipeline.Unit, outputDir string) error {
	reporter := report.New(logger)
	for _, u := range units {
		reporter.Outcome(u.Label(), u.Result.Saturation, u.Result.Records, u.Result.Found)
	}

	records, seqs := pipeline.Merge(units)
	if len(units) > 1 {
		logger.Info("batch complete",
			zap.Int("units", len(units)),
			zap.Int("records", len(records)),
			zap.Int("sequences", len(seqs)))
	}

	csvPath, _ := cmd.Flags().GetString("csv")
	fastaPath, _ := cmd.Flags().GetString("fasta")
	if err := writeCSV(outputPath(outputDir, csvPath), records); err != nil {
		return err
	}
	if err := writeFASTA(outputPath(outputDir, fastaPath), seqs); err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("raw"); f != nil {
		if err := writeRaw(outputPath(outputDir, f.Value.String()), units); err != nil {
			return err
		}
	}

	if store, _ := cmd.Flags().GetBool("store"); store {
		if err := archive(ctx, label, query, units); err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
	}
	return nil
}
