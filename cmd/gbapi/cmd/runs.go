package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/generalbioinformatics/gbapi/internal/core/db"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse archived query runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsExportCmd = &cobra.Command{
	Use:   "export RUN_ID",
	Short: "Write an archived run's records and sequences to files",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsExportCmd)

	runsListCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	runsExportCmd.Flags().String("csv", "", "write records to this CSV file (required)")
	runsExportCmd.Flags().String("fasta", "", "write sequences to this FASTA file")
	_ = runsExportCmd.MarkFlagRequired("csv")
}

func openStore() (*db.Store, func(), error) {
	if dbURL == "" {
		return nil, nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return nil, nil, err
	}
	store, err := db.NewStore(database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return store, func() { database.Close() }, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tLABEL\tRECORDS\tSEQUENCES\tSATURATED")
	for _, r := range runs {
		saturated := "no"
		if r.Saturated {
			fields, err := r.Fields()
			if err != nil {
				return err
			}
			saturated = strings.Join(fields, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.Label, r.RecordCount, r.SequenceCount, saturated)
	}
	return w.Flush()
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	id, err := types.ParseRunID(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	store, closeFn, err := openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	records, err := store.LoadRecords(ctx, id)
	if err != nil {
		return err
	}
	seqs, err := store.LoadSequences(ctx, id)
	if err != nil {
		return err
	}

	csvPath, _ := cmd.Flags().GetString("csv")
	fastaPath, _ := cmd.Flags().GetString("fasta")
	if err := writeCSV(csvPath, records); err != nil {
		return err
	}
	return writeFASTA(fastaPath, seqs)
}
