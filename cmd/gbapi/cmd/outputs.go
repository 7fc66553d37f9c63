package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/generalbioinformatics/gbapi/internal/core/db"
	"github.com/generalbioinformatics/gbapi/internal/core/pipeline"
	"github.com/generalbioinformatics/gbapi/internal/flatten"
	"github.com/generalbioinformatics/gbapi/internal/sequence"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

// outputPath places relative paths under dir.
func outputPath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// readVariables loads query variables from a YAML or JSON file.
func readVariables(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read variables: %w", err)
	}
	vars := map[string]any{}
	if err := yaml.Unmarshal(b, &vars); err != nil {
		return nil, fmt.Errorf("failed to parse variables %s: %w", path, err)
	}
	return vars, nil
}

// readInputs merges identifiers given on the command line with those listed
// one per line in file. Blank lines and lines starting with # are skipped.
func readInputs(ids []string, file string) ([]string, error) {
	out := append([]string(nil), ids...)
	if file == "" {
		return out, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return out, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, rs types.RecordSet) error {
	if path == "" {
		return nil
	}
	err := writeFile(path, func(f *os.File) error {
		return flatten.WriteCSV(f, flatten.Tabulate(rs))
	})
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	logger.Info("wrote records", zap.String("path", path), zap.Int("records", len(rs)))
	return nil
}

func writeFASTA(path string, seqs []types.SequenceRecord) error {
	if path == "" {
		return nil
	}
	if len(seqs) == 0 {
		logger.Warn("no sequences to write", zap.String("path", path))
		return nil
	}
	err := writeFile(path, func(f *os.File) error {
		return sequence.WriteFASTA(f, seqs, sequence.DefaultLineWidth)
	})
	if err != nil {
		return fmt.Errorf("failed to write FASTA: %w", err)
	}
	logger.Info("wrote sequences", zap.String("path", path), zap.Int("sequences", len(seqs)))
	return nil
}

// writeRaw saves response bodies: the body itself for a single unit, a JSON
// array of bodies for a batch.
func writeRaw(path string, units []pipeline.Unit) error {
	if path == "" {
		return nil
	}
	var out []byte
	if len(units) == 1 {
		out = units[0].Raw
	} else {
		bodies := make([]json.RawMessage, len(units))
		for i, u := range units {
			bodies[i] = json.RawMessage(bytes.TrimSpace(u.Raw))
		}
		var err error
		if out, err = json.MarshalIndent(bodies, "", "  "); err != nil {
			return fmt.Errorf("failed to encode responses: %w", err)
		}
	}
	if err := writeFile(path, func(f *os.File) error {
		_, err := f.Write(out)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write raw response: %w", err)
	}
	return nil
}

// archive stores each unit as a run in the database at --db-url.
func archive(ctx context.Context, label, query string, units []pipeline.Unit) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url required with --store")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.MigrateUp(ctx, database); err != nil {
		return fmt.Errorf("failed to migrate archive: %w", err)
	}

	store, err := db.NewStore(database)
	if err != nil {
		return err
	}

	for _, u := range units {
		runLabel := label
		if l := u.Label(); l != "" {
			runLabel = label + " " + l
		}
		id, err := store.SaveRun(ctx, db.Run{
			Label:      runLabel,
			Query:      query,
			Variables:  u.Variables,
			Saturation: u.Result.Saturation,
			Records:    u.Result.Records,
			Sequences:  u.Result.Sequences,
		})
		if err != nil {
			return err
		}
		logger.Info("archived run", zap.String("run_id", string(id)), zap.String("label", runLabel))
	}
	return nil
}
