package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// Run is one query execution and everything derived from its response.
type Run struct {
	ID         types.RunID
	Label      string
	Query      string
	Variables  map[string]any
	Saturation types.SaturationReport
	Records    types.RecordSet
	Sequences  []types.SequenceRecord
	CreatedAt  time.Time
}

// RunSummary is the query_runs row of an archived run.
type RunSummary struct {
	ID              string    `db:"run_id"`
	Label           string    `db:"label"`
	Query           string    `db:"query"`
	Variables       string    `db:"variables"`
	Limit           int       `db:"limit_value"`
	Saturated       bool      `db:"saturated"`
	SaturatedFields string    `db:"saturated_fields"`
	RecordCount     int       `db:"record_count"`
	SequenceCount   int       `db:"sequence_count"`
	CreatedAt       time.Time `db:"created_at"`
}

// Fields decodes SaturatedFields, a JSON array of field names.
func (s RunSummary) Fields() ([]string, error) {
	if s.SaturatedFields == "" {
		return nil, nil
	}
	var fields []string
	if err := json.Unmarshal([]byte(s.SaturatedFields), &fields); err != nil {
		return nil, fmt.Errorf("run %s: invalid saturated fields: %w", s.ID, err)
	}
	return fields, nil
}

// Store archives runs.
type Store struct {
	db      *sqlx.DB
	queries *Queries
}

// NewStore wraps an open, migrated connection.
func NewStore(db *sqlx.DB) (*Store, error) {
	q, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, queries: q}, nil
}

// SaveRun writes the run row, every record cell and every sequence in one
// transaction. A zero ID or CreatedAt is filled in; the ID used is returned.
func (s *Store) SaveRun(ctx context.Context, run Run) (types.RunID, error) {
	if run.ID == "" {
		run.ID = types.NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	variables := []byte("{}")
	if len(run.Variables) > 0 {
		var err error
		if variables, err = json.Marshal(run.Variables); err != nil {
			return "", fmt.Errorf("failed to encode variables: %w", err)
		}
	}

	fields := run.Saturation.Fields
	if fields == nil {
		fields = []string{}
	}
	saturatedFields, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode saturated fields: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = s.queries.Exec(ctx, tx, "insert-run",
		string(run.ID), run.Label, run.Query, string(variables),
		run.Saturation.Limit, run.Saturation.Saturated, string(saturatedFields),
		len(run.Records), len(run.Sequences), run.CreatedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for row, rec := range run.Records {
		field := 0
		for key, val := range rec.Fields() {
			_, err := s.queries.Exec(ctx, tx, "insert-record-cell", string(run.ID), row, field, key, val.Literal())
			if err != nil {
				return "", fmt.Errorf("failed to insert record %d field %q: %w", row, key, err)
			}
			field++
		}
	}

	for pos, seq := range run.Sequences {
		if _, err := s.queries.Exec(ctx, tx, "insert-sequence", string(run.ID), pos, seq.ID, seq.Sequence); err != nil {
			return "", fmt.Errorf("failed to insert sequence %s: %w", seq.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// GetRun returns the summary row for id, or types.ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id types.RunID) (RunSummary, error) {
	var summary RunSummary
	err := s.queries.Get(ctx, "get-run", &summary, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", types.ErrRunNotFound, id)
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to load run: %w", err)
	}
	return summary, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []RunSummary
	if err := s.queries.Select(ctx, "list-runs", &runs, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

type recordCell struct {
	Row   int    `db:"row_index"`
	Field int    `db:"field_index"`
	Key   string `db:"key_path"`
	Value string `db:"value_json"`
}

// LoadRecords rebuilds a run's Record Set in its original row and key order.
// Rows that held no fields come back as empty records.
func (s *Store) LoadRecords(ctx context.Context, id types.RunID) (types.RecordSet, error) {
	summary, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	var cells []recordCell
	if err := s.queries.Select(ctx, "select-record-cells", &cells, string(id)); err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	rs := make(types.RecordSet, summary.RecordCount)
	for i := range rs {
		rs[i] = types.NewRecord()
	}
	for _, c := range cells {
		if c.Row < 0 || c.Row >= len(rs) {
			return nil, fmt.Errorf("record cell row %d outside run of %d records", c.Row, len(rs))
		}
		v, err := types.ParseString(c.Value)
		if err != nil {
			return nil, fmt.Errorf("record %d field %q: %w", c.Row, c.Key, err)
		}
		rs[c.Row].Set(c.Key, v)
	}
	return rs, nil
}

type sequenceRow struct {
	Position int    `db:"position"`
	ID       string `db:"sequence_id"`
	Sequence string `db:"sequence"`
}

// LoadSequences returns a run's sequences in extraction order.
func (s *Store) LoadSequences(ctx context.Context, id types.RunID) ([]types.SequenceRecord, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	var rows []sequenceRow
	if err := s.queries.Select(ctx, "select-sequences", &rows, string(id)); err != nil {
		return nil, fmt.Errorf("failed to load sequences: %w", err)
	}

	out := make([]types.SequenceRecord, len(rows))
	for i, r := range rows {
		out[i] = types.SequenceRecord{ID: r.ID, Sequence: r.Sequence}
	}
	return out, nil
}
