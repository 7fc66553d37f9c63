// Package pipeline runs the per-response steps (saturation check, flatten,
// sequence extraction) and fans identifier batches out over a bounded
// worker pool.
package pipeline

import (
	"context"
	"fmt"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/generalbioinformatics/gbapi/internal/core/graphql"
	"github.com/generalbioinformatics/gbapi/internal/flatten"
	"github.com/generalbioinformatics/gbapi/internal/sequence"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

// Variable names the Ceres query templates expect.
const (
	VarInput  = "input"
	VarLimit  = "limit"
	VarOffset = "offset"
)

// Result is everything derived from one response.
type Result struct {
	Saturation types.SaturationReport
	Records    types.RecordSet
	Sequences  []types.SequenceRecord
	Found      sequence.Result
}

// Process runs the three core steps over a parsed response. The saturation
// check sees the raw document; extraction sees the flattened records.
func Process(v types.Value, limit int) (Result, error) {
	sat := flatten.CheckSaturation(v, limit)

	rs, err := flatten.Flatten(v)
	if err != nil {
		return Result{Saturation: sat}, err
	}

	seqs, found := sequence.Extract(rs)
	return Result{
		Saturation: sat,
		Records:    rs,
		Sequences:  seqs,
		Found:      found,
	}, nil
}

// Querier executes one GraphQL query. *graphql.Client satisfies it.
type Querier interface {
	Run(ctx context.Context, query string, variables map[string]any) (*graphql.Response, error)
}

// Options control a query run.
type Options struct {
	Query     string
	Variables map[string]any // template variables; input/limit/offset are overwritten
	Limit     int
	Offset    int
	Workers   int
	BatchSize int
}

// Unit is one executed request: a chunk of inputs (or none, for a single
// unbatched query) and what came back.
type Unit struct {
	Index     int
	Inputs    []string
	Variables map[string]any
	Raw       []byte
	Result    Result
}

// Label names the unit for reporting.
func (u Unit) Label() string {
	if len(u.Inputs) == 0 {
		return ""
	}
	return fmt.Sprintf("batch %d (%d inputs)", u.Index+1, len(u.Inputs))
}

// RunOne executes the query once with opts.Variables plus limit and offset.
func RunOne(ctx context.Context, q Querier, opts Options) (Unit, error) {
	return runUnit(ctx, q, opts, 0, nil)
}

// Batch splits inputs into chunks of opts.BatchSize and runs one request per
// chunk, at most opts.Workers at a time. Units come back in chunk order. The
// first failure cancels the remaining requests and is returned.
func Batch(ctx context.Context, q Querier, inputs []string, opts Options) ([]Unit, error) {
	chunks := Chunk(inputs, opts.BatchSize)
	units := make([]Unit, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))

	for i, chunk := range chunks {
		g.Go(func() error {
			u, err := runUnit(gctx, q, opts, i, chunk)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			units[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk(items []string, size int) [][]string {
	if size <= 0 {
		size = len(items)
	}
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end:end])
	}
	return out
}

func runUnit(ctx context.Context, q Querier, opts Options, index int, inputs []string) (Unit, error) {
	vars := make(map[string]any, len(opts.Variables)+3)
	maps.Copy(vars, opts.Variables)
	if inputs != nil {
		vars[VarInput] = inputs
	}
	vars[VarLimit] = opts.Limit
	vars[VarOffset] = opts.Offset

	resp, err := q.Run(ctx, opts.Query, vars)
	if err != nil {
		return Unit{}, err
	}

	res, err := Process(resp.Value, opts.Limit)
	if err != nil {
		return Unit{}, err
	}

	return Unit{
		Index:     index,
		Inputs:    inputs,
		Variables: vars,
		Raw:       resp.Raw,
		Result:    res,
	}, nil
}

// Merge concatenates the records and sequences of units in order. Sequences
// are de-duplicated by identifier across units, last write wins, matching
// what a single extraction over all records would produce.
func Merge(units []Unit) (types.RecordSet, []types.SequenceRecord) {
	var rs types.RecordSet
	var seqs []types.SequenceRecord
	pos := map[string]int{}

	for _, u := range units {
		rs = append(rs, u.Result.Records...)
		for _, s := range u.Result.Sequences {
			if i, ok := pos[s.ID]; ok {
				seqs[i] = s
				continue
			}
			pos[s.ID] = len(seqs)
			seqs = append(seqs, s)
		}
	}
	return rs, seqs
}
