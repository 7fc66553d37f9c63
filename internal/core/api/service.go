// Package api exposes the flatten, saturation and sequence operations as the
// gbapi.v1.FlattenService gRPC service.
//
// Messages are google.protobuf.Struct so the service needs no generated code.
// Requests carry the JSON document as a string under "json" to keep mapping
// order intact; Struct fields are unordered.
package api

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/generalbioinformatics/gbapi/internal/flatten"
	"github.com/generalbioinformatics/gbapi/internal/sequence"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

// FlattenServer is the server API for gbapi.v1.FlattenService.
type FlattenServer interface {
	Flatten(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckSaturation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExtractSequences(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FlattenService implements FlattenServer over the core packages.
type FlattenService struct {
	defaultLimit int
	logger       *zap.Logger
}

var _ FlattenServer = (*FlattenService)(nil)

// NewFlattenService creates the service. defaultLimit applies when a request
// has no "limit" field.
func NewFlattenService(defaultLimit int, logger *zap.Logger) (*FlattenService, error) {
	if defaultLimit <= 0 {
		return nil, fmt.Errorf("default limit must be > 0, got %d", defaultLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlattenService{defaultLimit: defaultLimit, logger: logger}, nil
}

// Flatten returns {columns, records, empty}.
func (s *FlattenService) Flatten(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	doc, _, err := s.decode(req)
	if err != nil {
		return nil, err
	}

	rs, err := flatten.Flatten(doc)
	if err != nil {
		return nil, toStatus(err)
	}

	table := flatten.Tabulate(rs)
	records := make([]any, len(rs))
	for i, rec := range rs {
		row := make(map[string]any, rec.Len())
		for k, v := range rec.Fields() {
			row[k] = v.Interface()
		}
		records[i] = row
	}

	return newStruct(map[string]any{
		"columns": stringList(table.Columns),
		"records": records,
		"empty":   rs.Empty(),
	})
}

// CheckSaturation returns the saturation report plus the raw field counts.
func (s *FlattenService) CheckSaturation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	doc, limit, err := s.decode(req)
	if err != nil {
		return nil, err
	}

	counts := flatten.CollectFieldCounts(doc)
	rep := flatten.CheckSaturationCounts(slices.Values(counts), limit)

	countList := make([]any, len(counts))
	for i, c := range counts {
		countList[i] = map[string]any{"field": c.Field, "count": c.Count}
	}

	if rep.Saturated {
		s.logger.Debug("saturated request", zap.Strings("fields", rep.Fields), zap.Int("limit", limit))
	}

	return newStruct(map[string]any{
		"saturated": rep.Saturated,
		"fields":    stringList(rep.Fields),
		"limit":     rep.Limit,
		"matches":   rep.Matches,
		"message":   rep.Message(),
		"counts":    countList,
	})
}

// ExtractSequences flattens the document and returns {sequences, found}.
func (s *FlattenService) ExtractSequences(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	doc, _, err := s.decode(req)
	if err != nil {
		return nil, err
	}

	rs, err := flatten.Flatten(doc)
	if err != nil {
		return nil, toStatus(err)
	}

	seqs, res := sequence.Extract(rs)
	list := make([]any, len(seqs))
	for i, sr := range seqs {
		list[i] = map[string]any{"id": sr.ID, "sequence": sr.Sequence}
	}

	return newStruct(map[string]any{
		"sequences": list,
		"found":     res.Found,
	})
}

// decode pulls the JSON document and limit out of a request.
func (s *FlattenService) decode(req *structpb.Struct) (types.Value, int, error) {
	fields := req.GetFields()

	raw, ok := fields["json"]
	if !ok {
		return types.Value{}, 0, invalidArgument("json field required")
	}
	text, ok := raw.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return types.Value{}, 0, invalidArgument("json field must be a string")
	}

	doc, err := types.ParseString(text.StringValue)
	if err != nil {
		return types.Value{}, 0, toStatus(err)
	}

	limit := s.defaultLimit
	if l, ok := fields["limit"]; ok {
		n, ok := l.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue <= 0 || n.NumberValue != float64(int(n.NumberValue)) {
			return types.Value{}, 0, invalidArgument("limit must be a positive integer")
		}
		limit = int(n.NumberValue)
	}

	return doc, limit, nil
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, internalError(err)
	}
	return out, nil
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
