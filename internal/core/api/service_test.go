package api

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func newService(t *testing.T) *FlattenService {
	t.Helper()
	svc, err := NewFlattenService(100, nil)
	if err != nil {
		t.Fatalf("NewFlattenService() error = %v", err)
	}
	return svc
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("structpb.NewStruct() error = %v", err)
	}
	return s
}

func TestFlattenService_Flatten(t *testing.T) {
	svc := newService(t)
	resp, err := svc.Flatten(context.Background(), request(t, map[string]any{
		"json": `{"id": "X", "items": [{"n": 1}, {"n": 2}], "extra": {"m": null}}`,
	}))
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}

	got := resp.AsMap()
	wantColumns := []any{"id", "items.n", "extra.m"}
	if diff := cmp.Diff(wantColumns, got["columns"]); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	wantRecords := []any{
		map[string]any{"id": "X", "items.n": float64(1), "extra.m": nil},
		map[string]any{"id": "X", "items.n": float64(2), "extra.m": nil},
	}
	if diff := cmp.Diff(wantRecords, got["records"]); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if got["empty"] != false {
		t.Errorf("empty = %v, want false", got["empty"])
	}
}

func TestFlattenService_CheckSaturation(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name          string
		fields        map[string]any
		wantSaturated bool
		wantFields    []any
	}{
		{
			name: "two fields at limit",
			fields: map[string]any{
				"json":  `{"x": [{}, {}], "y": [{}, {}], "z": [{}]}`,
				"limit": 2,
			},
			wantSaturated: true,
			wantFields:    []any{"x", "y"},
		},
		{
			name: "one field at limit",
			fields: map[string]any{
				"json":  `{"x": [{}, {}], "z": [{}]}`,
				"limit": 2,
			},
			wantSaturated: false,
			wantFields:    []any{"x"},
		},
		{
			name:          "default limit",
			fields:        map[string]any{"json": `{"x": [{}, {}], "y": [{}, {}]}`},
			wantSaturated: false,
			wantFields:    []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.CheckSaturation(context.Background(), request(t, tt.fields))
			if err != nil {
				t.Fatalf("CheckSaturation() error = %v", err)
			}
			got := resp.AsMap()
			if got["saturated"] != tt.wantSaturated {
				t.Errorf("saturated = %v, want %v", got["saturated"], tt.wantSaturated)
			}
			if diff := cmp.Diff(tt.wantFields, got["fields"]); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
			if got["message"] == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestFlattenService_ExtractSequences(t *testing.T) {
	svc := newService(t)
	resp, err := svc.ExtractSequences(context.Background(), request(t, map[string]any{
		"json": `{"data": {"result": [
			{"sequence": {"header": "P1", "sequence": "MKT"}},
			{"sequence": {"header": "P2", "sequence": "MVL"}},
			{"sequence": {"header": "P1", "sequence": "MKTA"}}
		]}}`,
	}))
	if err != nil {
		t.Fatalf("ExtractSequences() error = %v", err)
	}

	got := resp.AsMap()
	want := []any{
		map[string]any{"id": "P1", "sequence": "MKTA"},
		map[string]any{"id": "P2", "sequence": "MVL"},
	}
	if diff := cmp.Diff(want, got["sequences"]); diff != "" {
		t.Errorf("sequences mismatch (-want +got):\n%s", diff)
	}
	if got["found"] != float64(2) {
		t.Errorf("found = %v, want 2", got["found"])
	}
}

func TestFlattenService_InvalidArgument(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{name: "missing json", fields: map[string]any{}},
		{name: "json not a string", fields: map[string]any{"json": 12}},
		{name: "malformed json", fields: map[string]any{"json": `{"a": `}},
		{name: "top-level list", fields: map[string]any{"json": `[{"a": 1}]`}},
		{name: "list of scalars", fields: map[string]any{"json": `{"ids": ["a", "b"]}`}},
		{name: "bad limit", fields: map[string]any{"json": `{}`, "limit": -3}},
		{name: "fractional limit", fields: map[string]any{"json": `{}`, "limit": 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Flatten(context.Background(), request(t, tt.fields))
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("Flatten() code = %s, want InvalidArgument (err %v)", status.Code(err), err)
			}
		})
	}
}

func TestNewFlattenService_RejectsLimit(t *testing.T) {
	if _, err := NewFlattenService(0, nil); err == nil {
		t.Error("expected error for zero default limit")
	}
}
