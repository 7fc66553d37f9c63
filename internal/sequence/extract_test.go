package sequence

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/generalbioinformatics/gbapi/internal/flatten"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

func record(kv ...any) types.Record {
	r := types.NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1].(types.Value))
	}
	return r
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		records  types.RecordSet
		expected []types.SequenceRecord
	}{
		{
			name: "single sequence",
			records: types.RecordSet{
				record("result.sequence.header", types.String("C3TIE2"), "result.sequence.sequence", types.String("MKT...")),
			},
			expected: []types.SequenceRecord{{ID: "C3TIE2", Sequence: "MKT..."}},
		},
		{
			name: "duplicate identifier keeps last sequence",
			records: types.RecordSet{
				record("r.sequence.header", types.String("P1"), "r.sequence.sequence", types.String("AAA")),
				record("r.sequence.header", types.String("P2"), "r.sequence.sequence", types.String("CCC")),
				record("r.sequence.header", types.String("P1"), "r.sequence.sequence", types.String("GGG")),
			},
			expected: []types.SequenceRecord{
				{ID: "P1", Sequence: "GGG"},
				{ID: "P2", Sequence: "CCC"},
			},
		},
		{
			name: "substring match on full path",
			records: types.RecordSet{
				record("data.protein.sequence.header_v2", types.String("Q9"), "data.protein.sequence.sequence", types.String("MV")),
			},
			expected: []types.SequenceRecord{{ID: "Q9", Sequence: "MV"}},
		},
		{
			name: "last matching key in a record wins",
			records: types.RecordSet{
				record(
					"a.sequence.header", types.String("first"),
					"a.sequence.sequence", types.String("AAA"),
					"b.sequence.header", types.String("second"),
				),
			},
			expected: []types.SequenceRecord{{ID: "second", Sequence: "AAA"}},
		},
		{
			name: "numeric identifier is stringified",
			records: types.RecordSet{
				record("x.sequence.header", types.Int(42), "x.sequence.sequence", types.String("ACGT")),
			},
			expected: []types.SequenceRecord{{ID: "42", Sequence: "ACGT"}},
		},
		{
			name: "empty identifier skipped",
			records: types.RecordSet{
				record("x.sequence.header", types.Null(), "x.sequence.sequence", types.String("ACGT")),
				record("x.sequence.header", types.String(""), "x.sequence.sequence", types.String("ACGT")),
			},
			expected: nil,
		},
		{
			name: "only one marker present",
			records: types.RecordSet{
				record("x.sequence.header", types.String("P1")),
				record("y.sequence.sequence", types.String("MMM")),
			},
			expected: nil,
		},
		{
			name:     "no records",
			records:  nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, result := Extract(tt.records)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
			if result.Found != len(tt.expected) {
				t.Errorf("Found = %d, want %d", result.Found, len(tt.expected))
			}
		})
	}
}

func TestExtract_CustomMarkers(t *testing.T) {
	rs := types.RecordSet{
		record("gene.nt.name", types.String("BRCA1"), "gene.nt.bases", types.String("ATG")),
	}
	got, result := NewExtractor(Markers{Value: "nt.bases", ID: "nt.name"}).Extract(rs)
	if result.Found != 1 || got[0].ID != "BRCA1" || got[0].Sequence != "ATG" {
		t.Errorf("Extract() = %+v, %+v", got, result)
	}
}

func TestExtract_FromFlattenedResponse(t *testing.T) {
	v := types.MustParse(`{
		"data": {
			"uniprot": [
				{"accession": "C3TIE2", "sequence": {"header": "C3TIE2", "sequence": "MKTAYIAKQR"},
				 "features": [{"type": "domain"}, {"type": "site"}]},
				{"accession": "P69905", "sequence": {"header": "P69905", "sequence": "MVLSPADKTN"},
				 "features": []}
			]
		}
	}`)
	rs, err := flatten.Flatten(v)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if len(rs) != 3 {
		t.Fatalf("Flatten() produced %d records, want 3", len(rs))
	}

	got, result := Extract(rs)
	want := []types.SequenceRecord{
		{ID: "C3TIE2", Sequence: "MKTAYIAKQR"},
		{ID: "P69905", Sequence: "MVLSPADKTN"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
	if result.Found != 2 {
		t.Errorf("Found = %d, want 2", result.Found)
	}
}
