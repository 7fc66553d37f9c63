// Package sequence recovers biological sequence records from flattened query
// results and reads/writes them as FASTA.
package sequence

import (
	"strings"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// Markers name the key-path fragments that identify a sequence's residues and
// its identifier.
type Markers struct {
	Value string
	ID    string
}

// DefaultMarkers match the Ceres sequence object ({header, sequence}).
var DefaultMarkers = Markers{
	Value: "sequence.sequence",
	ID:    "sequence.header",
}

// Result summarizes an extraction. Found == 0 is the "no sequences" condition.
type Result struct {
	Found int
}

// Extractor scans flat records for sequence fields.
type Extractor struct {
	markers Markers
}

// NewExtractor returns an extractor using markers.
func NewExtractor(markers Markers) *Extractor {
	return &Extractor{markers: markers}
}

// Extract runs the default extractor over rs.
func Extract(rs types.RecordSet) ([]types.SequenceRecord, Result) {
	return NewExtractor(DefaultMarkers).Extract(rs)
}

// Extract returns one SequenceRecord per distinct identifier, in the order
// identifiers were first seen. A later record with the same identifier
// replaces the sequence. Returns nil when nothing matched.
//
// A record qualifies when its key set contains both markers as substrings of
// the full dotted key path. This is looser than matching the final segments:
// "data.sequence.sequence_length" also contains "sequence.sequence", and when
// several keys match the last one in the record wins.
func (e *Extractor) Extract(rs types.RecordSet) ([]types.SequenceRecord, Result) {
	var order []string
	byID := make(map[string]string)

	for _, rec := range rs {
		id, seq, ok := e.match(rec)
		if !ok {
			continue
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = seq
	}

	if len(order) == 0 {
		return nil, Result{}
	}

	out := make([]types.SequenceRecord, len(order))
	for i, id := range order {
		out[i] = types.SequenceRecord{ID: id, Sequence: byID[id]}
	}
	return out, Result{Found: len(out)}
}

// match pulls (identifier, sequence) from rec. Records with a null or empty
// identifier are skipped.
func (e *Extractor) match(rec types.Record) (id, seq string, ok bool) {
	var idVal, seqVal types.Value
	var hasID, hasSeq bool
	for key, val := range rec.Fields() {
		if strings.Contains(key, e.markers.Value) {
			seqVal, hasSeq = val, true
		}
		if strings.Contains(key, e.markers.ID) {
			idVal, hasID = val, true
		}
	}
	if !hasID || !hasSeq {
		return "", "", false
	}
	id = idVal.Text()
	if id == "" {
		return "", "", false
	}
	return id, seqVal.Text(), true
}
