package flatten

import (
	"iter"
	"sort"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// CheckSaturation compares every list length in v against limit.
//
// A list whose length equals the limit may have been truncated by the server.
// One such field is treated as coincidence; the report is only Saturated when
// two or more distinct field names sit exactly at the limit.
func CheckSaturation(v types.Value, limit int) types.SaturationReport {
	return CheckSaturationCounts(FieldCounts(v), limit)
}

// CheckSaturationCounts is CheckSaturation over precomputed counts.
func CheckSaturationCounts(counts iter.Seq[types.FieldCount], limit int) types.SaturationReport {
	report := types.SaturationReport{Limit: limit}
	seen := make(map[string]struct{})
	for fc := range counts {
		if fc.Count != limit {
			continue
		}
		report.Matches++
		if _, ok := seen[fc.Field]; ok {
			continue
		}
		seen[fc.Field] = struct{}{}
		report.Fields = append(report.Fields, fc.Field)
	}
	sort.Strings(report.Fields)
	report.Saturated = len(report.Fields) > 1
	return report
}
