// internal/flatten/flatten.go
package flatten

import (
	"github.com/generalbioinformatics/gbapi/internal/types"
)

/*
 * Relational "unnesting" of a JSON mapping into flat records.
 *
 * Each recursion level runs two passes over the mapping's entries:
 *   1. Scalar pass: every scalar entry is added, at its dotted key path, to a
 *      copy of every record in the working set. Row count is unchanged.
 *   2. Structural pass (entry order):
 *        - empty list: skipped, contributes nothing
 *        - list: every item is flattened against the working set and the
 *          results are concatenated (fan-out; N items x M rows)
 *        - mapping: flattened against the working set, result replaces it
 *
 * The working set is threaded through explicitly and returned; records are
 * cloned before being extended, never modified in place. Output order follows
 * mapping insertion order and list element order only. Every record in the
 * returned set owns its storage.
 */

// Flatten returns one flat record per combination of list elements in v.
// Returns ErrInvalidInputKind if v, or any list item reached during the walk,
// is not a mapping. An empty result is not an error; callers check
// RecordSet.Empty to report the no-data condition.
func Flatten(v types.Value) (types.RecordSet, error) {
	return flattenMapping(v, nil, nil)
}

// flattenMapping flattens m against the incoming working set. A nil or empty
// working set starts from a single empty record.
func flattenMapping(m types.Value, working types.RecordSet, path types.KeyPath) (types.RecordSet, error) {
	if err := requireMapping(m, path); err != nil {
		return nil, err
	}
	if len(working) == 0 {
		working = types.RecordSet{types.NewRecord()}
	}

	working = withScalars(working, scalarEntries(m, path))

	for key, val := range m.Entries() {
		switch val.Kind() {
		case types.KindSequence:
			if val.Len() == 0 {
				continue
			}
			childPath := path.Child(key)
			next := make(types.RecordSet, 0, len(working)*val.Len())
			for item := range val.Items() {
				rows, err := flattenMapping(item, working, childPath)
				if err != nil {
					return nil, err
				}
				// An item without scalars hands back the incoming rows, which
				// every sibling item shares
				for _, row := range rows {
					next = append(next, row.Clone())
				}
			}
			working = next
		case types.KindMapping:
			rows, err := flattenMapping(val, working, path.Child(key))
			if err != nil {
				return nil, err
			}
			working = rows
		case types.KindNull, types.KindBool, types.KindNumber, types.KindString:
			// handled by the scalar pass
		}
	}
	return working, nil
}

// withScalars returns a new set where every record carries the given fields.
func withScalars(working types.RecordSet, fields []types.Member) types.RecordSet {
	if len(fields) == 0 {
		return working
	}
	out := make(types.RecordSet, len(working))
	for i, rec := range working {
		next := rec.Clone()
		for _, f := range fields {
			next.Set(f.Key, f.Value)
		}
		out[i] = next
	}
	return out
}
