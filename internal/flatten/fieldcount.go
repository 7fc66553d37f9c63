package flatten

import (
	"iter"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// FieldCounts lazily yields (field, length) for every list-valued field in v.
//
// Mapping entries are visited in insertion order. For a list field, mapping
// items of the list are descended into first and the list's own count is
// emitted afterwards; nested mappings are descended into without emitting.
// Lists nested directly inside lists are not inspected. The sequence is
// restartable: each range over it walks v again.
func FieldCounts(v types.Value) iter.Seq[types.FieldCount] {
	return func(yield func(types.FieldCount) bool) {
		walkCounts(v, yield)
	}
}

// CollectFieldCounts materializes FieldCounts.
func CollectFieldCounts(v types.Value) []types.FieldCount {
	var out []types.FieldCount
	for fc := range FieldCounts(v) {
		out = append(out, fc)
	}
	return out
}

// walkCounts returns false once yield asks to stop.
func walkCounts(v types.Value, yield func(types.FieldCount) bool) bool {
	for key, val := range v.Entries() {
		switch val.Kind() {
		case types.KindSequence:
			for item := range val.Items() {
				if item.Kind() == types.KindMapping && !walkCounts(item, yield) {
					return false
				}
			}
			if !yield(types.FieldCount{Field: key, Count: val.Len()}) {
				return false
			}
		case types.KindMapping:
			if !walkCounts(val, yield) {
				return false
			}
		case types.KindNull, types.KindBool, types.KindNumber, types.KindString:
			// leaves carry no counts
		}
	}
	return true
}
