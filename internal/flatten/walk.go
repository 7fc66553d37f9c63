// Package flatten turns nested JSON values into flat, tabular records and
// detects list fields whose length saturates a query limit.
//
// Everything here is a pure function over an already-parsed types.Value: no
// I/O, no logging, no shared state. Callers report the returned conditions.
package flatten

import (
	"fmt"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// requireMapping rejects anything that is not a mapping. path locates the
// offending value for the error message.
func requireMapping(v types.Value, path types.KeyPath) error {
	if v.Kind() == types.KindMapping {
		return nil
	}
	if len(path) == 0 {
		return fmt.Errorf("%w: got %s at top level, expected mapping", types.ErrInvalidInputKind, v.Kind())
	}
	return fmt.Errorf("%w: got %s at %q, expected mapping", types.ErrInvalidInputKind, v.Kind(), path.String())
}

// scalarEntries returns the scalar members of m in insertion order, keyed by
// their full path.
func scalarEntries(m types.Value, path types.KeyPath) []types.Member {
	var out []types.Member
	for key, val := range m.Entries() {
		if val.IsScalar() {
			out = append(out, types.Entry(path.Child(key).String(), val))
		}
	}
	return out
}
