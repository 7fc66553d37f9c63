package flatten

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// Table is the row/column projection of a RecordSet. Columns is the union of
// every key path seen, in first-seen order; a row without a column has an
// absent cell.
type Table struct {
	Columns []string
	Rows    types.RecordSet
}

// Tabulate projects rs onto a table.
func Tabulate(rs types.RecordSet) Table {
	seen := make(map[string]struct{})
	var cols []string
	for _, rec := range rs {
		for key := range rec.Fields() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			cols = append(cols, key)
		}
	}
	return Table{Columns: cols, Rows: rs}
}

// Cell returns the value at row, column.
func (t Table) Cell(row int, column string) (types.Value, bool) {
	if row < 0 || row >= len(t.Rows) {
		return types.Value{}, false
	}
	return t.Rows[row].Get(column)
}

// WriteCSV writes a header line followed by one line per row. Strings are
// written verbatim, numbers by literal; null and absent cells are empty.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	line := make([]string, len(t.Columns))
	for i, rec := range t.Rows {
		for j, col := range t.Columns {
			line[j] = ""
			if v, ok := rec.Get(col); ok {
				line[j] = v.Text()
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
