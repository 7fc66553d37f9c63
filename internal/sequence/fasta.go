package sequence

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// DefaultLineWidth matches the usual 60-column FASTA wrapping.
const DefaultLineWidth = 60

// WriteFASTA writes records as ">ID" headers followed by the sequence wrapped
// at width columns. width <= 0 writes each sequence on a single line.
func WriteFASTA(w io.Writer, records []types.SequenceRecord, width int) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n", rec.ID); err != nil {
			return err
		}
		seq := rec.Sequence
		if width <= 0 {
			if _, err := fmt.Fprintln(bw, seq); err != nil {
				return err
			}
			continue
		}
		for len(seq) > width {
			if _, err := fmt.Fprintln(bw, seq[:width]); err != nil {
				return err
			}
			seq = seq[width:]
		}
		if seq != "" {
			if _, err := fmt.Fprintln(bw, seq); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ParseFASTA reads FASTA records from r. Header lines begin with '>'; the ID
// is the header up to the first whitespace. Sequence lines are concatenated.
// Lines before the first header are ignored.
func ParseFASTA(r io.Reader) ([]types.SequenceRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var records []types.SequenceRecord
	var current *types.SequenceRecord
	var seq strings.Builder
	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			flush()
			id := strings.TrimPrefix(line, ">")
			if fields := strings.Fields(id); len(fields) > 0 {
				id = fields[0]
			}
			current = &types.SequenceRecord{ID: id}
			continue
		}
		if current != nil {
			seq.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fasta: %w", err)
	}
	flush()
	return records, nil
}
