package report

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/generalbioinformatics/gbapi/internal/sequence"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

func newObserved() (*Reporter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func TestReporter_Saturation(t *testing.T) {
	t.Run("saturated warns", func(t *testing.T) {
		r, logs := newObserved()
		r.Saturation(types.SaturationReport{Limit: 100, Fields: []string{"x", "y"}, Matches: 2, Saturated: true})

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].Level != zapcore.WarnLevel {
			t.Errorf("level = %s, want warn", entries[0].Level)
		}
		if entries[0].ContextMap()["limit"] != int64(100) {
			t.Errorf("limit field = %v", entries[0].ContextMap()["limit"])
		}
	})

	t.Run("unsaturated informs", func(t *testing.T) {
		r, logs := newObserved()
		r.Saturation(types.SaturationReport{Limit: 100})

		entries := logs.All()
		if len(entries) != 1 || entries[0].Level != zapcore.InfoLevel {
			t.Fatalf("entries = %+v, want one info entry", entries)
		}
		if entries[0].Message != "No fields in the returned JSON data exceed the upper limit" {
			t.Errorf("message = %q", entries[0].Message)
		}
	})
}

func TestReporter_NoDataAndSequences(t *testing.T) {
	r, logs := newObserved()
	r.Records(nil)
	r.Sequences(sequence.Result{})
	r.Sequences(sequence.Result{Found: 3})

	if n := logs.FilterMessage("No data in json response").Len(); n != 1 {
		t.Errorf("no-data entries = %d, want 1", n)
	}
	if n := logs.FilterMessage("Unable to identify any sequences in result").Len(); n != 1 {
		t.Errorf("no-sequence entries = %d, want 1", n)
	}
	if n := logs.FilterMessage("3 sequence/s identified in query result").Len(); n != 1 {
		t.Errorf("found entries = %d, want 1", n)
	}
}

func TestReporter_OutcomeLabelsEntries(t *testing.T) {
	r, logs := newObserved()
	rs := types.RecordSet{types.NewRecord()}
	r.Outcome("chunk-2", types.SaturationReport{Limit: 5}, rs, sequence.Result{Found: 1})

	if logs.Len() != 3 {
		t.Fatalf("got %d entries, want 3", logs.Len())
	}
	for _, e := range logs.All() {
		if e.ContextMap()["unit"] != "chunk-2" {
			t.Errorf("entry %q missing unit label", e.Message)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		logger, err := NewLogger("debug", format)
		if err != nil {
			t.Fatalf("NewLogger(debug, %s) error = %v", format, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("format %s: debug not enabled", format)
		}
	}

	if _, err := NewLogger("loud", "json"); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := NewLogger("info", "xml"); err == nil {
		t.Error("expected error for invalid format")
	}
}
