// Package report renders core results (saturation reports, no-data and
// sequence conditions) as structured log entries. It is the only place that
// turns those values into human-visible output.
package report

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/generalbioinformatics/gbapi/internal/sequence"
	"github.com/generalbioinformatics/gbapi/internal/types"
)

// NewLogger builds a zap logger. level is one of debug, info, warn, error;
// format is json (production encoder) or text (console encoder).
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json", "":
		cfg = zap.NewProductionConfig()
	case "text", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("invalid log format %q (expected json or text)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Reporter logs core outcomes.
type Reporter struct {
	logger *zap.Logger
}

// New returns a Reporter. A nil logger discards everything.
func New(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{logger: logger}
}

// Saturation logs a warning for a saturated report, info otherwise.
func (r *Reporter) Saturation(rep types.SaturationReport) {
	if rep.Saturated {
		r.logger.Warn(rep.Message(),
			zap.Strings("fields", rep.Fields),
			zap.Int("limit", rep.Limit),
			zap.Int("matches", rep.Matches),
		)
		return
	}
	r.logger.Info(rep.Message(), zap.Int("limit", rep.Limit))
}

// Records logs the no-data condition for an empty record set.
func (r *Reporter) Records(rs types.RecordSet) {
	if rs.Empty() {
		r.logger.Warn("No data in json response")
		return
	}
	r.logger.Debug("flattened response", zap.Int("records", len(rs)))
}

// Sequences logs how many sequences were extracted.
func (r *Reporter) Sequences(res sequence.Result) {
	if res.Found == 0 {
		r.logger.Warn("Unable to identify any sequences in result")
		return
	}
	r.logger.Info(fmt.Sprintf("%d sequence/s identified in query result", res.Found),
		zap.Int("sequences", res.Found))
}

// Outcome reports every condition of one processed response. label names the
// unit of work (e.g. a batch chunk) and is attached to each entry.
func (r *Reporter) Outcome(label string, sat types.SaturationReport, rs types.RecordSet, seqs sequence.Result) {
	scoped := r
	if label != "" {
		scoped = &Reporter{logger: r.logger.With(zap.String("unit", label))}
	}
	scoped.Saturation(sat)
	scoped.Records(rs)
	scoped.Sequences(seqs)
}
