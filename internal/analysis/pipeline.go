// Package analysis wires the scoring, baseline, correlation, anomaly, and
// insight components into a single synchronous pipeline.
//
// A Pipeline holds no per-run state: every Run operates on its own annotated
// copy of the input, so one Pipeline can serve concurrent runs as long as
// each run gets an independent snapshot of entries.
package analysis

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mindmetrics/internal/anomaly"
	"github.com/fyrsmithlabs/mindmetrics/internal/baseline"
	"github.com/fyrsmithlabs/mindmetrics/internal/config"
	"github.com/fyrsmithlabs/mindmetrics/internal/correlation"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
	"github.com/fyrsmithlabs/mindmetrics/internal/insight"
	"github.com/fyrsmithlabs/mindmetrics/internal/sentiment"
)

// Pipeline runs the full analysis over an ordered entry sequence.
type Pipeline struct {
	scorer *sentiment.Scorer
	cfg    config.AnalysisConfig
	logger *zap.Logger
}

// New builds a pipeline with the given thresholds. logger may be nil.
func New(cfg config.AnalysisConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		scorer: sentiment.New(),
		cfg:    cfg,
		logger: logger,
	}
}

// Run analyzes entries and produces the report. Entries must be ordered
// chronologically; stores return them that way. The input is never mutated.
//
// Degenerate inputs (empty sequence, too little history, zero variance) come
// back as valid degraded reports, never as errors.
func (p *Pipeline) Run(entries []entry.Entry) *insight.Report {
	scored := p.scorer.Annotate(entries)

	stats := baseline.Compute(scored, p.cfg.WindowSize)
	correlations := correlation.Compute(scored, p.cfg.MinTagSupport)
	anomalies := anomaly.Detect(scored, stats, anomaly.Config{
		MildSigma:        p.cfg.AnomalyMildSigma,
		ModerateSigma:    p.cfg.AnomalyModerateSigma,
		PersistenceSigma: p.cfg.SeverePersistenceSigma,
		PersistenceDays:  p.cfg.SeverePersistenceDays,
	})

	synthCfg := insight.DefaultConfig()
	synthCfg.TrendThreshold = p.cfg.TrendThreshold

	report := insight.Synthesize(scored, stats, correlations, anomalies, synthCfg)

	p.logger.Debug("analysis run complete",
		zap.String("run_id", report.RunID),
		zap.String("status", string(report.Status)),
		zap.Int("entries", report.EntryCount),
		zap.Int("insights", len(report.Insights)),
		zap.Int("anomalies", len(anomalies)),
		zap.Int("correlations", len(correlations)),
	)
	return report
}
