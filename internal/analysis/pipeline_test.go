package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mindmetrics/internal/config"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
	"github.com/fyrsmithlabs/mindmetrics/internal/insight"
	"github.com/fyrsmithlabs/mindmetrics/internal/logging"
)

var day0 = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func mkEntry(t *testing.T, day, score int, tags []string, journal string) entry.Entry {
	t.Helper()
	e, err := entry.New(day0.AddDate(0, 0, day), score, tags, journal)
	require.NoError(t, err)
	return e
}

func newPipeline() *Pipeline {
	return New(config.Default().Analysis, logging.NewTestLogger())
}

func TestRun_EmptyInput(t *testing.T) {
	r := newPipeline().Run(nil)

	require.NotNil(t, r)
	assert.Equal(t, insight.StatusInsufficientData, r.Status)
	assert.Empty(t, r.Insights)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	entries := []entry.Entry{mkEntry(t, 0, 8, nil, "a truly wonderful day")}

	newPipeline().Run(entries)

	assert.Nil(t, entries[0].Sentiment, "pipeline must annotate a copy, not the caller's snapshot")
}

func TestRun_EndToEnd(t *testing.T) {
	// Three weeks of mostly-fine days with a three-day slump and a clear
	// exercise pattern.
	var entries []entry.Entry
	for day := 0; day < 21; day++ {
		score := 7
		tags := []string{"work"}
		journal := ""
		switch {
		case day >= 14 && day <= 16:
			score = 3
			tags = []string{"deadline"}
			journal = "Exhausted and overwhelmed, everything feels like too much."
		case day%3 == 0:
			score = 8
			tags = append(tags, "exercise")
		}
		entries = append(entries, mkEntry(t, day, score, tags, journal))
	}

	r := newPipeline().Run(entries)

	require.Equal(t, insight.StatusOK, r.Status)
	assert.Equal(t, 21, r.EntryCount)
	assert.False(t, r.Baseline.Degraded())
	assert.Len(t, r.Baseline.MovingAverage, 15)

	// The slump is calendar-consecutive, so it must surface as one Severe
	// anomaly and trigger the escalation insight exactly once.
	var severe, help int
	for _, a := range r.Anomalies {
		if a.Severity.String() == "severe" {
			severe++
		}
	}
	for _, in := range r.Insights {
		if in.Kind == insight.KindProfessionalHelpSuggestion {
			help++
		}
	}
	assert.Equal(t, 1, severe)
	assert.Equal(t, 1, help)
	assert.Equal(t, insight.KindProfessionalHelpSuggestion, r.Insights[0].Kind)

	// Ranking invariant holds across the whole report.
	for i := 1; i < len(r.Insights); i++ {
		assert.GreaterOrEqual(t, r.Insights[i-1].Priority, r.Insights[i].Priority)
	}
}

func TestRun_ConstantScoresProduceNoAnomalies(t *testing.T) {
	var entries []entry.Entry
	for day := 0; day < 10; day++ {
		entries = append(entries, mkEntry(t, day, 6, nil, ""))
	}

	r := newPipeline().Run(entries)

	assert.Empty(t, r.Anomalies)
	assert.Equal(t, insight.StatusOK, r.Status)
}

func TestRun_RespectsConfiguredWindow(t *testing.T) {
	cfg := config.Default().Analysis
	cfg.WindowSize = 3

	var entries []entry.Entry
	for day := 0; day < 5; day++ {
		entries = append(entries, mkEntry(t, day, 5+day%2, nil, ""))
	}

	r := New(cfg, nil).Run(entries)
	assert.Len(t, r.Baseline.MovingAverage, 3)
}
