package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mindmetrics/internal/baseline"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

var day0 = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func mkEntries(t *testing.T, scores ...int) []entry.Entry {
	t.Helper()
	out := make([]entry.Entry, 0, len(scores))
	for i, score := range scores {
		e, err := entry.New(day0.AddDate(0, 0, i), score, nil, "")
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestDetect_ConstantScoresNoAnomalies(t *testing.T) {
	entries := mkEntries(t, 5, 5, 5, 5, 5, 5, 5)
	stats := baseline.Compute(entries, 7)
	require.Zero(t, stats.OverallStdDev)

	assert.Nil(t, Detect(entries, stats, DefaultConfig()))
}

func TestDetect_TooFewEntries(t *testing.T) {
	entries := mkEntries(t, 3)
	stats := baseline.Compute(entries, 7)

	assert.Nil(t, Detect(entries, stats, DefaultConfig()))
}

func TestDetect_PerEntrySeverities(t *testing.T) {
	// Hand-built stats: mean 7, stddev 1. Mild cutoff 5.5, moderate 5.
	stats := baseline.Stats{OverallMean: 7, OverallStdDev: 1, Count: 30}
	entries := mkEntries(t, 7, 5, 4, 6)

	got := Detect(entries, stats, DefaultConfig())

	require.Len(t, got, 2)
	assert.Equal(t, Mild, got[0].Severity)
	assert.Equal(t, day0.AddDate(0, 0, 1), got[0].Start)
	assert.Equal(t, got[0].Start, got[0].End)
	assert.Equal(t, RulePerEntry, got[0].TriggeringRule)

	assert.Equal(t, Moderate, got[1].Severity)
	assert.Equal(t, day0.AddDate(0, 0, 2), got[1].Start)
}

func TestDetect_PersistentRunBecomesSingleSevere(t *testing.T) {
	// Mean 7, stddev 1: persistence cutoff is 6. Scores 5, 5, 5 are also
	// below the mild cutoff, but the severe run must absorb those flags.
	stats := baseline.Stats{OverallMean: 7, OverallStdDev: 1, Count: 30}
	entries := mkEntries(t, 7, 5, 5, 5, 8)

	got := Detect(entries, stats, DefaultConfig())

	require.Len(t, got, 1)
	a := got[0]
	assert.Equal(t, Severe, a.Severity)
	assert.Equal(t, day0.AddDate(0, 0, 1), a.Start)
	assert.Equal(t, day0.AddDate(0, 0, 3), a.End)
	assert.Equal(t, RulePersistence, a.TriggeringRule)
}

func TestDetect_RunBelowPersistenceButAboveMildIsSevereOnly(t *testing.T) {
	// Scores between mean−1.5σ and mean−1σ trip only the persistence rule.
	// With stddev 2 that band is [4, 5), reachable by integer scores.
	stats := baseline.Stats{OverallMean: 7, OverallStdDev: 2, Count: 30}
	entries := mkEntries(t, 7, 4, 4, 4, 7)

	got := Detect(entries, stats, DefaultConfig())

	require.Len(t, got, 1)
	assert.Equal(t, Severe, got[0].Severity)
}

func TestDetect_TwoDayRunNotSevere(t *testing.T) {
	stats := baseline.Stats{OverallMean: 7, OverallStdDev: 1, Count: 30}
	entries := mkEntries(t, 7, 4, 4, 8)

	got := Detect(entries, stats, DefaultConfig())

	// Two consecutive low days fall short of the persistence window and are
	// flagged individually instead.
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, Moderate, a.Severity)
		assert.Equal(t, RulePerEntry, a.TriggeringRule)
	}
}

func TestDetect_DateGapBreaksRun(t *testing.T) {
	stats := baseline.Stats{OverallMean: 7, OverallStdDev: 2, Count: 30}

	e1, err := entry.New(day0, 4, nil, "")
	require.NoError(t, err)
	e2, err := entry.New(day0.AddDate(0, 0, 1), 4, nil, "")
	require.NoError(t, err)
	// Two-day gap: the user skipped logging.
	e3, err := entry.New(day0.AddDate(0, 0, 4), 4, nil, "")
	require.NoError(t, err)

	got := Detect([]entry.Entry{e1, e2, e3}, stats, DefaultConfig())

	for _, a := range got {
		assert.NotEqual(t, Severe, a.Severity)
	}
}

func TestDetect_SortedByStartDate(t *testing.T) {
	stats := baseline.Stats{OverallMean: 7, OverallStdDev: 1, Count: 60}
	entries := mkEntries(t, 4, 8, 5, 5, 5, 8, 4)

	got := Detect(entries, stats, DefaultConfig())

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Start.Before(got[i].Start))
	}
	assert.Equal(t, Severe, got[1].Severity)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "mild", Mild.String())
	assert.Equal(t, "moderate", Moderate.String())
	assert.Equal(t, "severe", Severe.String())
}
