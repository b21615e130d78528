// Package insight turns baseline, correlation, and anomaly results into the
// ranked, human-readable report.
package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/mindmetrics/internal/anomaly"
	"github.com/fyrsmithlabs/mindmetrics/internal/baseline"
	"github.com/fyrsmithlabs/mindmetrics/internal/correlation"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

// Kind classifies an insight. The declaration order is also the tie-break
// order when two insights share a priority: earlier kinds surface first.
type Kind int

const (
	KindProfessionalHelpSuggestion Kind = iota
	KindAnomalyAlert
	KindTrendNegative
	KindTagCorrelation
	KindSentimentConflict
	KindTrendPositive
)

func (k Kind) String() string {
	switch k {
	case KindProfessionalHelpSuggestion:
		return "professional_help_suggestion"
	case KindAnomalyAlert:
		return "anomaly_alert"
	case KindTrendNegative:
		return "trend_negative"
	case KindTagCorrelation:
		return "tag_correlation"
	case KindSentimentConflict:
		return "sentiment_conflict"
	case KindTrendPositive:
		return "trend_positive"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for candidate := KindProfessionalHelpSuggestion; candidate <= KindTrendPositive; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown insight kind %q", text)
}

// Priorities per insight kind. Higher surfaces first.
const (
	priorityHelp              = 100
	priorityAnomalySevere     = 90
	priorityAnomalyModerate   = 80
	priorityAnomalyMild       = 70
	priorityTrendNegative     = 60
	priorityTagCorrelation    = 50
	prioritySentimentConflict = 40
	priorityTrendPositive     = 30
)

// Insight is one ranked observation in the report.
type Insight struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// Status distinguishes a real analysis from a degenerate run.
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
)

// Report is the full output of one analysis run. Insights are sorted by
// priority descending, ties broken by kind order. The raw baseline,
// correlation, and anomaly results ride along for transparency.
type Report struct {
	RunID        string                       `json:"run_id"`
	GeneratedAt  time.Time                    `json:"generated_at"`
	Status       Status                       `json:"status"`
	Summary      string                       `json:"summary"`
	Insights     []Insight                    `json:"insights"`
	Baseline     baseline.Stats               `json:"baseline"`
	Correlations []correlation.TagCorrelation `json:"correlations,omitempty"`
	Anomalies    []anomaly.Anomaly            `json:"anomalies,omitempty"`
	EntryCount   int                          `json:"entry_count"`
}

// Config holds the synthesis thresholds.
type Config struct {
	// TrendThreshold is the minimum gap between the latest rolling average
	// and the overall mean before a trend insight is emitted.
	TrendThreshold float64
	// CorrelationDelta is the minimum |delta| for a tag insight.
	CorrelationDelta float64
	// MaxTagInsights caps how many tag correlations are surfaced.
	MaxTagInsights int
	// ConflictScore / ConflictSentiment gate the reported-mood vs journal
	// sentiment mismatch check.
	ConflictScore     int
	ConflictSentiment float64
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		TrendThreshold:    0.5,
		CorrelationDelta:  0.5,
		MaxTagInsights:    3,
		ConflictScore:     7,
		ConflictSentiment: -0.5,
	}
}

// Synthesize builds the report from the upstream analysis results.
//
// An empty entry sequence is a valid degenerate case: the report comes back
// with StatusInsufficientData and zero insights, never an error.
func Synthesize(entries []entry.Entry, stats baseline.Stats, correlations []correlation.TagCorrelation, anomalies []anomaly.Anomaly, cfg Config) *Report {
	r := &Report{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Status:       StatusOK,
		Baseline:     stats,
		Correlations: correlations,
		Anomalies:    anomalies,
		EntryCount:   len(entries),
	}
	if len(entries) == 0 {
		r.Status = StatusInsufficientData
		r.Summary = "No entries to analyze yet. Log your mood daily to start seeing trends."
		r.Insights = []Insight{}
		return r
	}

	if stats.Degraded() {
		r.Summary = fmt.Sprintf(
			"Keep logging! With %d more days of data we can start showing you trends.",
			stats.WindowSize-stats.Count)
	} else {
		r.Summary = fmt.Sprintf(
			"Over the last %d days, your average mood has been %.1f/10.",
			stats.Count, stats.OverallMean)
	}

	r.Insights = append(r.Insights, anomalyInsights(anomalies)...)
	if help, ok := helpInsight(anomalies); ok {
		r.Insights = append(r.Insights, help)
	}
	if trend, ok := trendInsight(stats, cfg); ok {
		r.Insights = append(r.Insights, trend)
	}
	r.Insights = append(r.Insights, tagInsights(correlations, cfg)...)
	r.Insights = append(r.Insights, conflictInsights(entries, cfg)...)

	sortInsights(r.Insights)
	return r
}

// trendInsight compares the latest rolling average against the overall mean.
// Skipped entirely when the baseline is degraded.
func trendInsight(stats baseline.Stats, cfg Config) (Insight, bool) {
	recent, ok := stats.Latest()
	if !ok {
		return Insight{}, false
	}
	diff := recent - stats.OverallMean
	switch {
	case diff > cfg.TrendThreshold:
		return Insight{
			Kind:     KindTrendPositive,
			Priority: priorityTrendPositive,
			Message: fmt.Sprintf(
				"Your mood has been trending up lately: the last %d days average %.1f, above your overall %.1f.",
				stats.WindowSize, recent, stats.OverallMean),
		}, true
	case diff < -cfg.TrendThreshold:
		return Insight{
			Kind:     KindTrendNegative,
			Priority: priorityTrendNegative,
			Message: fmt.Sprintf(
				"Your mood has been trending down: the last %d days average %.1f, below your overall %.1f. Be kind to yourself.",
				stats.WindowSize, recent, stats.OverallMean),
		}, true
	}
	return Insight{}, false
}

// tagInsights surfaces the strongest tag correlations, already sorted by
// |delta| upstream.
func tagInsights(correlations []correlation.TagCorrelation, cfg Config) []Insight {
	var out []Insight
	for _, c := range correlations {
		if len(out) >= cfg.MaxTagInsights {
			break
		}
		if c.Delta < cfg.CorrelationDelta && c.Delta > -cfg.CorrelationDelta {
			continue
		}
		var msg string
		if c.Delta > 0 {
			msg = fmt.Sprintf(
				"Positive pattern: when you log '%s', your mood averages %.1f/10, higher than your usual %.1f.",
				c.Tag, c.MeanWith, c.MeanWithout)
		} else {
			msg = fmt.Sprintf(
				"Challenging pattern: days you log '%s' tend to be tougher, averaging %.1f/10 against your usual %.1f.",
				c.Tag, c.MeanWith, c.MeanWithout)
		}
		out = append(out, Insight{
			Kind:     KindTagCorrelation,
			Priority: priorityTagCorrelation,
			Message:  msg,
		})
	}
	return out
}

func anomalyInsights(anomalies []anomaly.Anomaly) []Insight {
	var out []Insight
	for _, a := range anomalies {
		var priority int
		var msg string
		span := spanText(a)
		switch a.Severity {
		case anomaly.Severe:
			priority = priorityAnomalySevere
			msg = fmt.Sprintf(
				"Your mood stayed well below your typical range for %s. Stretches like this deserve extra care.", span)
		case anomaly.Moderate:
			priority = priorityAnomalyModerate
			msg = fmt.Sprintf(
				"On %s your mood dipped sharply below your typical range.", span)
		default:
			priority = priorityAnomalyMild
			msg = fmt.Sprintf(
				"On %s your mood was noticeably lower than usual.", span)
		}
		out = append(out, Insight{
			Kind:     KindAnomalyAlert,
			Priority: priority,
			Message:  msg,
		})
	}
	return out
}

// helpInsight emits the escalation nudge at most once: any Severe anomaly,
// or two or more Moderate ones, triggers it.
func helpInsight(anomalies []anomaly.Anomaly) (Insight, bool) {
	var moderate int
	var severe bool
	for _, a := range anomalies {
		switch a.Severity {
		case anomaly.Severe:
			severe = true
		case anomaly.Moderate:
			moderate++
		}
	}
	if !severe && moderate < 2 {
		return Insight{}, false
	}
	return Insight{
		Kind:     KindProfessionalHelpSuggestion,
		Priority: priorityHelp,
		Message: "Your mood has been significantly low recently. Talking it through with a " +
			"mental health professional is a proactive step toward well-being, not a last resort.",
	}, true
}

// conflictInsights flags entries where the reported score is high but the
// journal reads strongly negative. Entries without real journal data never
// participate.
func conflictInsights(entries []entry.Entry, cfg Config) []Insight {
	var out []Insight
	for _, e := range entries {
		if e.Sentiment == nil || e.Sentiment.NoData {
			continue
		}
		if e.Score > cfg.ConflictScore && e.Sentiment.Compound < cfg.ConflictSentiment {
			out = append(out, Insight{
				Kind:     KindSentimentConflict,
				Priority: prioritySentimentConflict,
				Message: fmt.Sprintf(
					"On %s you reported a high mood (%d/10), but your journal entry read strongly negative. Worth a moment of reflection.",
					e.Date.Format("January 2"), e.Score),
			})
		}
	}
	return out
}

func spanText(a anomaly.Anomaly) string {
	if a.Start.Equal(a.End) {
		return a.Start.Format("January 2")
	}
	return fmt.Sprintf("%s through %s", a.Start.Format("January 2"), a.End.Format("January 2"))
}

// sortInsights orders by priority descending, then by kind order, keeping
// the original order within equal pairs.
func sortInsights(insights []Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Priority != insights[j].Priority {
			return insights[i].Priority > insights[j].Priority
		}
		return insights[i].Kind < insights[j].Kind
	})
}
