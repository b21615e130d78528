// Package anomaly flags dates where mood falls significantly below the
// user's baseline.
package anomaly

import (
	"fmt"
	"sort"
	"time"

	"github.com/fyrsmithlabs/mindmetrics/internal/baseline"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

// Severity orders anomaly severities from least to most concerning.
type Severity int

const (
	Mild Severity = iota + 1
	Moderate
	Severe
)

func (s Severity) String() string {
	switch s {
	case Mild:
		return "mild"
	case Moderate:
		return "moderate"
	case Severe:
		return "severe"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mild":
		*s = Mild
	case "moderate":
		*s = Moderate
	case "severe":
		*s = Severe
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Rule names for Anomaly.TriggeringRule.
const (
	RulePerEntry    = "per-entry-deviation"
	RulePersistence = "persistent-low-run"
)

// Anomaly is a date range (possibly a single day) flagged against baseline.
// Generated fresh per run and never persisted outside the report.
type Anomaly struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Severity       Severity  `json:"severity"`
	TriggeringRule string    `json:"triggering_rule"`
}

// Config holds the sigma thresholds and persistence window for detection.
type Config struct {
	MildSigma        float64
	ModerateSigma    float64
	PersistenceSigma float64
	PersistenceDays  int
}

// DefaultConfig returns the documented default policy.
func DefaultConfig() Config {
	return Config{
		MildSigma:        1.5,
		ModerateSigma:    2.0,
		PersistenceSigma: 1.0,
		PersistenceDays:  3,
	}
}

// Detect flags anomalies in chronologically ordered entries against the
// overall mean/stddev in stats. The rolling average plays no part here.
//
// A run of at least PersistenceDays calendar-consecutive days, each below
// mean − PersistenceSigma·σ, becomes one Severe anomaly spanning the run and
// absorbs any per-day Mild/Moderate flags on those dates. Remaining entries
// are flagged individually: Moderate below mean − ModerateSigma·σ, else Mild
// below mean − MildSigma·σ.
//
// With fewer than 2 scored entries or zero stddev there is nothing to
// measure deviation against, so no anomalies are reported.
func Detect(entries []entry.Entry, stats baseline.Stats, cfg Config) []Anomaly {
	if stats.Count < 2 || stats.OverallStdDev == 0 {
		return nil
	}

	mean, sigma := stats.OverallMean, stats.OverallStdDev
	persistCut := mean - cfg.PersistenceSigma*sigma
	mildCut := mean - cfg.MildSigma*sigma
	moderateCut := mean - cfg.ModerateSigma*sigma

	absorbed := make([]bool, len(entries))
	var out []Anomaly

	// Persistence rule first so Severe runs can absorb per-day flags.
	for i := 0; i < len(entries); {
		if float64(entries[i].Score) >= persistCut {
			i++
			continue
		}
		j := i
		for j+1 < len(entries) &&
			float64(entries[j+1].Score) < persistCut &&
			entries[j+1].Date.Sub(entries[j].Date) == 24*time.Hour {
			j++
		}
		if j-i+1 >= cfg.PersistenceDays {
			out = append(out, Anomaly{
				Start:          entries[i].Date,
				End:            entries[j].Date,
				Severity:       Severe,
				TriggeringRule: RulePersistence,
			})
			for k := i; k <= j; k++ {
				absorbed[k] = true
			}
		}
		i = j + 1
	}

	for i, e := range entries {
		if absorbed[i] {
			continue
		}
		score := float64(e.Score)
		var sev Severity
		switch {
		case score < moderateCut:
			sev = Moderate
		case score < mildCut:
			sev = Mild
		default:
			continue
		}
		out = append(out, Anomaly{
			Start:          e.Date,
			End:            e.Date,
			Severity:       sev,
			TriggeringRule: RulePerEntry,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
