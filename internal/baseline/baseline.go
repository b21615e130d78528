// Package baseline computes a user's personal mood baseline: a rolling
// average per entry plus the overall mean and population standard deviation.
package baseline

import (
	"math"
	"time"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

// DefaultWindow is the rolling-average window in days.
const DefaultWindow = 7

// Point is one rolling-average value, aligned to the date of the entry that
// closes its window.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Stats is a baseline computed over one user's entries. Recomputed on every
// analysis run; never persisted.
type Stats struct {
	WindowSize    int     `json:"window_size"`
	MovingAverage []Point `json:"moving_average,omitempty"`
	OverallMean   float64 `json:"overall_mean"`
	OverallStdDev float64 `json:"overall_std_dev"`
	Count         int     `json:"count"`
}

// Degraded reports whether there was not enough history for a rolling
// average. A degraded baseline still carries a valid overall mean/stddev and
// is a normal state, not an error.
func (s Stats) Degraded() bool {
	return len(s.MovingAverage) == 0
}

// Latest returns the most recent rolling-average value. ok is false when the
// baseline is degraded.
func (s Stats) Latest() (v float64, ok bool) {
	if len(s.MovingAverage) == 0 {
		return 0, false
	}
	return s.MovingAverage[len(s.MovingAverage)-1].Value, true
}

// Compute builds baseline stats over chronologically ordered entries.
//
// Entries before the first full window are excluded from the rolling-average
// sequence, so its length is exactly max(0, n-window+1). The overall mean and
// stddev cover all entries and use Welford's recurrence, which stays stable
// for long histories where naive sum-of-squares cancels catastrophically.
// Stddev is the population form (divide by n).
func Compute(entries []entry.Entry, window int) Stats {
	if window < 1 {
		window = DefaultWindow
	}
	s := Stats{WindowSize: window, Count: len(entries)}
	if len(entries) == 0 {
		return s
	}

	var mean, m2 float64
	for i, e := range entries {
		delta := float64(e.Score) - mean
		mean += delta / float64(i+1)
		m2 += delta * (float64(e.Score) - mean)
	}
	s.OverallMean = mean
	s.OverallStdDev = math.Sqrt(m2 / float64(len(entries)))

	if len(entries) < window {
		return s
	}

	s.MovingAverage = make([]Point, 0, len(entries)-window+1)
	var windowSum float64
	for i, e := range entries {
		windowSum += float64(e.Score)
		if i >= window {
			windowSum -= float64(entries[i-window].Score)
		}
		if i >= window-1 {
			s.MovingAverage = append(s.MovingAverage, Point{
				Date:  e.Date,
				Value: windowSum / float64(window),
			})
		}
	}
	return s
}
