// Package correlation measures how mood differs on days carrying a given
// context tag versus days without it.
package correlation

import (
	"sort"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

// DefaultMinSupport is the minimum number of tagged entries a tag needs
// before its correlation is reported.
const DefaultMinSupport = 3

// TagCorrelation is the with/without mean comparison for one tag.
// Delta is MeanWith − MeanWithout; positive means the tag coincides with
// better days.
type TagCorrelation struct {
	Tag         string  `json:"tag"`
	MeanWith    float64 `json:"mean_with"`
	MeanWithout float64 `json:"mean_without"`
	SampleCount int     `json:"sample_count"`
	Delta       float64 `json:"delta"`
}

// Compute returns correlations for every tag with at least minSupport
// occurrences, sorted by |delta| descending (tag name breaks ties so output
// is deterministic).
//
// Tags below minSupport are omitted entirely rather than reported with zero
// confidence. A tag present on every entry has no "without" group, so its
// correlation is undefined and it is skipped.
func Compute(entries []entry.Entry, minSupport int) []TagCorrelation {
	if minSupport < 1 {
		minSupport = DefaultMinSupport
	}
	if len(entries) == 0 {
		return nil
	}

	type tally struct {
		count int
		sum   float64
	}
	var total float64
	byTag := make(map[string]*tally)
	for _, e := range entries {
		total += float64(e.Score)
		for _, tag := range e.Tags {
			t := byTag[tag]
			if t == nil {
				t = &tally{}
				byTag[tag] = t
			}
			t.count++
			t.sum += float64(e.Score)
		}
	}

	out := make([]TagCorrelation, 0, len(byTag))
	for tag, t := range byTag {
		if t.count < minSupport {
			continue
		}
		without := len(entries) - t.count
		if without == 0 {
			// Every entry carries the tag; no comparison group exists.
			continue
		}
		meanWith := t.sum / float64(t.count)
		meanWithout := (total - t.sum) / float64(without)
		out = append(out, TagCorrelation{
			Tag:         tag,
			MeanWith:    meanWith,
			MeanWithout: meanWithout,
			SampleCount: t.count,
			Delta:       meanWith - meanWithout,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		di, dj := abs(out[i].Delta), abs(out[j].Delta)
		if di != dj {
			return di > dj
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
