// Package sentiment scores journal text with a VADER lexicon model.
package sentiment

import (
	"strings"
	"unicode/utf8"

	"github.com/jonreiter/govader"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

// Scorer assigns a compound polarity score in [-1, 1] to journal text.
//
// Scoring is deterministic: identical text always yields an identical score.
// The zero Scorer is not usable; construct with New.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// New builds a scorer with the default VADER lexicon.
func New() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of text. Empty, whitespace-only, or
// non-UTF-8 text yields (0, true): a "no journal data" sentinel, which is not
// the same thing as a neutral score on real text.
func (s *Scorer) Score(text string) (compound float64, noData bool) {
	if strings.TrimSpace(text) == "" || !utf8.ValidString(text) {
		return 0, true
	}
	return s.analyzer.PolarityScores(text).Compound, false
}

// Annotate returns a copy of entries with sentiment attached to each one.
// The input slice and its entries are left untouched, so callers can hand in
// a shared snapshot without synchronization.
func (s *Scorer) Annotate(entries []entry.Entry) []entry.Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]entry.Entry, len(entries))
	for i, e := range entries {
		compound, noData := s.Score(e.Journal)
		out[i] = e.WithSentiment(entry.Sentiment{Compound: compound, NoData: noData})
	}
	return out
}
