// Package entry defines the mood entry value type shared by the store and
// the analysis pipeline.
//
// Entries are validated at construction and never mutated afterwards. The
// analysis pipeline operates on per-run copies, so a stored entry is safe to
// share across concurrent report runs.
package entry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// MinScore and MaxScore bound the self-reported mood scale.
	MinScore = 1
	MaxScore = 10
)

var (
	// ErrInvalidScore is returned when a score falls outside [MinScore, MaxScore].
	ErrInvalidScore = errors.New("mood score must be between 1 and 10")
	// ErrMissingDate is returned when an entry carries a zero date.
	ErrMissingDate = errors.New("entry date is required")
)

// Sentiment is the polarity annotation attached to an entry after scoring.
//
// NoData distinguishes "the journal was empty or unscoreable" from a genuine
// neutral sentiment of 0.0; correlation and conflict checks must skip NoData
// annotations rather than treat them as neutral.
type Sentiment struct {
	Compound float64 `json:"compound"`
	NoData   bool    `json:"no_data"`
}

// Entry is a single daily mood record.
//
// Date is the chronological key and is unique per user. Sentiment is nil
// until the scorer has annotated the entry.
type Entry struct {
	Date      time.Time  `json:"date"`
	Score     int        `json:"score"`
	Tags      []string   `json:"tags,omitempty"`
	Journal   string     `json:"journal,omitempty"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
}

// New validates and constructs an entry. The date is truncated to day
// granularity in UTC. Tags are trimmed, lowercased, and deduplicated.
func New(date time.Time, score int, tags []string, journal string) (Entry, error) {
	if date.IsZero() {
		return Entry{}, ErrMissingDate
	}
	if score < MinScore || score > MaxScore {
		return Entry{}, fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}
	return Entry{
		Date:    Day(date),
		Score:   score,
		Tags:    NormalizeTags(tags),
		Journal: journal,
	}, nil
}

// WithSentiment returns a copy of the entry carrying the given annotation.
// The receiver is not modified.
func (e Entry) WithSentiment(s Sentiment) Entry {
	annotated := e
	annotated.Sentiment = &s
	return annotated
}

// HasTag reports whether entry carries the given normalized tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasJournal reports whether the entry has non-whitespace journal text.
func (e Entry) HasJournal() bool {
	return strings.TrimSpace(e.Journal) != ""
}

// Day truncates a time to midnight UTC, the granularity entries are keyed at.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeTags trims, lowercases, deduplicates, and sorts tags. Empty tags
// are dropped. Returns nil for an empty result so entries compare cleanly.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// SortByDate orders entries chronologically in place. Stores return entries
// already ordered; this is a guard for callers assembling entries by hand.
func SortByDate(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
