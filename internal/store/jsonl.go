package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

// jsonlRecord is the interchange format for import/export: one JSON object
// per line, dates as YYYY-MM-DD.
type jsonlRecord struct {
	Date    string   `json:"date"`
	Score   int      `json:"score"`
	Tags    []string `json:"tags,omitempty"`
	Journal string   `json:"journal,omitempty"`
}

// ReadJSONL decodes entries from JSON-lines input, validating each record at
// the boundary. Blank lines are skipped. Records are sorted by date before
// returning, and duplicate dates are rejected.
func ReadJSONL(r io.Reader) ([]entry.Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []entry.Entry
	seen := make(map[string]struct{})
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: malformed record: %w", line, err)
		}
		date, err := time.ParseInLocation(dateLayout, rec.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date %q: %w", line, rec.Date, err)
		}
		if _, dup := seen[rec.Date]; dup {
			return nil, fmt.Errorf("line %d: %w: %s", line, ErrDuplicateDate, rec.Date)
		}
		seen[rec.Date] = struct{}{}

		e, err := entry.New(date, rec.Score, rec.Tags, rec.Journal)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	entry.SortByDate(out)
	return out, nil
}

// WriteJSONL encodes entries as JSON lines. Sentiment annotations are
// per-run derivations and are deliberately not exported.
func WriteJSONL(w io.Writer, entries []entry.Entry) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, e := range entries {
		rec := jsonlRecord{
			Date:    e.Date.Format(dateLayout),
			Score:   e.Score,
			Tags:    e.Tags,
			Journal: e.Journal,
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode entry %s: %w", rec.Date, err)
		}
	}
	return bw.Flush()
}
