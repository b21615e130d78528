package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mkEntry(t *testing.T, date string, score int, tags []string, journal string) entry.Entry {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	require.NoError(t, err)
	e, err := entry.New(d, score, tags, journal)
	require.NoError(t, err)
	return e
}

func TestSQLite_AppendAndList(t *testing.T) {
	s := newTestStore(t)

	// Out of order on purpose; List must come back sorted.
	require.NoError(t, s.Append(mkEntry(t, "2026-02-03", 7, []string{"work"}, "long day")))
	require.NoError(t, s.Append(mkEntry(t, "2026-02-01", 5, nil, "")))
	require.NoError(t, s.Append(mkEntry(t, "2026-02-02", 9, []string{"Exercise", "friends"}, "")))

	got, err := s.List()
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "2026-02-01", got[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-02-02", got[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-02-03", got[2].Date.Format("2006-01-02"))
	assert.Equal(t, []string{"exercise", "friends"}, got[1].Tags)
	assert.Equal(t, "long day", got[2].Journal)
}

func TestSQLite_DuplicateDateRejected(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append(mkEntry(t, "2026-02-01", 5, nil, "")))
	err := s.Append(mkEntry(t, "2026-02-01", 8, nil, ""))
	assert.ErrorIs(t, err, ErrDuplicateDate)
}

func TestSQLite_Get(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(mkEntry(t, "2026-02-01", 5, nil, "quiet day")))

	got, err := s.Get(time.Date(2026, 2, 1, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, "quiet day", got.Journal)

	_, err = s.Get(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_EmptyList(t *testing.T) {
	s := newTestStore(t)
	got, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}
