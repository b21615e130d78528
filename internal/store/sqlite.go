package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

//go:embed schema.sql
var schema string

const dateLayout = "2006-01-02"

// SQLite persists entries in a local SQLite database, one row per date.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists. Parent directories are created as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Append inserts a new entry. The date is the primary key, so a second entry
// for the same day returns ErrDuplicateDate.
func (s *SQLite) Append(e entry.Entry) error {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO entries (date, score, tags, journal, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Date.Format(dateLayout), e.Score, string(tags), e.Journal,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%w: %s", ErrDuplicateDate, e.Date.Format(dateLayout))
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// List returns all entries ordered by date ascending.
func (s *SQLite) List() ([]entry.Entry, error) {
	rows, err := s.db.Query("SELECT date, score, tags, journal FROM entries ORDER BY date ASC")
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []entry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

// Get returns the entry for the given date.
func (s *SQLite) Get(date time.Time) (entry.Entry, error) {
	row := s.db.QueryRow(
		"SELECT date, score, tags, journal FROM entries WHERE date = ?",
		entry.Day(date).Format(dateLayout),
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, entry.Day(date).Format(dateLayout))
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scanEntry rebuilds a validated entry from a row. A row that fails entry
// validation means the database was edited out-of-band; fail loudly rather
// than feed a bad record into analysis.
func scanEntry(row scanner) (entry.Entry, error) {
	var dateStr, tagsJSON, journal string
	var score int
	if err := row.Scan(&dateStr, &score, &tagsJSON, &journal); err != nil {
		return entry.Entry{}, err
	}

	date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("corrupt date %q in store: %w", dateStr, err)
	}
	var tags []string
	if strings.TrimSpace(tagsJSON) != "" && tagsJSON != "null" {
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return entry.Entry{}, fmt.Errorf("corrupt tags for %s in store: %w", dateStr, err)
		}
	}
	e, err := entry.New(date, score, tags, journal)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("corrupt entry for %s in store: %w", dateStr, err)
	}
	return e, nil
}
