// Package store persists mood entries. The analysis core only requires an
// ordered sequence of validated entries; everything else here is plumbing.
package store

import (
	"errors"
	"time"

	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
)

var (
	// ErrDuplicateDate is returned when an entry already exists for a date.
	ErrDuplicateDate = errors.New("an entry already exists for this date")
	// ErrNotFound is returned when no entry exists for a date.
	ErrNotFound = errors.New("no entry for this date")
)

// Store supplies ordered mood entries to the analysis pipeline.
//
// List returns an independent snapshot sorted by date ascending; callers may
// hand it straight to the pipeline without copying.
type Store interface {
	Append(e entry.Entry) error
	List() ([]entry.Entry, error)
	Get(date time.Time) (entry.Entry, error)
	Close() error
}
