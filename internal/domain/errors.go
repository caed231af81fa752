package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoData is returned when no snapshot (or an empty one) is available
	// for a comparison or cart request. It is informational, not fatal.
	ErrNoData = errors.New("no product data available")

	// ErrSnapshotNotFound is returned when a named snapshot does not exist
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotExists is returned when trying to overwrite an existing
	// snapshot; snapshots are write-once
	ErrSnapshotExists = errors.New("snapshot already exists")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// MissingColumnsError reports a snapshot whose tabular schema lacks required
// columns. It carries the columns that are present to help debug source
// drift.
type MissingColumnsError struct {
	Missing []string
	Present []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("snapshot missing required columns [%s], present columns [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Present, ", "))
}
