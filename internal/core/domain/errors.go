package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidWindow indicates an export window whose start is after
	// its end. User-correctable.
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrWriteFailed indicates the writer could not commit a note. The
	// on-disk note is left at its previous committed state; the caller
	// may retry the whole export.
	ErrWriteFailed = errors.New("note write failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthRequired indicates no stored credentials are available.
	ErrAuthRequired = errors.New("authentication required, run 'auth login' first")

	// ErrVaultNotConfigured indicates no Obsidian vault root is set.
	ErrVaultNotConfigured = errors.New("obsidian vault root not configured")
)

// BucketingError reports a malformed record that was skipped during
// bucket assignment. It is collected and reported, never fatal to the
// batch.
type BucketingError struct {
	RecordKey string
	Reason    string
}

// Error implements the error interface.
func (e *BucketingError) Error() string {
	return fmt.Sprintf("bucketing: record %q skipped: %s", e.RecordKey, e.Reason)
}
