package driving

import (
	"context"
	"time"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// ExportOptions selects what one export invocation covers.
type ExportOptions struct {
	// Date anchors the export: the daily note's date, and "today" for
	// relative task bucketing. Zero means time.Now().
	Date time.Time

	// Days is the number of days the event window spans, starting at
	// Date. Zero means one day. Ignored for tasks.
	Days int

	// IncludeCompleted keeps completed tasks in the export.
	IncludeCompleted bool
}

// ExportResult reports what an export invocation did.
type ExportResult struct {
	// PathsWritten lists the note files committed, in write order.
	PathsWritten []string

	// Skipped lists malformed records that were excluded from
	// bucketing. Reported to the user, never fatal.
	Skipped []domain.BucketingError
}

// Exporter runs the smart-merge export pipeline: fetch, bucket, parse
// the existing notes, merge and commit. One linear pass per invocation;
// either a note is committed whole or it is left untouched.
type Exporter interface {
	// ExportCalendar exports calendar events to daily notes, one note
	// per date in the window.
	ExportCalendar(ctx context.Context, opts ExportOptions) (*ExportResult, error)

	// ExportTasks exports tasks to the daily note of the anchor date,
	// bucketed by due-date status.
	ExportTasks(ctx context.Context, opts ExportOptions) (*ExportResult, error)
}
