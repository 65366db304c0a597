package domain

import "time"

// RecordKind identifies the source type of a record.
type RecordKind string

const (
	// KindEvent is a Google Calendar event.
	KindEvent RecordKind = "event"
	// KindTask is a Google Tasks task.
	KindTask RecordKind = "task"
)

// Record is one exportable unit: a calendar event or a task, normalised
// into a source-agnostic shape by the connectors.
type Record struct {
	// Key is the stable remote identifier, unique within its source.
	// The exporter derives the managed-line item key from it, so it must
	// not change between fetches of the same remote object.
	Key string

	// Kind is the source type (event or task).
	Kind RecordKind

	// Title is the display text (event summary or task title).
	Title string

	// Start and End are set for timed events. Both zero for all-day
	// events and tasks.
	Start time.Time
	End   time.Time

	// AllDay marks an all-day calendar event.
	AllDay bool

	// Due is the task due date, truncated to date precision in the local
	// zone. Zero when the task has no due date. Unused for events.
	Due time.Time

	// Location is the event location, if any.
	Location string

	// Notes is the free-form description (task notes).
	Notes string

	// Completed marks a completed task. Events have no completion state.
	Completed bool

	// SourceOrder is the index of the record in the original fetch,
	// used as an ordering tie-break within a bucket.
	SourceOrder int
}

// HasDue reports whether the record carries a due date.
func (r Record) HasDue() bool {
	return !r.Due.IsZero()
}

// Timed reports whether the record has a concrete start/end time span.
func (r Record) Timed() bool {
	return !r.AllDay && !r.Start.IsZero() && !r.End.IsZero()
}
