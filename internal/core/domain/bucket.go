package domain

import (
	"fmt"
	"time"
)

// BucketIdentity names a target grouping of records. For events it is an
// ISO date (the note's date); for tasks it is one of the status labels
// below. The identity doubles as the logical key of the note section the
// bucket renders into.
type BucketIdentity string

// Task status bucket identities, in priority order.
const (
	BucketOverdue  BucketIdentity = "Overdue"
	BucketToday    BucketIdentity = "Today"
	BucketTomorrow BucketIdentity = "Tomorrow"
	BucketThisWeek BucketIdentity = "This Week"
	BucketNoDue    BucketIdentity = "No Due Date"
)

// TaskBucketOrder is the fixed ordering of task status buckets, both for
// section layout and for bucket-level priority.
var TaskBucketOrder = []BucketIdentity{
	BucketOverdue,
	BucketToday,
	BucketTomorrow,
	BucketThisWeek,
	BucketNoDue,
}

// DateIdentity returns the bucket identity for a calendar date.
func DateIdentity(t time.Time) BucketIdentity {
	return BucketIdentity(t.Format("2006-01-02"))
}

// Bucket is a named grouping of records sharing a target note identity.
type Bucket struct {
	Identity BucketIdentity
	Records  []Record
}

// TimeWindow is the half-open export window selected by the CLI.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Validate returns ErrInvalidWindow when the window is inverted.
func (w TimeWindow) Validate() error {
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: start %s after end %s",
			ErrInvalidWindow, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls inside the window (start inclusive,
// end exclusive).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Window builds a TimeWindow covering days whole days starting at the
// local midnight of start.
func Window(start time.Time, days int) TimeWindow {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return TimeWindow{Start: day, End: day.AddDate(0, 0, days)}
}
