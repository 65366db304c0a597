package export

import (
	"sort"
	"time"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// AssignOptions controls bucket assignment.
type AssignOptions struct {
	// IncludeCompleted keeps completed tasks instead of excluding them
	// before bucketing.
	IncludeCompleted bool
}

// Assign distributes records over their target buckets.
//
// Events bucket by their local start date; an event spanning midnight
// appears in the bucket of its start date only. Events outside the
// window are dropped. Tasks bucket by due date relative to now: Overdue,
// Today, Tomorrow, This Week (within 7 days), No Due Date; tasks due
// further out are dropped, matching the daily-note horizon.
//
// Malformed records are skipped and reported via the returned
// BucketingError slice; they never fail the batch. An inverted window
// fails with domain.ErrInvalidWindow.
func Assign(
	records []domain.Record,
	window domain.TimeWindow,
	now time.Time,
	opts AssignOptions,
) (map[domain.BucketIdentity]domain.Bucket, []domain.BucketingError, error) {
	if err := window.Validate(); err != nil {
		return nil, nil, err
	}

	buckets := make(map[domain.BucketIdentity]domain.Bucket)
	var skipped []domain.BucketingError

	today := midnight(now)

	for _, rec := range records {
		if rec.Key == "" {
			skipped = append(skipped, domain.BucketingError{
				RecordKey: rec.Title, Reason: "missing record key",
			})
			continue
		}

		switch rec.Kind {
		case domain.KindEvent:
			if rec.Start.IsZero() {
				skipped = append(skipped, domain.BucketingError{
					RecordKey: rec.Key, Reason: "event has no start time",
				})
				continue
			}
			if !window.Contains(rec.Start) {
				continue
			}
			add(buckets, domain.DateIdentity(rec.Start.In(now.Location())), rec)

		case domain.KindTask:
			if rec.Completed && !opts.IncludeCompleted {
				continue
			}
			id, ok := taskIdentity(rec, today)
			if !ok {
				continue
			}
			add(buckets, id, rec)

		default:
			skipped = append(skipped, domain.BucketingError{
				RecordKey: rec.Key, Reason: "unknown record kind " + string(rec.Kind),
			})
		}
	}

	for id, b := range buckets {
		sort.SliceStable(b.Records, func(i, j int) bool {
			return b.Records[i].SourceOrder < b.Records[j].SourceOrder
		})
		buckets[id] = b
	}

	return buckets, skipped, nil
}

// taskIdentity maps a task's due date to its status bucket. The second
// return value is false when the task falls outside the note's horizon.
func taskIdentity(rec domain.Record, today time.Time) (domain.BucketIdentity, bool) {
	if !rec.HasDue() {
		return domain.BucketNoDue, true
	}

	due := midnightIn(rec.Due, today.Location())
	switch {
	case due.Before(today):
		return domain.BucketOverdue, true
	case due.Equal(today):
		return domain.BucketToday, true
	case due.Equal(today.AddDate(0, 0, 1)):
		return domain.BucketTomorrow, true
	case !due.After(today.AddDate(0, 0, 7)):
		return domain.BucketThisWeek, true
	default:
		return "", false
	}
}

func add(buckets map[domain.BucketIdentity]domain.Bucket, id domain.BucketIdentity, rec domain.Record) {
	b := buckets[id]
	b.Identity = id
	b.Records = append(b.Records, rec)
	buckets[id] = b
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func midnightIn(t time.Time, loc *time.Location) time.Time {
	// Due dates carry date precision only; compare by calendar date.
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
