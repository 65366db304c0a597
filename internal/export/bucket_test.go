package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

var assignNow = time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func task(key string, due time.Time) domain.Record {
	return domain.Record{Key: key, Kind: domain.KindTask, Title: key, Due: due}
}

func TestAssign_TaskBucketBoundaries(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want domain.BucketIdentity
		drop bool
	}{
		{"yesterday is overdue", day(-1), domain.BucketOverdue, false},
		{"long past is overdue", day(-30), domain.BucketOverdue, false},
		{"today", day(0), domain.BucketToday, false},
		{"tomorrow", day(1), domain.BucketTomorrow, false},
		{"two days out is this week", day(2), domain.BucketThisWeek, false},
		{"seventh day is this week", day(7), domain.BucketThisWeek, false},
		{"eighth day is dropped", day(8), "", true},
		{"no due date", time.Time{}, domain.BucketNoDue, false},
	}

	window := domain.Window(assignNow, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, skipped, err := Assign(
				[]domain.Record{task("t1", tt.due)}, window, assignNow, AssignOptions{})
			require.NoError(t, err)
			assert.Empty(t, skipped)

			if tt.drop {
				assert.Empty(t, buckets)
				return
			}
			require.Contains(t, buckets, tt.want)
			assert.Len(t, buckets[tt.want].Records, 1)
		})
	}
}

func TestAssign_CompletedTasksExcludedByDefault(t *testing.T) {
	done := task("done", day(0))
	done.Completed = true
	open := task("open", day(0))

	buckets, _, err := Assign([]domain.Record{done, open}, domain.Window(assignNow, 1), assignNow, AssignOptions{})
	require.NoError(t, err)
	require.Len(t, buckets[domain.BucketToday].Records, 1)
	assert.Equal(t, "open", buckets[domain.BucketToday].Records[0].Key)

	buckets, _, err = Assign([]domain.Record{done, open}, domain.Window(assignNow, 1), assignNow,
		AssignOptions{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Len(t, buckets[domain.BucketToday].Records, 2)
}

func TestAssign_EventsBucketByStartDate(t *testing.T) {
	window := domain.Window(assignNow, 2)

	morning := domain.Record{
		Key: "e1", Kind: domain.KindEvent,
		Start: time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC),
	}
	// Spans midnight: belongs to its start date only.
	overnight := domain.Record{
		Key: "e2", Kind: domain.KindEvent,
		Start: time.Date(2025, 11, 20, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 11, 21, 2, 0, 0, 0, time.UTC),
	}
	nextDay := domain.Record{
		Key: "e3", Kind: domain.KindEvent,
		Start: time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 11, 21, 10, 0, 0, 0, time.UTC),
	}
	outside := domain.Record{
		Key: "e4", Kind: domain.KindEvent,
		Start: time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 11, 25, 10, 0, 0, 0, time.UTC),
	}

	buckets, skipped, err := Assign(
		[]domain.Record{morning, overnight, nextDay, outside}, window, assignNow, AssignOptions{})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	require.Len(t, buckets, 2)
	assert.Len(t, buckets["2025-11-20"].Records, 2)
	require.Len(t, buckets["2025-11-21"].Records, 1)
	assert.Equal(t, "e3", buckets["2025-11-21"].Records[0].Key)
}

func TestAssign_InvalidWindow(t *testing.T) {
	window := domain.TimeWindow{Start: assignNow, End: assignNow.Add(-time.Hour)}
	_, _, err := Assign(nil, window, assignNow, AssignOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestAssign_MalformedRecordsSkippedNotFatal(t *testing.T) {
	records := []domain.Record{
		{Kind: domain.KindTask, Title: "no key"},
		{Key: "e-nostart", Kind: domain.KindEvent},
		{Key: "weird", Kind: domain.RecordKind("contact")},
		task("ok", day(0)),
	}

	buckets, skipped, err := Assign(records, domain.Window(assignNow, 1), assignNow, AssignOptions{})
	require.NoError(t, err)
	assert.Len(t, skipped, 3)
	require.Len(t, buckets[domain.BucketToday].Records, 1)
	assert.Equal(t, "ok", buckets[domain.BucketToday].Records[0].Key)
}

func TestAssign_SourceOrderWithinBucket(t *testing.T) {
	a := task("a", day(0))
	a.SourceOrder = 2
	b := task("b", day(0))
	b.SourceOrder = 0
	c := task("c", day(0))
	c.SourceOrder = 1

	buckets, _, err := Assign([]domain.Record{a, b, c}, domain.Window(assignNow, 1), assignNow, AssignOptions{})
	require.NoError(t, err)

	got := buckets[domain.BucketToday].Records
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{got[0].Key, got[1].Key, got[2].Key})
}
