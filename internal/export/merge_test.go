package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

func taskBucket(id domain.BucketIdentity, records ...domain.Record) map[domain.BucketIdentity]domain.Bucket {
	return map[domain.BucketIdentity]domain.Bucket{
		id: {Identity: id, Records: records},
	}
}

func taskRecord(key, title string) domain.Record {
	return domain.Record{Key: key, Kind: domain.KindTask, Title: title}
}

func TestMerge_CheckedStatePreservedAcrossTextChange(t *testing.T) {
	old := Parse(strings.Join([]string{
		"### Today",
		"- [x] <!--id:A--> Buy milk",
	}, "\n"), TaskSections())

	fresh := taskBucket(domain.BucketToday, taskRecord("A", "Buy milk and eggs"))
	merged := Merge(old, fresh, TaskSections())

	section := merged.SectionFor(domain.BucketToday)
	require.NotNil(t, section)
	require.Len(t, section.Lines, 1)
	assert.True(t, section.Lines[0].Checked, "user's checkmark survives")
	assert.Equal(t, "Buy milk and eggs", section.Lines[0].Text, "machine-owned text wins")
	assert.Equal(t, "- [x] <!--id:A--> Buy milk and eggs", formatManagedLine(section.Lines[0]))
}

func TestMerge_OrphanRemoved(t *testing.T) {
	old := Parse(strings.Join([]string{
		"### Today",
		"- [ ] <!--id:B--> Call dentist",
		"- [x] <!--id:A--> Buy milk",
	}, "\n"), TaskSections())

	// Task B completed elsewhere: absent from the fresh bucket.
	fresh := taskBucket(domain.BucketToday, taskRecord("A", "Buy milk"))
	merged := Merge(old, fresh, TaskSections())

	section := merged.SectionFor(domain.BucketToday)
	require.Len(t, section.Lines, 1)
	assert.Equal(t, "A", section.Lines[0].ItemKey)
	assert.NotContains(t, Serialize(merged), "Call dentist")
}

func TestMerge_NewItemDefaultsUnchecked(t *testing.T) {
	old := Parse("### Tomorrow\n", TaskSections())

	fresh := taskBucket(domain.BucketTomorrow, taskRecord("C", "Water plants"))
	merged := Merge(old, fresh, TaskSections())

	section := merged.SectionFor(domain.BucketTomorrow)
	require.Len(t, section.Lines, 1)
	assert.False(t, section.Lines[0].Checked)
	assert.Equal(t, "C", section.Lines[0].ItemKey)
}

func TestMerge_FreshOrderWins(t *testing.T) {
	old := Parse(strings.Join([]string{
		"### Today",
		"- [x] <!--id:B--> second",
		"- [ ] <!--id:A--> first",
	}, "\n"), TaskSections())

	fresh := taskBucket(domain.BucketToday,
		taskRecord("A", "first"), taskRecord("B", "second"))
	merged := Merge(old, fresh, TaskSections())

	section := merged.SectionFor(domain.BucketToday)
	require.Len(t, section.Lines, 2)
	assert.Equal(t, "A", section.Lines[0].ItemKey)
	assert.False(t, section.Lines[0].Checked)
	assert.Equal(t, "B", section.Lines[1].ItemKey)
	assert.True(t, section.Lines[1].Checked)
}

func TestMerge_DuplicateOldKeyFirstWins(t *testing.T) {
	old := Parse(strings.Join([]string{
		"### Today",
		"- [x] <!--id:A--> manual duplicate one",
		"- [ ] <!--id:A--> manual duplicate two",
	}, "\n"), TaskSections())

	fresh := taskBucket(domain.BucketToday, taskRecord("A", "Buy milk"))
	merged := Merge(old, fresh, TaskSections())

	section := merged.SectionFor(domain.BucketToday)
	require.Len(t, section.Lines, 1)
	assert.True(t, section.Lines[0].Checked, "first occurrence is authoritative")
}

func TestMerge_EmptyFreshSectionKeepsHeading(t *testing.T) {
	old := Parse(strings.Join([]string{
		"### Today",
		"- [ ] <!--id:A--> Buy milk",
		"",
		"### Tomorrow",
		"- [ ] <!--id:B--> Water plants",
	}, "\n"), TaskSections())

	// No tasks at all today: every section empties but the skeleton stays.
	merged := Merge(old, map[domain.BucketIdentity]domain.Bucket{}, TaskSections())

	today := merged.SectionFor(domain.BucketToday)
	require.NotNil(t, today)
	assert.Empty(t, today.Lines)
	assert.Equal(t, "### Today", today.Heading)

	out := Serialize(merged)
	assert.Contains(t, out, "### Today")
	assert.Contains(t, out, "### Tomorrow")
	assert.NotContains(t, out, "<!--id:")
}

func TestMerge_UnmanagedTextPreservedByteForByte(t *testing.T) {
	raw := strings.Join([]string{
		"---",
		"date: 2025-11-20",
		"---",
		"",
		"# 2025-11-20",
		"",
		"Some personal journaling the exporter must never touch.",
		"",
		"### Today",
		"- [ ] <!--id:A--> Buy milk",
		"  my own indented remark",
		"",
		"## Journal",
		"More prose after the managed part.",
		"",
	}, "\n")
	old := Parse(raw, TaskSections())

	fresh := taskBucket(domain.BucketToday, taskRecord("A", "Buy milk"))
	merged := Merge(old, fresh, TaskSections())
	out := Serialize(merged)

	assert.Contains(t, out, "Some personal journaling the exporter must never touch.")
	assert.Contains(t, out, "  my own indented remark")
	assert.Contains(t, out, "## Journal\nMore prose after the managed part.")
	assert.Equal(t, raw, out, "nothing changed upstream, output is byte-identical")
}

func TestMerge_Idempotent(t *testing.T) {
	old := Parse(strings.Join([]string{
		"### Overdue",
		"- [x] <!--id:X--> Pay invoice (due: 2025-11-01)",
		"",
		"### Today",
		"- [ ] <!--id:A--> Buy milk",
		"- [x] <!--id:gone--> finished elsewhere",
		"",
	}, "\n"), TaskSections())

	fresh := map[domain.BucketIdentity]domain.Bucket{
		domain.BucketOverdue: {Identity: domain.BucketOverdue,
			Records: []domain.Record{taskRecord("X", "Pay invoice")}},
		domain.BucketToday: {Identity: domain.BucketToday,
			Records: []domain.Record{taskRecord("A", "Buy milk and eggs")}},
	}

	once := Merge(old, fresh, TaskSections())
	twice := Merge(once, fresh, TaskSections())
	assert.Equal(t, Serialize(once), Serialize(twice))

	// And through a full serialize/parse cycle, as a re-run would do.
	reparsed := Parse(Serialize(once), TaskSections())
	again := Merge(reparsed, fresh, TaskSections())
	assert.Equal(t, Serialize(once), Serialize(again))
}

func TestMerge_BucketMoveLosesCheckedState(t *testing.T) {
	// Documented behaviour: a task moving from Today to This Week
	// reappears unchecked in the new section and vanishes from the old.
	old := Parse(strings.Join([]string{
		"### Today",
		"- [x] <!--id:A--> Ship release (due: 2025-11-20)",
		"",
		"### This Week",
		"",
	}, "\n"), TaskSections())

	fresh := taskBucket(domain.BucketThisWeek, taskRecord("A", "Ship release"))
	merged := Merge(old, fresh, TaskSections())

	assert.Empty(t, merged.SectionFor(domain.BucketToday).Lines)
	week := merged.SectionFor(domain.BucketThisWeek)
	require.Len(t, week.Lines, 1)
	assert.False(t, week.Lines[0].Checked)
}

func TestMerge_FreshDocumentGetsFullSkeleton(t *testing.T) {
	merged := Merge(&domain.NoteDocument{},
		taskBucket(domain.BucketToday, taskRecord("A", "Buy milk")), TaskSections())

	out := Serialize(merged)
	for _, heading := range []string{"### Overdue", "### Today", "### Tomorrow", "### This Week", "### No Due Date"} {
		assert.Contains(t, out, heading)
	}
	assert.Contains(t, out, "- [ ] <!--id:A--> Buy milk")
}

func TestMerge_SectionAppendedToExistingNote(t *testing.T) {
	// A daily note written by hand, no managed sections yet.
	old := Parse("# 2025-11-20\n\nhand-written preamble\n", TaskSections())

	merged := Merge(old, taskBucket(domain.BucketToday, taskRecord("A", "Buy milk")), TaskSections())
	out := Serialize(merged)

	assert.True(t, strings.HasPrefix(out, "# 2025-11-20\n\nhand-written preamble\n"))
	assert.Contains(t, out, "### Today\n- [ ] <!--id:A--> Buy milk")
}

func TestMerge_CalendarScenario(t *testing.T) {
	set := CalendarSections(assignNow)
	id := domain.DateIdentity(assignNow)

	old := Parse(strings.Join([]string{
		"## Calendar",
		"- [x] <!--id:ev1--> 09:00-10:00 Team Standup @ Zoom",
		"- [ ] <!--id:ev2--> 14:00-15:00 1:1",
	}, "\n"), set)

	start := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	merged := Merge(old, map[domain.BucketIdentity]domain.Bucket{
		id: {Identity: id, Records: []domain.Record{
			{Key: "ev1", Kind: domain.KindEvent, Title: "Team Standup", Location: "Meet",
				Start: start, End: start.Add(time.Hour)},
		}},
	}, set)

	section := merged.SectionFor(id)
	require.Len(t, section.Lines, 1)
	assert.True(t, section.Lines[0].Checked)
	assert.Equal(t, "09:00-10:00 Team Standup @ Meet", section.Lines[0].Text)
}
