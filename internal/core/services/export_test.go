package services

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driving"
	"github.com/dnvriend/google-gmail-tool/internal/vault"
)

type fakeEventSource struct {
	records []domain.Record
	err     error
}

func (f *fakeEventSource) ListEvents(_ context.Context, _ domain.TimeWindow) ([]domain.Record, error) {
	return f.records, f.err
}

type fakeTaskSource struct {
	records []domain.Record
	err     error
}

func (f *fakeTaskSource) ListTasks(_ context.Context, _ bool) ([]domain.Record, error) {
	return f.records, f.err
}

var exportDate = time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, events []domain.Record, tasks []domain.Record) (*ExportService, *vault.Vault) {
	t.Helper()
	v, err := vault.New(t.TempDir())
	require.NoError(t, err)

	svc := NewExportService(&fakeEventSource{records: events}, &fakeTaskSource{records: tasks}, v)
	svc.clock = func() time.Time { return exportDate }
	return svc, v
}

func TestExportTasks_CreatesDailyNote(t *testing.T) {
	tasks := []domain.Record{
		{Key: "t1", Kind: domain.KindTask, Title: "Review PR",
			Due: exportDate, Notes: "Check code quality"},
		{Key: "t2", Kind: domain.KindTask, Title: "Water plants",
			Due: exportDate.AddDate(0, 0, 1)},
	}
	svc, v := newTestService(t, nil, tasks)

	result, err := svc.ExportTasks(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)
	require.Len(t, result.PathsWritten, 1)
	assert.Equal(t, v.DailyNotePath(exportDate), result.PathsWritten[0])

	content, err := os.ReadFile(result.PathsWritten[0])
	require.NoError(t, err)
	note := string(content)

	assert.True(t, strings.HasPrefix(note, "---\ndate: 2025-11-20\n"))
	assert.Contains(t, note, "# 2025-11-20")
	assert.Contains(t, note, "## Tasks")
	assert.Contains(t, note, "### Today\n- [ ] <!--id:t1--> Review PR (due: 2025-11-20) - Check code quality")
	assert.Contains(t, note, "### Tomorrow\n- [ ] <!--id:t2--> Water plants (due: 2025-11-21)")
	// Full skeleton even for empty buckets.
	assert.Contains(t, note, "### Overdue")
	assert.Contains(t, note, "### No Due Date")
}

func TestExportTasks_RerunIsByteIdentical(t *testing.T) {
	tasks := []domain.Record{
		{Key: "t1", Kind: domain.KindTask, Title: "Review PR", Due: exportDate},
	}
	svc, _ := newTestService(t, nil, tasks)

	result, err := svc.ExportTasks(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)
	first, err := os.ReadFile(result.PathsWritten[0])
	require.NoError(t, err)

	_, err = svc.ExportTasks(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)
	second, err := os.ReadFile(result.PathsWritten[0])
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestExportTasks_PreservesUserEdits(t *testing.T) {
	tasks := []domain.Record{
		{Key: "t1", Kind: domain.KindTask, Title: "Review PR", Due: exportDate},
	}
	svc, _ := newTestService(t, nil, tasks)

	result, err := svc.ExportTasks(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)
	path := result.PathsWritten[0]

	// The user checks the box, adds a personal line, and the task title
	// changes upstream.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(content),
		"- [ ] <!--id:t1--> Review PR (due: 2025-11-20)",
		"- [x] <!--id:t1--> Review PR (due: 2025-11-20)\n- [ ] my own errand", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	svc.tasks.(*fakeTaskSource).records[0].Title = "Review PR #123"

	_, err = svc.ExportTasks(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	note := string(content)
	assert.Contains(t, note, "- [x] <!--id:t1--> Review PR #123 (due: 2025-11-20)",
		"checkmark survives the upstream title change")
	assert.Contains(t, note, "- [ ] my own errand", "handwritten line is untouched")
}

func TestExportCalendar_OneNotePerDate(t *testing.T) {
	events := []domain.Record{
		{Key: "e1", Kind: domain.KindEvent, Title: "Standup",
			Start: time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)},
		{Key: "e2", Kind: domain.KindEvent, Title: "Planning",
			Start: time.Date(2025, 11, 21, 14, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 11, 21, 15, 0, 0, 0, time.UTC)},
	}
	svc, v := newTestService(t, events, nil)

	result, err := svc.ExportCalendar(context.Background(),
		driving.ExportOptions{Date: exportDate, Days: 3})
	require.NoError(t, err)

	// Two notes written; the third day has no events and no note.
	require.Len(t, result.PathsWritten, 2)
	assert.Equal(t, v.DailyNotePath(exportDate), result.PathsWritten[0])

	content, err := os.ReadFile(result.PathsWritten[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Calendar\n- [ ] <!--id:e1--> 09:00-09:30 Standup")

	content, err = os.ReadFile(result.PathsWritten[1])
	require.NoError(t, err)
	assert.Contains(t, string(content), "- [ ] <!--id:e2--> 14:00-15:00 Planning")

	_, err = os.Stat(v.DailyNotePath(exportDate.AddDate(0, 0, 2)))
	assert.True(t, os.IsNotExist(err))
}

func TestExportCalendar_EmptiesVanishedEvents(t *testing.T) {
	events := []domain.Record{
		{Key: "e1", Kind: domain.KindEvent, Title: "Standup",
			Start: time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)},
	}
	svc, _ := newTestService(t, events, nil)

	result, err := svc.ExportCalendar(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)
	path := result.PathsWritten[0]

	// The event is cancelled; the existing note keeps its heading but
	// loses the line.
	svc.events.(*fakeEventSource).records = nil
	_, err = svc.ExportCalendar(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Calendar")
	assert.NotContains(t, string(content), "Standup")
}

func TestExportTasks_ReportsSkippedRecords(t *testing.T) {
	tasks := []domain.Record{
		{Kind: domain.KindTask, Title: "no key"},
		{Key: "ok", Kind: domain.KindTask, Title: "fine"},
	}
	svc, _ := newTestService(t, nil, tasks)

	result, err := svc.ExportTasks(context.Background(), driving.ExportOptions{Date: exportDate})
	require.NoError(t, err)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Error(), "missing record key")
}
