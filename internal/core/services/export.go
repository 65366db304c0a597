package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driven"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driving"
	"github.com/dnvriend/google-gmail-tool/internal/export"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

// Ensure ExportService implements the driving port.
var _ driving.Exporter = (*ExportService)(nil)

// ExportService runs the smart-merge export pipeline. One invocation is
// a single linear pass: fetch, bucket, then per note parse, merge and
// commit. All data is in memory before any merge begins, and a note is
// either committed whole or left untouched.
type ExportService struct {
	events driven.EventSource
	tasks  driven.TaskSource
	vault  driven.NoteVault
	clock  func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(
	events driven.EventSource,
	tasks driven.TaskSource,
	vault driven.NoteVault,
) *ExportService {
	return &ExportService{
		events: events,
		tasks:  tasks,
		vault:  vault,
		clock:  time.Now,
	}
}

// ExportCalendar exports calendar events to daily notes, one note per
// date in the window. Dates with no events and no existing note are not
// touched; an existing note whose events vanished gets its calendar
// section emptied so it reflects reality.
func (s *ExportService) ExportCalendar(
	ctx context.Context,
	opts driving.ExportOptions,
) (*driving.ExportResult, error) {
	anchor := s.anchor(opts)
	days := opts.Days
	if days <= 0 {
		days = 1
	}
	window := domain.Window(anchor, days)
	if err := window.Validate(); err != nil {
		return nil, err
	}

	logger.Section("calendar export")
	logger.Info("fetching events between %s and %s",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))

	records, err := s.events.ListEvents(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	buckets, skipped, err := export.Assign(records, window, anchor, export.AssignOptions{})
	if err != nil {
		return nil, err
	}
	logger.Debug("assigned %d events to %d date buckets, %d skipped",
		len(records), len(buckets), len(skipped))

	result := &driving.ExportResult{Skipped: skipped}
	for day := window.Start; day.Before(window.End); day = day.AddDate(0, 0, 1) {
		id := domain.DateIdentity(day)
		path := s.vault.DailyNotePath(day)

		content, exists, err := s.vault.ReadNote(path)
		if err != nil {
			return result, err
		}
		if _, hasEvents := buckets[id]; !hasEvents && !exists {
			continue
		}

		set := export.CalendarSections(day)
		doc := export.Parse(content, set)
		if !exists {
			scaffoldDailyNote(doc, day, "")
		}

		merged := export.Merge(doc, buckets, set)
		if err := export.Commit(path, merged); err != nil {
			return result, err
		}
		logger.Info("wrote %s", path)
		result.PathsWritten = append(result.PathsWritten, path)
	}

	return result, nil
}

// ExportTasks exports tasks to the daily note of the anchor date,
// bucketed by due-date status relative to that date.
func (s *ExportService) ExportTasks(
	ctx context.Context,
	opts driving.ExportOptions,
) (*driving.ExportResult, error) {
	anchor := s.anchor(opts)
	window := domain.Window(anchor, 1)

	logger.Section("task export")
	records, err := s.tasks.ListTasks(ctx, opts.IncludeCompleted)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}

	buckets, skipped, err := export.Assign(records, window, anchor,
		export.AssignOptions{IncludeCompleted: opts.IncludeCompleted})
	if err != nil {
		return nil, err
	}
	logger.Debug("assigned %d tasks to %d status buckets, %d skipped",
		len(records), len(buckets), len(skipped))

	path := s.vault.DailyNotePath(anchor)
	content, exists, err := s.vault.ReadNote(path)
	if err != nil {
		return nil, err
	}

	set := export.TaskSections()
	doc := export.Parse(content, set)
	if !exists {
		scaffoldDailyNote(doc, anchor, "## Tasks")
	}

	merged := export.Merge(doc, buckets, set)
	if err := export.Commit(path, merged); err != nil {
		return &driving.ExportResult{Skipped: skipped}, err
	}
	logger.Info("wrote %s", path)

	return &driving.ExportResult{
		PathsWritten: []string{path},
		Skipped:      skipped,
	}, nil
}

func (s *ExportService) anchor(opts driving.ExportOptions) time.Time {
	if opts.Date.IsZero() {
		return s.clock()
	}
	return opts.Date
}

// scaffoldDailyNote seeds a brand-new daily note with frontmatter and a
// title heading. The scaffolding is unmanaged text: it is written once
// and never touched by later merges.
func scaffoldDailyNote(doc *domain.NoteDocument, date time.Time, container string) {
	day := date.Format("2006-01-02")
	lines := []string{
		"---",
		"date: " + day,
		"type: daily",
		"tags:",
		"  - daily",
		"---",
		"",
		"# " + day,
		"",
	}
	if container != "" {
		lines = append(lines, container)
	}
	doc.AppendUnmanaged(lines...)
}
