package tasks

import (
	"time"

	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// TaskToRecord converts a Google Task to an export record. The API
// reports due dates as RFC 3339 timestamps at midnight UTC with date
// precision only, so the due date is reinterpreted as a local calendar
// date.
func TaskToRecord(task *tasksapi.Task, sourceOrder int) domain.Record {
	rec := domain.Record{
		Key:         task.Id,
		Kind:        domain.KindTask,
		Title:       task.Title,
		Notes:       task.Notes,
		Completed:   task.Status == statusCompleted,
		SourceOrder: sourceOrder,
	}

	if task.Due != "" {
		if due, err := time.Parse(time.RFC3339, task.Due); err == nil {
			due = due.UTC()
			rec.Due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.Local)
		}
	}

	return rec
}
