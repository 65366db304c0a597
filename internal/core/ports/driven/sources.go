package driven

import (
	"context"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// EventSource fetches calendar events as normalised records. The export
// core never talks to the remote API directly; implementations hand it
// records with kind, title, time span, stable key and source order
// already filled in.
type EventSource interface {
	// ListEvents returns the events whose start falls inside the window,
	// in the order the API returned them.
	ListEvents(ctx context.Context, window domain.TimeWindow) ([]domain.Record, error)
}

// TaskSource fetches tasks as normalised records.
type TaskSource interface {
	// ListTasks returns open tasks, or all tasks when includeCompleted
	// is set, in the order the API returned them.
	ListTasks(ctx context.Context, includeCompleted bool) ([]domain.Record, error)
}
