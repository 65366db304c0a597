// Package tasks provides CRUD access to Google Tasks and normalises
// tasks into export records. It works with the user's default task list.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tasksapi "google.golang.org/api/tasks/v1"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google"
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driven"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

const defaultMaxResults = 100

// Task status values used by the Tasks API.
const (
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Ensure Client implements the driven port.
var _ driven.TaskSource = (*Client)(nil)

// Client wraps the Google Tasks API for the default task list.
type Client struct {
	service *tasksapi.Service
	limiter *google.RateLimiter

	mu         sync.Mutex
	tasklistID string // discovered lazily, cached per invocation
}

// NewClient creates a tasks client.
func NewClient(service *tasksapi.Service) *Client {
	return &Client{
		service: service,
		limiter: google.NewRateLimiter(google.ServiceTasks),
	}
}

// defaultTasklistID discovers and caches the ID of the default task list.
func (c *Client) defaultTasklistID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tasklistID != "" {
		return c.tasklistID, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := c.service.Tasklists.List().MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list task lists: %w", c.limiter.WrapError(err))
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("no task lists found: %w", domain.ErrNotFound)
	}

	c.tasklistID = resp.Items[0].Id
	logger.Debug("tasks: default task list %s", c.tasklistID)
	return c.tasklistID, nil
}

// ListTasks returns tasks from the default list as export records, in
// API order. Completed and hidden tasks are only requested when
// includeCompleted is set.
func (c *Client) ListTasks(ctx context.Context, includeCompleted bool) ([]domain.Record, error) {
	items, err := c.listRaw(ctx, includeCompleted, "")
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		records = append(records, TaskToRecord(item, len(records)))
	}
	return records, nil
}

// Search returns raw tasks whose title or notes contain the query,
// case-insensitive. Filtering is client-side; the Tasks API has no
// server-side search.
func (c *Client) Search(ctx context.Context, query string, includeCompleted bool) ([]*tasksapi.Task, error) {
	return c.listRaw(ctx, includeCompleted, query)
}

func (c *Client) listRaw(ctx context.Context, includeCompleted bool, query string) ([]*tasksapi.Task, error) {
	tasklistID, err := c.defaultTasklistID(ctx)
	if err != nil {
		return nil, err
	}

	var items []*tasksapi.Task
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.service.Tasks.List(tasklistID).
			MaxResults(defaultMaxResults).
			ShowCompleted(includeCompleted).
			ShowHidden(includeCompleted).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", c.limiter.WrapError(err))
		}

		for _, item := range resp.Items {
			if item == nil || item.Id == "" {
				continue
			}
			if query != "" && !matchesQuery(item, query) {
				continue
			}
			items = append(items, item)
		}

		if resp.NextPageToken == "" {
			return items, nil
		}
		pageToken = resp.NextPageToken
	}
}

// Create adds a task to the default list. due may be zero for no due
// date; the API stores due dates as RFC 3339 midnight UTC with date
// precision only.
func (c *Client) Create(ctx context.Context, title, notes string, due time.Time) (*tasksapi.Task, error) {
	tasklistID, err := c.defaultTasklistID(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	task := &tasksapi.Task{Title: title, Notes: notes}
	if !due.IsZero() {
		task.Due = formatDue(due)
	}

	created, err := c.service.Tasks.Insert(tasklistID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create task: %w", c.limiter.WrapError(err))
	}
	logger.Info("tasks: created %s", created.Id)
	return created, nil
}

// Update patches the given fields of a task. Empty title/notes and zero
// due leave the current values untouched.
func (c *Client) Update(ctx context.Context, taskID, title, notes string, due time.Time) (*tasksapi.Task, error) {
	tasklistID, err := c.defaultTasklistID(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	patch := &tasksapi.Task{Id: taskID, Title: title, Notes: notes}
	if !due.IsZero() {
		patch.Due = formatDue(due)
	}

	updated, err := c.service.Tasks.Patch(tasklistID, taskID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", taskID, c.limiter.WrapError(err))
	}
	return updated, nil
}

// Complete marks a task as completed.
func (c *Client) Complete(ctx context.Context, taskID string) error {
	return c.setStatus(ctx, taskID, statusCompleted)
}

// Uncomplete reverts a task to needing action.
func (c *Client) Uncomplete(ctx context.Context, taskID string) error {
	return c.setStatus(ctx, taskID, statusNeedsAction)
}

func (c *Client) setStatus(ctx context.Context, taskID, status string) error {
	tasklistID, err := c.defaultTasklistID(ctx)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	patch := &tasksapi.Task{Id: taskID, Status: status}
	if status == statusNeedsAction {
		// Clearing completion requires dropping the completed stamp.
		patch.Completed = nil
		patch.ForceSendFields = append(patch.ForceSendFields, "Completed")
	}

	if _, err := c.service.Tasks.Patch(tasklistID, taskID, patch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("set task %s status %s: %w", taskID, status, c.limiter.WrapError(err))
	}
	logger.Info("tasks: %s -> %s", taskID, status)
	return nil
}

// Delete removes a task permanently.
func (c *Client) Delete(ctx context.Context, taskID string) error {
	tasklistID, err := c.defaultTasklistID(ctx)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if err := c.service.Tasks.Delete(tasklistID, taskID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, c.limiter.WrapError(err))
	}
	logger.Info("tasks: deleted %s", taskID)
	return nil
}

func matchesQuery(task *tasksapi.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(task.Title), q) ||
		strings.Contains(strings.ToLower(task.Notes), q)
}

// formatDue renders a due date the way the Tasks API expects: RFC 3339
// at midnight UTC. The API keeps date precision only.
func formatDue(due time.Time) string {
	return time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}
