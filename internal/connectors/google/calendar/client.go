// Package calendar fetches Google Calendar events and normalises them
// into export records.
package calendar

import (
	"context"
	"fmt"
	"time"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google"
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driven"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

const defaultMaxResults = 250

// Ensure Client implements the driven port.
var _ driven.EventSource = (*Client)(nil)

// Client lists events from one Google Calendar.
type Client struct {
	service    *calendarapi.Service
	calendarID string
	limiter    *google.RateLimiter
}

// NewClient creates a calendar client. An empty calendarID means the
// user's primary calendar.
func NewClient(service *calendarapi.Service, calendarID string) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		service:    service,
		calendarID: calendarID,
		limiter:    google.NewRateLimiter(google.ServiceCalendar),
	}
}

// ListEvents returns the events starting inside the window, expanded to
// single instances and ordered by start time, as the daily-note export
// expects them.
func (c *Client) ListEvents(ctx context.Context, window domain.TimeWindow) ([]domain.Record, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	logger.Debug("calendar: listing events %s..%s on %s",
		window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339), c.calendarID)

	var records []domain.Record
	pageToken := ""
	for {
		call := c.service.Events.List(c.calendarID).
			TimeMin(window.Start.Format(time.RFC3339)).
			TimeMax(window.End.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(defaultMaxResults).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", c.limiter.WrapError(err))
		}

		for _, event := range resp.Items {
			if event == nil || event.Id == "" || event.Status == "cancelled" {
				continue
			}
			records = append(records, EventToRecord(event, len(records), window.Start.Location()))
		}

		if resp.NextPageToken == "" {
			return records, nil
		}
		pageToken = resp.NextPageToken
	}
}

// EventInput carries the writable fields of an event. On update, zero
// values mean "keep the existing value".
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Attendees   []string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// CreateEvent creates an event. A zero End defaults to one hour after
// Start for timed events and the next day for all-day events.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*calendarapi.Event, error) {
	if in.Summary == "" {
		return nil, fmt.Errorf("event title required: %w", domain.ErrInvalidInput)
	}
	if in.Start.IsZero() {
		return nil, fmt.Errorf("event start required: %w", domain.ErrInvalidInput)
	}
	if in.End.IsZero() {
		if in.AllDay {
			in.End = in.Start.AddDate(0, 0, 1)
		} else {
			in.End = in.Start.Add(time.Hour)
		}
	}
	if !in.End.After(in.Start) {
		return nil, fmt.Errorf("event end must be after start: %w", domain.ErrInvalidInput)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	event, err := c.service.Events.Insert(c.calendarID, eventBody(in)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", c.limiter.WrapError(err))
	}

	logger.Info("calendar: created event %s (%s)", event.Summary, event.Id)
	return event, nil
}

// UpdateEvent applies the set fields of in to an existing event. Start
// and End keep the event's all-day or timed character: a date-only
// event stays date-only.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, in EventInput) (*calendarapi.Event, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id required: %w", domain.ErrInvalidInput)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	existing, err := c.service.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, c.limiter.WrapError(err))
	}

	if in.Summary != "" {
		existing.Summary = in.Summary
	}
	if in.Description != "" {
		existing.Description = in.Description
	}
	if in.Location != "" {
		existing.Location = in.Location
	}
	if len(in.Attendees) > 0 {
		existing.Attendees = attendeeList(in.Attendees)
	}
	if !in.Start.IsZero() {
		existing.Start = eventTime(in.Start, existing.Start != nil && existing.Start.Date != "")
	}
	if !in.End.IsZero() {
		existing.End = eventTime(in.End, existing.End != nil && existing.End.Date != "")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	updated, err := c.service.Events.Update(c.calendarID, eventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", eventID, c.limiter.WrapError(err))
	}

	logger.Info("calendar: updated event %s", eventID)
	return updated, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event id required: %w", domain.ErrInvalidInput)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, c.limiter.WrapError(err))
	}

	logger.Info("calendar: deleted event %s", eventID)
	return nil
}

// eventBody builds the API payload for a new event.
func eventBody(in EventInput) *calendarapi.Event {
	event := &calendarapi.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Start:       eventTime(in.Start, in.AllDay),
		End:         eventTime(in.End, in.AllDay),
	}
	if len(in.Attendees) > 0 {
		event.Attendees = attendeeList(in.Attendees)
	}
	return event
}

// eventTime formats a boundary: all-day events carry a date, timed
// events an RFC3339 datetime.
func eventTime(t time.Time, allDay bool) *calendarapi.EventDateTime {
	if allDay {
		return &calendarapi.EventDateTime{Date: t.Format("2006-01-02")}
	}
	return &calendarapi.EventDateTime{DateTime: t.Format(time.RFC3339)}
}

func attendeeList(emails []string) []*calendarapi.EventAttendee {
	attendees := make([]*calendarapi.EventAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, &calendarapi.EventAttendee{Email: email})
	}
	return attendees
}
