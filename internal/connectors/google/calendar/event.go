package calendar

import (
	"time"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// EventToRecord converts a Google Calendar event to an export record.
// All-day events carry a date instead of a datetime; their Start is the
// local midnight of that date so the bucketer files them on the right
// day.
func EventToRecord(event *calendarapi.Event, sourceOrder int, loc *time.Location) domain.Record {
	rec := domain.Record{
		Key:         event.Id,
		Kind:        domain.KindEvent,
		Title:       event.Summary,
		Location:    event.Location,
		Notes:       event.Description,
		SourceOrder: sourceOrder,
	}

	start, allDay := parseEventTime(event.Start, loc)
	end, _ := parseEventTime(event.End, loc)
	rec.Start = start
	rec.End = end
	rec.AllDay = allDay

	return rec
}

// parseEventTime resolves an event boundary. The API sets DateTime for
// timed events and Date for all-day events, never both.
func parseEventTime(edt *calendarapi.EventDateTime, loc *time.Location) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t.In(loc), false
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
