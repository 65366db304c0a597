package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/calendar"
)

func TestParseEventWhen(t *testing.T) {
	got, err := parseEventWhen("2025-11-20 09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 20, 9, 30, 0, 0, time.Local), got)

	got, err = parseEventWhen("2025-11-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.Local), got)

	_, err = parseEventWhen("9:30 on the 20th")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time")
}

func TestSplitAttendees(t *testing.T) {
	assert.Nil(t, splitAttendees(""))
	assert.Equal(t,
		[]string{"alice@example.com", "bob@example.com"},
		splitAttendees("alice@example.com, bob@example.com"))
	assert.Equal(t, []string{"alice@example.com"}, splitAttendees("alice@example.com,,"))
}

func TestCalendarDelete_AbortsWithoutConfirmation(t *testing.T) {
	Inject(Dependencies{Calendar: calendar.NewClient(nil, "")})
	t.Cleanup(func() {
		Inject(Dependencies{})
		eventForceFlag = false
	})

	eventForceFlag = false
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString("n\n"))
	rootCmd.SetArgs([]string{"calendar", "delete", "ev-123"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Aborted.")
}

func TestCalendarCreate_RequiresStartOrAllDay(t *testing.T) {
	Inject(Dependencies{Calendar: calendar.NewClient(nil, "")})
	t.Cleanup(func() { Inject(Dependencies{}) })

	_, err := execute(t, "calendar", "create", "--title", "Standup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --start or --all-day")
}
