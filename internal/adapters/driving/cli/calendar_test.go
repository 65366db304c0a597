package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	t.Cleanup(func() {
		calendarDateFlag = ""
		calendarDaysFlag = 1
		calendarTodayFlag = false
	})

	t.Run("explicit date and days", func(t *testing.T) {
		calendarDateFlag = "2025-11-20"
		calendarDaysFlag = 7
		calendarTodayFlag = false

		date, days, err := resolveWindow()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.Local), date)
		assert.Equal(t, 7, days)
	})

	t.Run("today overrides date and days", func(t *testing.T) {
		calendarDateFlag = "2025-11-20"
		calendarDaysFlag = 7
		calendarTodayFlag = true

		date, days, err := resolveWindow()
		require.NoError(t, err)
		assert.Equal(t, 1, days)
		assert.WithinDuration(t, time.Now(), date, time.Minute)
	})

	t.Run("default is today", func(t *testing.T) {
		calendarDateFlag = ""
		calendarDaysFlag = 0
		calendarTodayFlag = false

		date, days, err := resolveWindow()
		require.NoError(t, err)
		assert.Equal(t, 1, days)
		assert.WithinDuration(t, time.Now(), date, time.Minute)
	})

	t.Run("bad date", func(t *testing.T) {
		calendarDateFlag = "20/11/2025"
		calendarTodayFlag = false

		_, _, err := resolveWindow()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
	})
}
