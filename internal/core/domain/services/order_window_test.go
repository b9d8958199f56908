package services_test

import (
	"testing"
	"time"

	"lunchroom/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) services.Window {
	t.Helper()
	w, err := services.ParseWindow(start, end)
	require.NoError(t, err)
	return w
}

// clock builds a local time on a known weekday: 2026-08-24 is a Monday.
func clock(t *testing.T, weekdayOffset, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2026, 8, 24+weekdayOffset, hour, minute, 0, 0, time.Local)
}

func TestParseWindow(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		w := mustWindow(t, "08:00", "10:30")
		assert.Equal(t, "08:00", w.Start())
		assert.Equal(t, "10:30", w.End())
	})

	t.Run("end must be after start", func(t *testing.T) {
		_, err := services.ParseWindow("10:30", "08:00")
		require.Error(t, err)
		_, err = services.ParseWindow("08:00", "08:00")
		require.Error(t, err)
	})

	t.Run("span capped at eight hours", func(t *testing.T) {
		_, err := services.ParseWindow("08:00", "16:01")
		require.Error(t, err)
		_, err = services.ParseWindow("08:00", "16:00")
		require.NoError(t, err)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		_, err := services.ParseWindow("8 o'clock", "10:30")
		require.Error(t, err)
		_, err = services.ParseWindow("08:00", "25:00")
		require.Error(t, err)
	})
}

func TestOrderWindowGate_Check(t *testing.T) {
	gate := services.NewOrderWindowGate()
	window := mustWindow(t, "08:00", "10:30")

	t.Run("weekday inside window is active", func(t *testing.T) {
		status := gate.Check(clock(t, 0, 9, 15), window)
		assert.True(t, status.Active)
		assert.Empty(t, status.Reason)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		assert.True(t, gate.Check(clock(t, 0, 8, 0), window).Active)
		assert.True(t, gate.Check(clock(t, 0, 10, 30), window).Active)
	})

	t.Run("before opening", func(t *testing.T) {
		status := gate.Check(clock(t, 0, 7, 59), window)
		assert.False(t, status.Active)
		assert.Equal(t, "ordering opens at 08:00", status.Reason)
	})

	t.Run("after closing", func(t *testing.T) {
		status := gate.Check(clock(t, 0, 10, 31), window)
		assert.False(t, status.Active)
		assert.Equal(t, "ordering closed at 10:30", status.Reason)
	})

	t.Run("weekends are always closed regardless of window", func(t *testing.T) {
		saturday := clock(t, 5, 9, 0)
		require.Equal(t, time.Saturday, saturday.Weekday())
		status := gate.Check(saturday, window)
		assert.False(t, status.Active)
		assert.Equal(t, "ordering is not available on weekends", status.Reason)

		sunday := clock(t, 6, 9, 0)
		require.Equal(t, time.Sunday, sunday.Weekday())
		assert.False(t, gate.Check(sunday, window).Active)
	})
}
