package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return time.Date(2026, 8, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func TestWithinWindow(t *testing.T) {
	window := 30 * time.Minute

	cases := []struct {
		name     string
		setting  string
		now      string
		expected bool
	}{
		{"exact match", "09:00", "09:00", true},
		{"just inside after", "09:00", "09:29", true},
		{"boundary", "09:00", "09:30", true},
		{"just outside", "09:00", "09:31", false},
		{"just inside before", "09:00", "08:31", true},
		{"far off", "09:00", "14:00", false},
		{"midnight wrap", "23:50", "00:10", true},
		{"midnight wrap outside", "23:00", "00:10", false},
		{"malformed", "9am", "09:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WithinWindow(tc.setting, clock(tc.now), window))
		})
	}
}

func TestValidNotificationTime(t *testing.T) {
	assert.True(t, ValidNotificationTime("09:00"))
	assert.True(t, ValidNotificationTime("23:59"))
	assert.False(t, ValidNotificationTime("24:00"))
	assert.False(t, ValidNotificationTime("9am"))
	assert.False(t, ValidNotificationTime(""))
}
