package domain

import (
	"testing"
	"time"
)

func fixedClock(t *testing.T, loc *time.Location, instant time.Time) *Clock {
	t.Helper()
	c := NewClock(loc)
	c.now = func() time.Time { return instant }
	return c
}

func TestClockNowFormats(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	cases := []struct {
		name        string
		instant     time.Time
		displayTime string
		dayKey      string
	}{
		{
			name:        "afternoon",
			instant:     time.Date(2025, 1, 10, 14, 30, 0, 0, ist),
			displayTime: "02:30 PM",
			dayKey:      "2025-01-10",
		},
		{
			name:        "after midnight",
			instant:     time.Date(2025, 1, 10, 0, 5, 0, 0, ist),
			displayTime: "12:05 AM",
			dayKey:      "2025-01-10",
		},
		{
			name:        "noon",
			instant:     time.Date(2025, 1, 10, 12, 0, 0, 0, ist),
			displayTime: "12:00 PM",
			dayKey:      "2025-01-10",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := fixedClock(t, ist, tc.instant)
			displayTime, dayKey := c.Now()
			if displayTime != tc.displayTime {
				t.Fatalf("display time: got %q, want %q", displayTime, tc.displayTime)
			}
			if dayKey != tc.dayKey {
				t.Fatalf("day key: got %q, want %q", dayKey, tc.dayKey)
			}
		})
	}
}

func TestClockConvertsToConfiguredZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next day in IST.
	c := fixedClock(t, ist, time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC))

	displayTime, dayKey := c.Now()
	if dayKey != "2025-01-11" {
		t.Fatalf("day key: got %q, want 2025-01-11", dayKey)
	}
	if displayTime != "01:30 AM" {
		t.Fatalf("display time: got %q, want 01:30 AM", displayTime)
	}
}

func TestNewClockNilLocationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil location")
		}
	}()
	NewClock(nil)
}
