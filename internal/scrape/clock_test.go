package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, loc)

	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{
			name:     "same day morning",
			raw:      "09:05",
			expected: time.Date(2026, 3, 15, 9, 5, 0, 0, loc),
		},
		{
			name:     "exact reference minute",
			raw:      "14:30",
			expected: time.Date(2026, 3, 15, 14, 30, 0, 0, loc),
		},
		{
			name:     "future clock rolls back a day",
			raw:      "23:50",
			expected: time.Date(2026, 3, 14, 23, 50, 0, 0, loc),
		},
		{
			name:     "clock embedded in prefix text",
			raw:      "今天 08:15",
			expected: time.Date(2026, 3, 15, 8, 15, 0, 0, loc),
		},
		{
			name:     "single digit hour",
			raw:      "8:15",
			expected: time.Date(2026, 3, 15, 8, 15, 0, 0, loc),
		},
		{
			name:     "empty falls back to reference",
			raw:      "",
			expected: now,
		},
		{
			name:     "no clock falls back to reference",
			raw:      "昨天",
			expected: now,
		},
		{
			name:     "out of range hour falls back",
			raw:      "25:00",
			expected: now,
		},
		{
			name:     "out of range minute falls back",
			raw:      "10:75",
			expected: now,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTime(tc.raw, now)
			assert.True(t, got.Equal(tc.expected), "got %v, want %v", got, tc.expected)
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestNormalizeTimeNeverFuture(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 3, 15, 0, 10, 0, 0, loc)

	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 10, 59} {
			raw := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
			got := NormalizeTime(raw, now)
			assert.False(t, got.After(now), "raw %q resolved to future %v", raw, got)
		}
	}
}
