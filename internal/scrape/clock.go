package scrape

import (
	"regexp"
	"strconv"
	"time"
)

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// NormalizeTime converts a bare "HH:MM" timestamp into an absolute
// time on the reference date, in the reference time's location. A
// constructed time later than the reference means the post is from
// yesterday. Unparseable input returns the reference time.
func NormalizeTime(raw string, now time.Time) time.Time {
	if raw == "" {
		return now
	}

	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return now
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return now
	}

	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
