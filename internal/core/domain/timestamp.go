package domain

import (
	"strings"
	"time"
)

// SortableLayout renders timestamps so that string order matches time order.
const SortableLayout = "2006-01-02T15:04:05.000000Z"

// timestampLayouts are the ISO-8601 shapes snapshots carry, with and without
// a zone designator, plus the cleaned list rendering.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 timestamp with or without a zone.
// Zoneless values are taken as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortableTimestamp normalises raw to SortableLayout in UTC. Unreadable
// values yield an empty string.
func SortableTimestamp(raw string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return ""
	}
	return t.UTC().Format(SortableLayout)
}
