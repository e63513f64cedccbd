package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"2025-03-04T14:30:00Z", true},
		{"2025-03-04T14:30:00.123+02:00", true},
		{"2025-03-04T14:30:00", true},
		{"2025-03-04 14:30:00", true},
		{"2025-03-04", true},
		{"", false},
		{"04/03/2025", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSortableTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2025-03-04T14:30:00Z", "2025-03-04T14:30:00.000000Z"},
		{"2025-03-04T16:30:00.5+02:00", "2025-03-04T14:30:00.500000Z"},
		{"2025-03-04T14:30:00", "2025-03-04T14:30:00.000000Z"},
		{"later", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SortableTimestamp(tt.raw))
		})
	}

	assert.Less(t, SortableTimestamp("2025-03-04T09:00:00Z"), SortableTimestamp("2025-03-04T10:00:00.25Z"))
}
