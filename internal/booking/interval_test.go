package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMinutes(t *testing.T) {
	cases := []struct {
		start   string
		minutes int
		want    string
	}{
		{"09:00", 60, "10:00"},
		{"09:30", 45, "10:15"},
		{"14:30", 60, "15:30"},
		{"00:00", 1, "00:01"},
		{"23:00", 60, "24:00"},
		{"23:59", 1, "24:00"},
		{"08:05", 0, "08:05"},
	}

	for _, tc := range cases {
		got, err := AddMinutes(tc.start, tc.minutes)
		require.NoError(t, err, "AddMinutes(%q, %d)", tc.start, tc.minutes)
		assert.Equal(t, tc.want, got, "AddMinutes(%q, %d)", tc.start, tc.minutes)
	}
}

func TestAddMinutesAcceptsSeconds(t *testing.T) {
	got, err := AddMinutes("09:00:00", 30)
	require.NoError(t, err)
	assert.Equal(t, "09:30", got)
}

func TestAddMinutesRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"", "9:00", "24:00", "12:60", "12-30", "noon", "12:30:60"} {
		_, err := AddMinutes(s, 30)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", s)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"partial", "10:00", "11:00", "10:30", "11:30", true},
		{"contained", "10:00", "12:00", "10:30", "11:00", true},
		{"back to back", "09:00", "10:00", "10:00", "11:00", false},
		{"back to back reversed", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "13:00", "14:00", false},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
		{"ends at day end", "23:00", "24:00", "23:30", "23:45", true},
		{"contained in day-end slot", "22:00", "24:00", "23:00", "23:30", true},
		{"back to back before day-end slot", "22:00", "23:00", "23:00", "24:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestCategoryPriority(t *testing.T) {
	assert.Equal(t, 3, CategoryEmergency.Priority())
	assert.Equal(t, 2, CategoryUrgent.Priority())
	assert.Equal(t, 1, CategoryElective.Priority())
	// Unknown values must not outrank anything.
	assert.Equal(t, 1, Category("whatever").Priority())
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"elective", "urgent", "emergency"} {
		c, err := ParseCategory(s)
		require.NoError(t, err)
		assert.Equal(t, Category(s), c)
	}

	_, err := ParseCategory("routine")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
