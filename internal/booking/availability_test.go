package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mkBooking(id string, date time.Time, start, end string, category Category) *Booking {
	return &Booking{
		ID:        id,
		RoomID:    "room-1",
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Category:  category,
		Status:    StatusConfirmed,
	}
}

func TestEvaluateAvailabilityEmptyRoom(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, cat := range []Category{CategoryElective, CategoryUrgent, CategoryEmergency} {
		v := EvaluateAvailability(cat, nil, now)
		assert.True(t, v.Available, "category %s", cat)
		assert.False(t, v.Override, "category %s", cat)
		assert.False(t, v.RequiresApproval, "category %s", cat)
		assert.Empty(t, v.Affected, "category %s", cat)
	}
}

func TestEvaluateAvailabilityElectiveBlockedByAnyOverlap(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d := day(2026, 3, 15)

	for _, cat := range []Category{CategoryElective, CategoryUrgent, CategoryEmergency} {
		existing := []*Booking{mkBooking("b1", d, "10:00", "11:00", cat)}
		v := EvaluateAvailability(CategoryElective, existing, now)
		assert.False(t, v.Available, "blocked by %s", cat)
		assert.Len(t, v.Affected, 1)
	}
}

func TestEvaluateAvailabilityUrgentDisplacesElective(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d := day(2026, 3, 15)
	existing := []*Booking{mkBooking("b1", d, "10:00", "11:00", CategoryElective)}

	v := EvaluateAvailability(CategoryUrgent, existing, now)

	require.True(t, v.Available)
	assert.True(t, v.Override)
	assert.True(t, v.RequiresApproval)
	require.Len(t, v.Affected, 1)
	assert.Equal(t, "b1", v.Affected[0].ID)
}

func TestEvaluateAvailabilityUrgentBlockedByEqualOrHigher(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d := day(2026, 3, 15)

	for _, cat := range []Category{CategoryUrgent, CategoryEmergency} {
		existing := []*Booking{mkBooking("b1", d, "10:00", "11:00", cat)}
		v := EvaluateAvailability(CategoryUrgent, existing, now)
		assert.False(t, v.Available, "blocked by %s", cat)
		assert.False(t, v.Override)
	}
}

func TestEvaluateAvailabilityUrgentMixedOverlaps(t *testing.T) {
	// One elective and one urgent overlap: the urgent one blocks, and only
	// it is reported as conflicting.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d := day(2026, 3, 15)
	existing := []*Booking{
		mkBooking("elective", d, "10:00", "11:00", CategoryElective),
		mkBooking("urgent", d, "10:30", "11:30", CategoryUrgent),
	}

	v := EvaluateAvailability(CategoryUrgent, existing, now)

	require.False(t, v.Available)
	require.Len(t, v.Affected, 1)
	assert.Equal(t, "urgent", v.Affected[0].ID)
}

func TestEvaluateAvailabilityEmergencyOverridesFutureBookings(t *testing.T) {
	// The documented scenario: existing 14:00-16:00 elective, emergency
	// requested 14:30 for 60 minutes, evaluated in the morning.
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	d := day(2026, 3, 15)
	existing := []*Booking{mkBooking("b1", d, "14:00", "16:00", CategoryElective)}

	v := EvaluateAvailability(CategoryEmergency, existing, now)

	require.True(t, v.Available)
	assert.True(t, v.Override)
	assert.False(t, v.RequiresApproval)
	require.Len(t, v.Affected, 1)
	assert.Equal(t, "b1", v.Affected[0].ID)
}

func TestEvaluateAvailabilityEmergencyBlockedByActiveProcedure(t *testing.T) {
	// Same slot, but evaluated while the existing booking is running.
	now := time.Date(2026, 3, 15, 14, 45, 0, 0, time.UTC)
	d := day(2026, 3, 15)
	existing := []*Booking{mkBooking("b1", d, "14:00", "16:00", CategoryElective)}

	v := EvaluateAvailability(CategoryEmergency, existing, now)

	require.False(t, v.Available)
	require.Len(t, v.Affected, 1)
	assert.Equal(t, "b1", v.Affected[0].ID)
}

func TestEvaluateAvailabilityEmergencyIgnoresClockOnOtherDates(t *testing.T) {
	// A booking tomorrow at the current wall-clock time is not "in use".
	now := time.Date(2026, 3, 15, 14, 45, 0, 0, time.UTC)
	d := day(2026, 3, 16)
	existing := []*Booking{mkBooking("b1", d, "14:00", "16:00", CategoryElective)}

	v := EvaluateAvailability(CategoryEmergency, existing, now)

	require.True(t, v.Available)
	assert.True(t, v.Override)
}

func TestEvaluateAvailabilityEmergencyActiveBoundary(t *testing.T) {
	d := day(2026, 3, 15)
	existing := []*Booking{mkBooking("b1", d, "14:00", "16:00", CategoryElective)}

	// Exactly at start: active (interval is closed at the start).
	atStart := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	assert.False(t, EvaluateAvailability(CategoryEmergency, existing, atStart).Available)

	// Exactly at end: no longer active (interval is open at the end).
	atEnd := time.Date(2026, 3, 15, 16, 0, 0, 0, time.UTC)
	assert.True(t, EvaluateAvailability(CategoryEmergency, existing, atEnd).Available)
}

func TestEvaluateAvailabilityIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	d := day(2026, 3, 15)
	existing := []*Booking{mkBooking("b1", d, "10:00", "11:00", CategoryElective)}

	first := EvaluateAvailability(CategoryUrgent, existing, now)
	second := EvaluateAvailability(CategoryUrgent, existing, now)

	assert.Equal(t, first, second)
}
