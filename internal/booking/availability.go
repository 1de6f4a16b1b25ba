package booking

import (
	"fmt"
	"time"
)

// Verdict is the result of an availability evaluation. It answers the
// pre-check query and drives booking creation.
type Verdict struct {
	Available        bool
	Override         bool
	RequiresApproval bool
	Affected         []*Booking
	Message          string
}

// EvaluateAvailability applies the three admission regimes to the set of
// non-cancelled bookings overlapping the requested interval:
//
//   - emergency: blocked only by a booking whose interval contains now
//     (a running procedure can only be released by its own clinician);
//     any future overlaps are admitted with override and will be
//     auto-cancelled by the caller.
//   - urgent: blocked by any overlap of equal or higher priority; lower
//     priority overlaps are admitted with override but require the
//     displaced owners' decision before the booking is confirmed.
//   - elective: blocked by any overlap.
//
// The function is pure; callers fetch the overlap set and supply the
// current time, so the same inputs always yield the same verdict.
func EvaluateAvailability(category Category, overlapping []*Booking, now time.Time) *Verdict {
	if category == CategoryEmergency {
		active := activeNow(overlapping, now)
		if len(active) > 0 {
			return &Verdict{
				Available: false,
				Affected:  active,
				Message:   "emergency: room is currently in use; only the operating clinician can release it",
			}
		}
		if len(overlapping) > 0 {
			return &Verdict{
				Available: true,
				Override:  true,
				Affected:  overlapping,
				Message:   "emergency: conflicting future bookings will be cancelled automatically",
			}
		}
		return &Verdict{
			Available: true,
			Message:   "room available for emergency",
		}
	}

	var conflicts []*Booking
	for _, b := range overlapping {
		if b.Category.Priority() >= category.Priority() {
			conflicts = append(conflicts, b)
		}
	}
	if len(conflicts) > 0 {
		return &Verdict{
			Available: false,
			Affected:  conflicts,
			Message:   fmt.Sprintf("conflict with %d booking(s) of equal or higher priority", len(conflicts)),
		}
	}

	// Only lower-priority overlaps remain; elective can never reach here
	// with a non-empty set since it is the lowest tier.
	if len(overlapping) > 0 {
		return &Verdict{
			Available:        true,
			Override:         true,
			RequiresApproval: category == CategoryUrgent,
			Affected:         overlapping,
			Message:          "urgency: displaced bookings require the owning clinician's decision",
		}
	}

	return &Verdict{
		Available: true,
		Message:   "room available",
	}
}

// activeNow returns the bookings whose interval contains the current
// evaluation time. The booking's calendar date must be today; a booking on
// a future date is never "in use" no matter the clock.
func activeNow(bookings []*Booking, now time.Time) []*Booking {
	nowClock := now.Format("15:04")
	y, m, d := now.Date()

	var active []*Booking
	for _, b := range bookings {
		by, bm, bd := b.Date.Date()
		if by != y || bm != m || bd != d {
			continue
		}
		if b.StartTime <= nowClock && nowClock < b.EndTime {
			active = append(active, b)
		}
	}
	return active
}
