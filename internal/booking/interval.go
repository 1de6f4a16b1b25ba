package booking

import "fmt"

const minutesPerDay = 24 * 60

// dayEnd marks an interval that runs to the end of its day. Unlike a
// wrapped "00:00" it orders after every valid start time, so the plain
// text comparisons in Overlaps and in SQL stay correct at the boundary.
const dayEnd = "24:00"

// parseClock converts an "HH:MM" (or "HH:MM:SS") string to minutes since
// midnight.
func parseClock(s string) (int, error) {
	var h, m, sec int
	switch {
	case len(s) == 5:
		if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
			return 0, ErrInvalidTime
		}
	case len(s) == 8:
		if _, err := fmt.Sscanf(s, "%2d:%2d:%2d", &h, &m, &sec); err != nil {
			return 0, ErrInvalidTime
		}
	default:
		return 0, ErrInvalidTime
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, ErrInvalidTime
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	if minutes == minutesPerDay {
		return dayEnd
	}
	minutes %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes computes the end of an interval starting at start ("HH:MM")
// and lasting the given number of minutes. An interval running exactly to
// the end of the day yields "24:00"; anything longer wraps past midnight,
// which callers detect as end <= start and reject.
func AddMinutes(start string, minutes int) (string, error) {
	m, err := parseClock(start)
	if err != nil {
		return "", err
	}
	return formatClock(m + minutes), nil
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) overlap. Zero-padded "HH:MM" strings (with "24:00" as the
// day-end sentinel) order correctly as text, so plain string comparison
// implements s1 < e2 && s2 < e1. Back to back intervals (one ending exactly
// when the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
