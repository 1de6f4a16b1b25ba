package booking

// Category classifies a surgery and drives the admission regime when the
// requested slot overlaps existing bookings.
type Category string

const (
	CategoryElective  Category = "elective"
	CategoryUrgent    Category = "urgent"
	CategoryEmergency Category = "emergency"
)

// Priority returns the fixed ordinal weight of the category:
// emergency(3) > urgent(2) > elective(1). Unknown values weigh the same
// as elective so a bad value can never displace anything.
func (c Category) Priority() int {
	switch c {
	case CategoryEmergency:
		return 3
	case CategoryUrgent:
		return 2
	default:
		return 1
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryElective, CategoryUrgent, CategoryEmergency:
		return true
	}
	return false
}

// ParseCategory validates a raw category string from the boundary.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}
