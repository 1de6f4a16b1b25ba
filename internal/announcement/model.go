package announcement

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("announcement not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidWindow   = errors.New("effective window end precedes start")
)

// Announcement represents an operational notice for the surgical suite,
// e.g. scheduled maintenance or reduced staffing. Room-scoped notices
// carry a RoomID; the rest apply to the whole suite.
type Announcement struct {
	ID             string
	Title          string
	Content        string
	RoomID         *string
	EffectiveFrom  *time.Time
	EffectiveUntil *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing announcements.
type Filter struct {
	Keyword  string
	RoomID   string
	ActiveOn *time.Time // only notices whose effective window covers this date

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
