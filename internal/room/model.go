package room

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("room not found")
	ErrNumberInUse   = errors.New("room number already in use")
	ErrEmptyNumber   = errors.New("room number cannot be empty")
	ErrEmptyName     = errors.New("room name cannot be empty")
	ErrInvalidStatus = errors.New("invalid room status")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusClosed      Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusClosed:
		return true
	}
	return false
}

// Room represents a surgical room. The booking engine treats rooms as
// read-only input; only rooms with status "available" accept bookings.
type Room struct {
	ID        string
	Number    string // short operational code, e.g. "OR-3"
	Name      string
	Status    Status
	Capacity  int
	Equipment *string
	CreatedAt time.Time
}

// Filter defines parameters for listing rooms.
type Filter struct {
	Status   string
	Page     int
	PageSize int
}
