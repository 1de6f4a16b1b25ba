package booking

import (
	"net/http"
	"time"

	"github.com/sqio-health/or-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrRoomNotFound     = apperror.New(http.StatusNotFound, "room not found")
	ErrUnavailable      = apperror.New(http.StatusConflict, "room not available for the requested time")
	ErrStaleConflict    = apperror.New(http.StatusConflict, "conflict already resolved")
	ErrIntegrity        = apperror.New(http.StatusInternalServerError, "booking conflict state is inconsistent; manual reconciliation required")
	ErrInvalidCategory  = apperror.New(http.StatusBadRequest, "category must be elective, urgent or emergency")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTime      = apperror.New(http.StatusBadRequest, "invalid time, expected HH:MM")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot book in the past")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "only the owning clinician may perform this action")
)

type Status string

const (
	StatusConfirmed       Status = "confirmed"
	StatusPendingDecision Status = "pending_decision"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// ConflictStatus marks a booking that is part of an unresolved conflict pair.
type ConflictStatus string

const ConflictAwaitingDecision ConflictStatus = "awaiting_decision"

// Cancellation notes written by the engine itself.
const (
	noteCancelledForEmergency = "cancelled for emergency"
	noteConflictAccepted      = "cancelled - conflict with urgency accepted"
	noteConflictRejected      = "cancelled - owner did not cede the room"
)

// Booking is a reservation of a surgical room for a patient procedure.
// Room and clinician display fields are populated on reads via joins.
type Booking struct {
	ID                 string
	RoomID             string
	RoomNumber         string
	RoomName           string
	ClinicianID        string
	ClinicianName      string
	ClinicianSpecialty string
	Date               time.Time // calendar day, midnight UTC
	StartTime          string    // "HH:MM"
	EndTime            string    // "HH:MM", always StartTime + DurationMinutes
	DurationMinutes    int
	PatientName        string
	PatientDocument    *string
	PatientEmail       *string
	Category           Category
	Status             Status
	ConflictStatus     *ConflictStatus
	ConflictBookingID  *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	Date        *time.Time
	RoomID      string
	ClinicianID string
	Status      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
