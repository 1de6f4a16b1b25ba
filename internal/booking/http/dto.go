package http

import (
	"time"

	"github.com/sqio-health/or-booking-backend/internal/booking"
)

const dateLayout = "2006-01-02"

type RoomTag struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

type ClinicianTag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type BookingResponse struct {
	ID                string       `json:"id"`
	Room              RoomTag      `json:"room"`
	Clinician         ClinicianTag `json:"clinician"`
	Date              string       `json:"date"`
	StartTime         string       `json:"start_time"`
	EndTime           string       `json:"end_time"`
	DurationMinutes   int          `json:"duration_minutes"`
	PatientName       string       `json:"patient_name"`
	PatientDocument   *string      `json:"patient_document,omitempty"`
	PatientEmail      *string      `json:"patient_email,omitempty"`
	Category          string       `json:"category"`
	Status            string       `json:"status"`
	ConflictStatus    *string      `json:"conflict_status,omitempty"`
	ConflictBookingID *string      `json:"conflict_booking_id,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	var conflictStatus *string
	if b.ConflictStatus != nil {
		s := string(*b.ConflictStatus)
		conflictStatus = &s
	}
	return BookingResponse{
		ID:                b.ID,
		Room:              RoomTag{ID: b.RoomID, Number: b.RoomNumber, Name: b.RoomName},
		Clinician:         ClinicianTag{ID: b.ClinicianID, Name: b.ClinicianName, Specialty: b.ClinicianSpecialty},
		Date:              b.Date.Format(dateLayout),
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		DurationMinutes:   b.DurationMinutes,
		PatientName:       b.PatientName,
		PatientDocument:   b.PatientDocument,
		PatientEmail:      b.PatientEmail,
		Category:          string(b.Category),
		Status:            string(b.Status),
		ConflictStatus:    conflictStatus,
		ConflictBookingID: b.ConflictBookingID,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// VerdictResponse mirrors booking.Verdict for pre-check responses and
// conflict details on rejected creates.
type VerdictResponse struct {
	Available        bool              `json:"available"`
	Override         bool              `json:"override"`
	RequiresApproval bool              `json:"requires_approval"`
	Message          string            `json:"message"`
	AffectedBookings []BookingResponse `json:"affected_bookings"`
}

func NewVerdictResponse(v *booking.Verdict) VerdictResponse {
	affected := make([]BookingResponse, len(v.Affected))
	for i, b := range v.Affected {
		affected[i] = NewBookingResponse(b)
	}
	return VerdictResponse{
		Available:        v.Available,
		Override:         v.Override,
		RequiresApproval: v.RequiresApproval,
		Message:          v.Message,
		AffectedBookings: affected,
	}
}

type CheckAvailabilityRequest struct {
	RoomID          string `json:"room_id" binding:"required,uuid"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=1439"`
	Category        string `json:"category" binding:"required,oneof=elective urgent emergency"`
}

type CreateBookingRequest struct {
	RoomID          string  `json:"room_id" binding:"required,uuid"`
	Date            string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string  `json:"start_time" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=1439"`
	Category        string  `json:"category" binding:"required,oneof=elective urgent emergency"`
	PatientName     string  `json:"patient_name" binding:"required"`
	PatientDocument *string `json:"patient_document"`
	PatientEmail    *string `json:"patient_email" binding:"omitempty,email"`
	Notes           *string `json:"notes"`
}

// Validate rejects slots in the past. The engine itself assumes
// pre-validated requests, so this runs at the boundary.
func (r *CreateBookingRequest) Validate() error {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return booking.ErrInvalidTime
	}
	end, err := booking.AddMinutes(r.StartTime, r.DurationMinutes)
	if err != nil {
		return err
	}
	if end <= r.StartTime {
		// Interval would cross midnight; a booking stays within one day.
		// An interval ending exactly at day end yields "24:00" and passes.
		return booking.ErrInvalidTime
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return booking.ErrStartTimePast
	}
	if date.Equal(today) && r.StartTime < now.Format("15:04") {
		return booking.ErrStartTimePast
	}
	return nil
}

type CreateBookingResponse struct {
	Message          string          `json:"message"`
	Override         bool            `json:"override"`
	RequiresApproval bool            `json:"requires_approval"`
	Booking          BookingResponse `json:"booking"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed in_progress completed cancelled"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type ListBookingsRequest struct {
	Date        string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	RoomID      string `form:"room_id" binding:"omitempty,uuid"`
	ClinicianID string `form:"clinician_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=confirmed pending_decision in_progress completed cancelled"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=date start_time created_at status"`
	SortOrder   string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}
