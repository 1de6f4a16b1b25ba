package http

import (
	"time"

	"github.com/sqio-health/or-booking-backend/internal/booking"
	"github.com/sqio-health/or-booking-backend/internal/room"
)

type RoomResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Capacity  int       `json:"capacity"`
	Equipment *string   `json:"equipment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewRoomResponse(r *room.Room) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Number:    r.Number,
		Name:      r.Name,
		Status:    string(r.Status),
		Capacity:  r.Capacity,
		Equipment: r.Equipment,
		CreatedAt: r.CreatedAt,
	}
}

type CreateRoomBody struct {
	Number    string  `json:"number" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Capacity  int     `json:"capacity"`
	Equipment *string `json:"equipment"`
}

type UpdateRoomBody struct {
	Name      *string `json:"name"`
	Status    *string `json:"status" binding:"omitempty,oneof=available maintenance closed"`
	Capacity  *int    `json:"capacity" binding:"omitempty,min=1"`
	Equipment *string `json:"equipment"`
}

// maxSchedulePageSize bounds a single day's schedule; a room cannot hold
// more non-cancelled slots than there are minutes in a day.
const maxSchedulePageSize = 200

// ScheduleEntryResponse is one slot in a room's day schedule. It is a
// trimmed view of a booking; patient document and contact details stay
// on the booking endpoints.
type ScheduleEntryResponse struct {
	BookingID     string `json:"booking_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	ClinicianName string `json:"clinician_name"`
	PatientName   string `json:"patient_name"`
}

func NewScheduleEntryResponse(b *booking.Booking) ScheduleEntryResponse {
	return ScheduleEntryResponse{
		BookingID:     b.ID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Category:      string(b.Category),
		Status:        string(b.Status),
		ClinicianName: b.ClinicianName,
		PatientName:   b.PatientName,
	}
}

// AvailableRoomsQuery asks which rooms are free for a slot.
type AvailableRoomsQuery struct {
	Date            string `form:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string `form:"start_time" binding:"required"`
	DurationMinutes int    `form:"duration_minutes" binding:"required,min=1,max=1439"`
}
