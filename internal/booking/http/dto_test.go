package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sqio-health/or-booking-backend/internal/booking"
)

func validCreateBody() CreateBookingRequest {
	return CreateBookingRequest{
		RoomID:          "5f0c2f0e-9a1f-4a52-9a94-0d4f9a9a9a9a",
		Date:            "2100-06-15",
		StartTime:       "10:00",
		DurationMinutes: 90,
		Category:        "elective",
		PatientName:     "Test Patient",
	}
}

func TestCreateBookingRequestValidate(t *testing.T) {
	body := validCreateBody()
	assert.NoError(t, body.Validate())
}

func TestCreateBookingRequestRejectsCrossMidnight(t *testing.T) {
	body := validCreateBody()
	body.StartTime = "23:30"
	body.DurationMinutes = 60

	assert.ErrorIs(t, body.Validate(), booking.ErrInvalidTime)
}

func TestCreateBookingRequestAllowsEndingAtMidnight(t *testing.T) {
	body := validCreateBody()
	body.StartTime = "23:00"
	body.DurationMinutes = 60

	assert.NoError(t, body.Validate())
}

func TestCreateBookingRequestRejectsPastDate(t *testing.T) {
	body := validCreateBody()
	body.Date = "2020-01-01"

	assert.ErrorIs(t, body.Validate(), booking.ErrStartTimePast)
}

func TestCreateBookingRequestRejectsMalformedTime(t *testing.T) {
	body := validCreateBody()
	body.StartTime = "25:00"

	assert.ErrorIs(t, body.Validate(), booking.ErrInvalidTime)
}
