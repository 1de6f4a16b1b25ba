package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sqio-health/or-booking-backend/internal/auth"
	"github.com/sqio-health/or-booking-backend/internal/booking"
	"github.com/sqio-health/or-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// CheckAvailability answers a pre-check query without writing anything.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var body CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, _ := time.Parse(dateLayout, body.Date)
	category, err := booking.ParseCategory(body.Category)
	if err != nil {
		response.Error(c, err)
		return
	}

	verdict, err := h.service.CheckAvailability(c.Request.Context(), booking.AvailabilityRequest{
		RoomID:          body.RoomID,
		Date:            date,
		StartTime:       body.StartTime,
		DurationMinutes: body.DurationMinutes,
		Category:        category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVerdictResponse(verdict))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	clinicianID := auth.GetClinicianID(c)
	if clinicianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, _ := time.Parse(dateLayout, body.Date)
	category, err := booking.ParseCategory(body.Category)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, verdict, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ClinicianID:     clinicianID,
		RoomID:          body.RoomID,
		Date:            date,
		StartTime:       body.StartTime,
		DurationMinutes: body.DurationMinutes,
		PatientName:     body.PatientName,
		PatientDocument: body.PatientDocument,
		PatientEmail:    body.PatientEmail,
		Category:        category,
		Notes:           body.Notes,
	})
	if err != nil {
		if errors.Is(err, booking.ErrUnavailable) && verdict != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":   err.Error(),
				"details": NewVerdictResponse(verdict),
			})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateBookingResponse{
		Message:          verdict.Message,
		Override:         verdict.Override,
		RequiresApproval: verdict.RequiresApproval,
		Booking:          NewBookingResponse(b),
	})
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		RoomID:      req.RoomID,
		ClinicianID: req.ClinicianID,
		Status:      req.Status,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   strings.ToUpper(req.SortOrder),
	}
	if req.Date != "" {
		d, _ := time.Parse(dateLayout, req.Date)
		filter.Date = &d
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// UpdateStatus handles manual lifecycle progression
// (confirmed -> in_progress -> completed) and plain cancellation.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), id, booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel soft-deletes a booking, recording the reason. Owner-only.
func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CancelBookingRequest
	// Body is optional; a missing body means a default reason.
	_ = c.ShouldBindJSON(&body)
	reason := body.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "cancelled by clinician"
	}

	if err := h.service.Cancel(c.Request.Context(), id, reason, auth.GetClinicianID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// AcceptConflict: the displaced booking's owner cedes the room.
func (h *Handler) AcceptConflict(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.AcceptConflict(c.Request.Context(), id, auth.GetClinicianID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conflict accepted: your booking was cancelled and the urgent booking confirmed"})
}

// RejectConflict: the displaced booking's owner keeps the room.
func (h *Handler) RejectConflict(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.RejectConflict(c.Request.Context(), id, auth.GetClinicianID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conflict rejected: your booking stands and the urgent booking was cancelled"})
}
