package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sqio-health/or-booking-backend/internal/booking"
	"github.com/sqio-health/or-booking-backend/internal/pkg/response"
	"github.com/sqio-health/or-booking-backend/internal/room"
)

type RoomHandler struct {
	service  room.Service
	bookings booking.Service
}

func NewHandler(service room.Service, bookings booking.Service) *RoomHandler {
	return &RoomHandler{service: service, bookings: bookings}
}

// List retrieves a paginated list of rooms with optional status filtering.
func (h *RoomHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := room.Filter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	rooms, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		items[i] = NewRoomResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

// ListAvailable returns rooms free for the requested slot.
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	var q AvailableRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	endTime, err := booking.AddMinutes(q.StartTime, q.DurationMinutes)
	if err != nil {
		response.Error(c, err)
		return
	}

	date, _ := time.Parse("2006-01-02", q.Date)

	rooms, err := h.service.ListFree(c.Request.Context(), date, q.StartTime, endTime)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list available rooms"})
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		items[i] = NewRoomResponse(r)
	}

	c.JSON(http.StatusOK, gin.H{"rooms": items})
}

func (h *RoomHandler) Create(c *gin.Context) {
	var body CreateRoomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := h.service.Create(c.Request.Context(), room.CreateRequest{
		Number:    body.Number,
		Name:      body.Name,
		Capacity:  body.Capacity,
		Equipment: body.Equipment,
	})
	if err != nil {
		switch {
		case errors.Is(err, room.ErrNumberInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, room.ErrEmptyNumber), errors.Is(err, room.ErrEmptyName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewRoomResponse(r))
}

func (h *RoomHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get room"})
		return
	}

	// Without a date the response is just the room. With ?date= it also
	// carries that day's schedule, ordered by start time.
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusOK, NewRoomResponse(r))
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	bookings, _, err := h.bookings.List(c.Request.Context(), booking.Filter{
		Date:      &date,
		RoomID:    id,
		PageSize:  maxSchedulePageSize,
		SortBy:    "start_time",
		SortOrder: "ASC",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room schedule"})
		return
	}

	schedule := make([]ScheduleEntryResponse, len(bookings))
	for i, b := range bookings {
		schedule[i] = NewScheduleEntryResponse(b)
	}

	c.JSON(http.StatusOK, gin.H{
		"room":     NewRoomResponse(r),
		"date":     dateStr,
		"schedule": schedule,
	})
}

func (h *RoomHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateRoomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := h.service.Update(c.Request.Context(), id, room.UpdateRequest{
		Name:      body.Name,
		Status:    body.Status,
		Capacity:  body.Capacity,
		Equipment: body.Equipment,
	})
	if err != nil {
		switch {
		case errors.Is(err, room.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		case errors.Is(err, room.ErrEmptyName), errors.Is(err, room.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update room"})
		}
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}
