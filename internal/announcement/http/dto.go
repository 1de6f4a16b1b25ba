package http

import (
	"time"

	"github.com/sqio-health/or-booking-backend/internal/announcement"
)

const dateLayout = "2006-01-02"

type AnnouncementResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RoomID         *string   `json:"room_id,omitempty"`
	EffectiveFrom  *string   `json:"effective_from,omitempty"`
	EffectiveUntil *string   `json:"effective_until,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func NewResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:             a.ID,
		Title:          a.Title,
		Content:        a.Content,
		RoomID:         a.RoomID,
		EffectiveFrom:  formatDate(a.EffectiveFrom),
		EffectiveUntil: formatDate(a.EffectiveUntil),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type CreateRequest struct {
	Title          string  `json:"title" binding:"required"`
	Content        string  `json:"content" binding:"required"`
	RoomID         *string `json:"room_id" binding:"omitempty,uuid"`
	EffectiveFrom  *string `json:"effective_from" binding:"omitempty,datetime=2006-01-02"`
	EffectiveUntil *string `json:"effective_until" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateRequest struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	EffectiveFrom  *string `json:"effective_from" binding:"omitempty,datetime=2006-01-02"`
	EffectiveUntil *string `json:"effective_until" binding:"omitempty,datetime=2006-01-02"`
}

type ListAnnouncementsRequest struct {
	Keyword   string `form:"q"`
	RoomID    string `form:"room_id" binding:"omitempty,uuid"`
	ActiveOn  string `form:"active_on" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at effective_from title"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
