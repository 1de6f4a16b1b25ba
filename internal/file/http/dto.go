package http

import (
	"time"

	"github.com/sqio-health/or-booking-backend/internal/file"
)

type FileResponse struct {
	ID           string    `json:"id"`
	ClinicianID  string    `json:"clinician_id"`
	BookingID    *string   `json:"booking_id,omitempty"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewFileResponse(f *file.File) FileResponse {
	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}
	return FileResponse{
		ID:           f.ID,
		ClinicianID:  f.ClinicianID,
		BookingID:    f.BookingID,
		Filename:     f.Filename,
		ContentType:  f.ContentType,
		Size:         f.Size,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
		CreatedAt:    f.CreatedAt,
	}
}

type FileUploadResponse struct {
	Message string       `json:"message"`
	File    FileResponse `json:"file"`
}
