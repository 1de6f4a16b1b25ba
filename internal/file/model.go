package file

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrNoThumbnail     = errors.New("thumbnail not available for this file")
	ErrTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrTypeNotAllowed  = errors.New("file type is not allowed")
	ErrNotOwner        = errors.New("only the uploading clinician may delete this file")
	ErrBookingRequired = errors.New("booking_id must be a valid UUID")
)

// File represents an uploaded document, typically a consent form or
// imaging attached to a booking.
type File struct {
	ID            string
	ClinicianID   string
	BookingID     *string // optional link to a booking
	Filename      string
	StoragePath   string  // internal path, never exposed
	ThumbnailPath *string // internal path, never exposed
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
