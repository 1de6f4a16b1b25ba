package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sqio-health/or-booking-backend/internal/auth"
	"github.com/sqio-health/or-booking-backend/internal/file"
)

// maxUploadBytes caps document uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type Handler struct {
	fileService file.Service
}

func NewHandler(fileService file.Service) *Handler {
	return &Handler{
		fileService: fileService,
	}
}

// Upload stores a document, optionally linked to a booking via the
// "booking_id" form field.
func (h *Handler) Upload(c *gin.Context) {
	clinicianID := auth.GetClinicianID(c)
	if clinicianID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	var bookingID *string
	if v := c.PostForm("booking_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": file.ErrBookingRequired.Error()})
			return
		}
		bookingID = &v
	}

	f, err := h.fileService.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   fileHeader,
		ClinicianID:  clinicianID,
		BookingID:    bookingID,
		MaxSizeBytes: maxUploadBytes,
	})
	if err != nil {
		switch {
		case errors.Is(err, file.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, file.ErrTypeNotAllowed):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusCreated, FileUploadResponse{
		Message: "file uploaded successfully",
		File:    NewFileResponse(f),
	})
}

// List returns metadata for the files attached to a booking.
func (h *Handler) List(c *gin.Context) {
	bookingID := c.Query("booking_id")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_id query parameter is required"})
		return
	}

	files, err := h.fileService.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	items := make([]FileResponse, len(files))
	for i, f := range files {
		items[i] = NewFileResponse(f)
	}

	c.JSON(http.StatusOK, gin.H{"files": items})
}

// ServeFile serves the file content by ID
func (h *Handler) ServeFile(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, fileInfo, err := h.fileService.Download(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, file.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serve file"})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", fileInfo.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+fileInfo.Filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing useful to send.
		return
	}
}

// ServeThumbnail serves the thumbnail image by file ID
func (h *Handler) ServeThumbnail(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	stream, fileInfo, err := h.fileService.DownloadThumbnail(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		case errors.Is(err, file.ErrNoThumbnail):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serve thumbnail"})
		}
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG
	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+fileInfo.Filename+"_thumb.jpg\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		return
	}
}

// Delete removes a file; only the uploading clinician may do so.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), id, auth.GetClinicianID(c)); err != nil {
		switch {
		case errors.Is(err, file.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		case errors.Is(err, file.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
