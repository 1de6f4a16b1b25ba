package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sqio-health/or-booking-backend/internal/pkg/storage"
)

// UploadInput carries the upload payload plus per-endpoint constraints.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	ClinicianID  string
	BookingID    *string
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = allow all
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Get(ctx context.Context, id string) (*File, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*File, error)
	Delete(ctx context.Context, id, clinicianID string) error
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	header := in.FileHeader
	if in.MaxSizeBytes > 0 && header.Size > in.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if len(in.AllowedTypes) > 0 {
		allowed := false
		for _, t := range in.AllowedTypes {
			if t == contentType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrTypeNotAllowed
		}
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Read content to buffer for multiple reads (processing, saving).
	// Uploads are size-capped at the handler, so buffering is fine.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))

	fileID := uuid.New().String()

	// Sharding path: upload/ab/UUID.ext
	shard := fileID[:2]
	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, fileID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save file to storage: %w", err)
	}

	var thumbnailPath *string
	// Generate thumbnail if image; failure here never fails the upload.
	if strings.HasPrefix(contentType, "image/") {
		thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
		if err == nil {
			tPath := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, fileID)
			if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
				thumbnailPath = &tPath
			}
		}
	}

	f := &File{
		ID:            fileID,
		ClinicianID:   in.ClinicianID,
		BookingID:     in.BookingID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		// Cleanup storage if db fails
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return f, nil
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByBooking(ctx context.Context, bookingID string) ([]*File, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *service) Delete(ctx context.Context, id, clinicianID string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.ClinicianID != clinicianID {
		return ErrNotOwner
	}

	// Best-effort storage cleanup; the DB record is authoritative.
	_ = s.storage.Delete(ctx, f.StoragePath)
	if f.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *f.ThumbnailPath)
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve file from storage: %w", err)
	}

	return stream, f, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}

	return stream, f, nil
}
