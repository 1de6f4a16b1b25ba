package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sqio-health/or-booking-backend/internal/pkg/clock"
	"github.com/sqio-health/or-booking-backend/internal/pkg/keylock"
	"github.com/sqio-health/or-booking-backend/internal/room"
)

type CreateRequest struct {
	ClinicianID     string
	RoomID          string
	Date            time.Time
	StartTime       string // "HH:MM"
	DurationMinutes int
	PatientName     string
	PatientDocument *string
	PatientEmail    *string
	Category        Category
	Notes           *string
}

type AvailabilityRequest struct {
	RoomID          string
	Date            time.Time
	StartTime       string
	DurationMinutes int
	Category        Category
}

type Service interface {
	// CheckAvailability evaluates a requested slot without writing anything.
	// Identical inputs with no intervening writes yield identical verdicts.
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*Verdict, error)

	// Create evaluates the request and applies the verdict: emergency
	// override auto-cancels the affected bookings, urgent override inserts a
	// pending booking and flags the displaced ones, everything else inserts
	// directly as confirmed. The verdict is returned with the booking so the
	// caller can report overrides; on ErrUnavailable the verdict carries the
	// blocking bookings.
	Create(ctx context.Context, req CreateRequest) (*Booking, *Verdict, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// SetStatus performs a direct status transition (confirmed ->
	// in_progress -> completed, or cancellation without a reason).
	SetStatus(ctx context.Context, id string, status Status) (*Booking, error)

	// Cancel soft-deletes the booking, recording the reason in its notes.
	// Only the owning clinician may cancel.
	Cancel(ctx context.Context, id, reason, clinicianID string) error

	// AcceptConflict: the owner of the displaced booking cedes the room. The
	// displaced booking is cancelled and the paired pending urgent booking
	// is confirmed.
	AcceptConflict(ctx context.Context, id, clinicianID string) error

	// RejectConflict: the owner keeps the room. The displaced booking's
	// conflict annotations clear and the paired pending booking is cancelled.
	RejectConflict(ctx context.Context, id, clinicianID string) error
}

type service struct {
	repo        Repository
	roomService room.Service
	clock       clock.Clock

	// roomDays serializes the evaluate-then-commit sequence per room/day so
	// two concurrent requests cannot both pass the overlap check.
	roomDays *keylock.KeyLock
}

func NewService(repo Repository, roomService room.Service, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		roomService: roomService,
		clock:       clk,
		roomDays:    keylock.New(),
	}
}

func roomDayKey(roomID string, date time.Time) string {
	return roomID + "|" + date.Format("2006-01-02")
}

func (s *service) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*Verdict, error) {
	endTime, err := AddMinutes(req.StartTime, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if _, err := s.roomService.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	overlapping, err := s.repo.ListOverlapping(ctx, req.RoomID, req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, err
	}

	return EvaluateAvailability(req.Category, overlapping, s.clock.Now()), nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, *Verdict, error) {
	endTime, err := AddMinutes(req.StartTime, req.DurationMinutes)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.roomService.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}

	// Exclusive section: overlap read, verdict, and the resulting writes
	// must not interleave with another request for the same room/day.
	key := roomDayKey(req.RoomID, req.Date)
	s.roomDays.Lock(key)
	defer s.roomDays.Unlock(key)

	overlapping, err := s.repo.ListOverlapping(ctx, req.RoomID, req.Date, req.StartTime, endTime)
	if err != nil {
		return nil, nil, err
	}

	verdict := EvaluateAvailability(req.Category, overlapping, s.clock.Now())
	if !verdict.Available {
		return nil, verdict, ErrUnavailable
	}

	b := &Booking{
		RoomID:          req.RoomID,
		ClinicianID:     req.ClinicianID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         endTime,
		DurationMinutes: req.DurationMinutes,
		PatientName:     req.PatientName,
		PatientDocument: req.PatientDocument,
		PatientEmail:    req.PatientEmail,
		Category:        req.Category,
		Status:          StatusConfirmed,
		Notes:           req.Notes,
	}

	switch {
	case req.Category == CategoryEmergency && verdict.Override:
		ids := bookingIDs(verdict.Affected)
		if err := s.repo.CreateReplacing(ctx, b, ids, noteCancelledForEmergency); err != nil {
			if errors.Is(err, ErrIntegrity) {
				log.Printf("INTEGRITY: emergency override for room %s on %s: %v",
					req.RoomID, req.Date.Format("2006-01-02"), err)
			}
			return nil, verdict, err
		}

	case req.Category == CategoryUrgent && verdict.Override:
		// The displaced bookings stay confirmed and keep the room until
		// their owners decide; the new booking waits as pending_decision.
		b.Status = StatusPendingDecision
		cs := ConflictAwaitingDecision
		b.ConflictStatus = &cs
		b.ConflictBookingID = &verdict.Affected[0].ID

		if err := s.repo.CreateWithConflicts(ctx, b, bookingIDs(verdict.Affected)); err != nil {
			if errors.Is(err, ErrIntegrity) {
				log.Printf("INTEGRITY: urgent conflict flagging for room %s on %s: %v",
					req.RoomID, req.Date.Format("2006-01-02"), err)
			}
			return nil, verdict, err
		}

	default:
		if err := s.repo.Create(ctx, b); err != nil {
			return nil, verdict, err
		}
	}

	// Re-read for the joined room/clinician fields.
	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, verdict, fmt.Errorf("booking %s created but fetch failed: %w", b.ID, err)
	}
	return created, verdict, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	switch status {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
	default:
		// pending_decision is only ever entered by the urgent-create flow.
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id, reason, clinicianID string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.ClinicianID != clinicianID {
		return ErrPermissionDenied
	}
	return s.repo.Cancel(ctx, id, reason)
}

func (s *service) AcceptConflict(ctx context.Context, id, clinicianID string) error {
	return s.resolveConflict(ctx, id, clinicianID, s.repo.ResolveAccept)
}

func (s *service) RejectConflict(ctx context.Context, id, clinicianID string) error {
	return s.resolveConflict(ctx, id, clinicianID, s.repo.ResolveReject)
}

func (s *service) resolveConflict(
	ctx context.Context,
	id, clinicianID string,
	resolve func(ctx context.Context, displacedID, pendingID string) error,
) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.ClinicianID != clinicianID {
		return ErrPermissionDenied
	}
	if b.ConflictStatus == nil || b.ConflictBookingID == nil {
		return ErrStaleConflict
	}

	// Serialize with booking creation on the same room/day: confirming or
	// cancelling the pending booking changes the overlap set an evaluator
	// might be reading.
	key := roomDayKey(b.RoomID, b.Date)
	s.roomDays.Lock(key)
	defer s.roomDays.Unlock(key)

	if err := resolve(ctx, b.ID, *b.ConflictBookingID); err != nil {
		if errors.Is(err, ErrIntegrity) {
			log.Printf("INTEGRITY: conflict decision on booking %s (pair %s): %v",
				b.ID, *b.ConflictBookingID, err)
		}
		return err
	}
	return nil
}

func bookingIDs(bookings []*Booking) []string {
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids
}
