package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqio-health/or-booking-backend/internal/pkg/clock"
	"github.com/sqio-health/or-booking-backend/internal/room"
)

// fakeRepo is an in-memory Repository mirroring the transactional behavior
// of the pgx implementation: conditional updates that report staleness and
// row-count mismatches.
type fakeRepo struct {
	bookings map[string]*Booking
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*Booking)}
}

func (r *fakeRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("booking-%d", r.seq)
}

func (r *fakeRepo) insert(b *Booking) {
	b.ID = r.nextID()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	r.bookings[b.ID] = &cp
}

func (r *fakeRepo) Create(ctx context.Context, b *Booking) error {
	r.insert(b)
	return nil
}

func (r *fakeRepo) CreateReplacing(ctx context.Context, b *Booking, cancelIDs []string, note string) error {
	for _, id := range cancelIDs {
		existing, ok := r.bookings[id]
		if !ok || existing.Status == StatusCancelled {
			return fmt.Errorf("%w: expected to cancel %d bookings", ErrIntegrity, len(cancelIDs))
		}
	}
	for _, id := range cancelIDs {
		n := note
		r.bookings[id].Status = StatusCancelled
		r.bookings[id].Notes = &n
	}
	r.insert(b)
	return nil
}

func (r *fakeRepo) CreateWithConflicts(ctx context.Context, b *Booking, affectedIDs []string) error {
	r.insert(b)
	cs := ConflictAwaitingDecision
	for _, id := range affectedIDs {
		existing, ok := r.bookings[id]
		if !ok || existing.Status == StatusCancelled {
			return fmt.Errorf("%w: expected to flag %d bookings", ErrIntegrity, len(affectedIDs))
		}
		existing.ConflictStatus = &cs
		id := b.ID
		existing.ConflictBookingID = &id
	}
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		cp := *b
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListOverlapping(ctx context.Context, roomID string, date time.Time, startTime, endTime string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.RoomID != roomID || !b.Date.Equal(date) || b.Status == StatusCancelled {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, startTime, endTime) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	wasPending := b.Status == StatusPendingDecision
	partner := b.ConflictBookingID
	b.Status = status
	switch {
	case status == StatusCancelled:
		b.ConflictStatus = nil
		b.ConflictBookingID = nil
		r.releasePair(id, wasPending, partner)
	case wasPending:
		b.ConflictStatus = nil
		b.ConflictBookingID = nil
		r.clearSiblings(id)
	}
	return nil
}

func (r *fakeRepo) Cancel(ctx context.Context, id string, note string) error {
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	wasPending := b.Status == StatusPendingDecision
	partner := b.ConflictBookingID
	b.Status = StatusCancelled
	b.Notes = &note
	b.ConflictStatus = nil
	b.ConflictBookingID = nil
	r.releasePair(id, wasPending, partner)
	return nil
}

// releasePair mirrors the pgx repository: a cancelled pending booking
// releases its displaced partners; a cancelled displaced booking confirms
// the paired pending booking and clears its siblings.
func (r *fakeRepo) releasePair(id string, wasPending bool, partner *string) {
	if wasPending {
		r.clearSiblings(id)
		return
	}
	if partner == nil {
		return
	}
	if pending, ok := r.bookings[*partner]; ok && pending.Status == StatusPendingDecision {
		pending.Status = StatusConfirmed
		pending.ConflictStatus = nil
		pending.ConflictBookingID = nil
	}
	r.clearSiblings(*partner)
}

func (r *fakeRepo) ResolveAccept(ctx context.Context, displacedID, pendingID string) error {
	displaced, ok := r.bookings[displacedID]
	if !ok || displaced.ConflictStatus == nil {
		return ErrStaleConflict
	}
	pending, ok := r.bookings[pendingID]
	if !ok || pending.Status != StatusPendingDecision {
		return fmt.Errorf("%w: pending booking %s is not pending", ErrIntegrity, pendingID)
	}

	note := noteConflictAccepted
	displaced.Status = StatusCancelled
	displaced.Notes = &note
	displaced.ConflictStatus = nil
	displaced.ConflictBookingID = nil

	pending.Status = StatusConfirmed
	pending.ConflictStatus = nil
	pending.ConflictBookingID = nil

	r.clearSiblings(pendingID)
	return nil
}

func (r *fakeRepo) ResolveReject(ctx context.Context, displacedID, pendingID string) error {
	displaced, ok := r.bookings[displacedID]
	if !ok || displaced.ConflictStatus == nil {
		return ErrStaleConflict
	}
	pending, ok := r.bookings[pendingID]
	if !ok || pending.Status != StatusPendingDecision {
		return fmt.Errorf("%w: pending booking %s is not pending", ErrIntegrity, pendingID)
	}

	displaced.ConflictStatus = nil
	displaced.ConflictBookingID = nil

	note := noteConflictRejected
	pending.Status = StatusCancelled
	pending.Notes = &note
	pending.ConflictStatus = nil
	pending.ConflictBookingID = nil

	r.clearSiblings(pendingID)
	return nil
}

func (r *fakeRepo) clearSiblings(pendingID string) {
	for _, b := range r.bookings {
		if b.ConflictBookingID != nil && *b.ConflictBookingID == pendingID {
			b.ConflictStatus = nil
			b.ConflictBookingID = nil
		}
	}
}

// fakeRoomService knows a fixed set of rooms.
type fakeRoomService struct {
	rooms map[string]*room.Room
}

func newFakeRoomService(ids ...string) *fakeRoomService {
	m := make(map[string]*room.Room)
	for _, id := range ids {
		m[id] = &room.Room{ID: id, Number: "OR-1", Name: "Main OR", Status: room.StatusAvailable, Capacity: 8}
	}
	return &fakeRoomService{rooms: m}
}

func (s *fakeRoomService) Create(ctx context.Context, req room.CreateRequest) (*room.Room, error) {
	panic("not used")
}

func (s *fakeRoomService) GetByID(ctx context.Context, id string) (*room.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, room.ErrNotFound
	}
	return r, nil
}

func (s *fakeRoomService) List(ctx context.Context, filter room.Filter) ([]*room.Room, int, error) {
	panic("not used")
}

func (s *fakeRoomService) Update(ctx context.Context, id string, req room.UpdateRequest) (*room.Room, error) {
	panic("not used")
}

func (s *fakeRoomService) ListFree(ctx context.Context, date time.Time, startTime, endTime string) ([]*room.Room, error) {
	panic("not used")
}

func newTestService(now time.Time) (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, newFakeRoomService("room-1"), clock.NewFixed(now)), repo
}

func createReq(start string, duration int, category Category) CreateRequest {
	return CreateRequest{
		ClinicianID:     "clin-1",
		RoomID:          "room-1",
		Date:            day(2026, 3, 15),
		StartTime:       start,
		DurationMinutes: duration,
		PatientName:     "Test Patient",
		Category:        category,
	}
}

func TestCreateElectiveOnFreeRoom(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	b, verdict, err := svc.Create(ctx, createReq("10:00", 90, CategoryElective))

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "11:30", b.EndTime)
	assert.False(t, verdict.Override)
}

func TestCreateBackToBackSlots(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	// Starts exactly when the previous one ends: not a conflict.
	b, _, err := svc.Create(ctx, createReq("11:00", 60, CategoryElective))
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestCreateElectiveConflictRejected(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	b, verdict, err := svc.Create(ctx, createReq("10:30", 60, CategoryElective))

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, b)
	require.NotNil(t, verdict)
	require.Len(t, verdict.Affected, 1)
	assert.Equal(t, first.ID, verdict.Affected[0].ID)
}

func TestCreateUnknownRoom(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	req := createReq("10:00", 60, CategoryElective)
	req.RoomID = "room-missing"

	_, _, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateEmergencyCancelsFutureOverlaps(t *testing.T) {
	svc, repo := newTestService(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	elective, _, err := svc.Create(ctx, createReq("14:00", 120, CategoryElective))
	require.NoError(t, err)

	req := createReq("14:30", 60, CategoryEmergency)
	req.ClinicianID = "clin-2"
	b, verdict, err := svc.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.True(t, verdict.Override)

	displaced, err := repo.GetByID(ctx, elective.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, displaced.Status)
	require.NotNil(t, displaced.Notes)
	assert.Equal(t, noteCancelledForEmergency, *displaced.Notes)
}

func TestCreateEmergencyBlockedByRunningProcedure(t *testing.T) {
	// Evaluation happens while the existing booking is underway.
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, newFakeRoomService("room-1"), clock.NewFixed(time.Date(2026, 3, 15, 14, 45, 0, 0, time.UTC)))
	running := &Booking{
		RoomID:      "room-1",
		ClinicianID: "clin-1",
		Date:        day(2026, 3, 15),
		StartTime:   "14:00",
		EndTime:     "16:00",
		Category:    CategoryElective,
		Status:      StatusInProgress,
	}
	require.NoError(t, repo.Create(ctx, running))

	req := createReq("14:30", 60, CategoryEmergency)
	req.ClinicianID = "clin-2"
	b, verdict, err := svc.Create(ctx, req)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, b)
	require.NotNil(t, verdict)
	require.Len(t, verdict.Affected, 1)

	// The running booking was not touched.
	got, err := repo.GetByID(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
}

func TestCreateUrgentEntersPendingDecision(t *testing.T) {
	svc, repo := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	elective, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	req := createReq("10:30", 60, CategoryUrgent)
	req.ClinicianID = "clin-2"
	pending, verdict, err := svc.Create(ctx, req)

	require.NoError(t, err)
	assert.True(t, verdict.Override)
	assert.True(t, verdict.RequiresApproval)
	assert.Equal(t, StatusPendingDecision, pending.Status)
	require.NotNil(t, pending.ConflictBookingID)
	assert.Equal(t, elective.ID, *pending.ConflictBookingID)

	// The displaced booking keeps the room but carries the conflict flag.
	displaced, err := repo.GetByID(ctx, elective.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, displaced.Status)
	require.NotNil(t, displaced.ConflictStatus)
	assert.Equal(t, ConflictAwaitingDecision, *displaced.ConflictStatus)
	require.NotNil(t, displaced.ConflictBookingID)
	assert.Equal(t, pending.ID, *displaced.ConflictBookingID)
}

func setupConflictPair(t *testing.T) (Service, *fakeRepo, *Booking, *Booking) {
	t.Helper()
	svc, repo := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	elective, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	req := createReq("10:30", 60, CategoryUrgent)
	req.ClinicianID = "clin-2"
	pending, _, err := svc.Create(ctx, req)
	require.NoError(t, err)

	displaced, err := repo.GetByID(ctx, elective.ID)
	require.NoError(t, err)
	return svc, repo, displaced, pending
}

func TestAcceptConflict(t *testing.T) {
	svc, repo, displaced, pending := setupConflictPair(t)
	ctx := context.Background()

	require.NoError(t, svc.AcceptConflict(ctx, displaced.ID, "clin-1"))

	gotDisplaced, err := repo.GetByID(ctx, displaced.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, gotDisplaced.Status)
	assert.Nil(t, gotDisplaced.ConflictStatus)

	gotPending, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, gotPending.Status)
	assert.Nil(t, gotPending.ConflictStatus)
	assert.Nil(t, gotPending.ConflictBookingID)
}

func TestRejectConflict(t *testing.T) {
	svc, repo, displaced, pending := setupConflictPair(t)
	ctx := context.Background()

	require.NoError(t, svc.RejectConflict(ctx, displaced.ID, "clin-1"))

	gotDisplaced, err := repo.GetByID(ctx, displaced.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, gotDisplaced.Status)
	assert.Nil(t, gotDisplaced.ConflictStatus)
	assert.Nil(t, gotDisplaced.ConflictBookingID)

	gotPending, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, gotPending.Status)
	require.NotNil(t, gotPending.Notes)
	assert.Equal(t, noteConflictRejected, *gotPending.Notes)
}

func TestConflictDecisionRequiresOwner(t *testing.T) {
	svc, _, displaced, _ := setupConflictPair(t)

	err := svc.AcceptConflict(context.Background(), displaced.ID, "clin-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.RejectConflict(context.Background(), displaced.ID, "someone-else")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestConflictDecisionIsFirstWins(t *testing.T) {
	svc, _, displaced, _ := setupConflictPair(t)
	ctx := context.Background()

	require.NoError(t, svc.AcceptConflict(ctx, displaced.ID, "clin-1"))

	// A second decision on the same conflict is stale.
	err := svc.RejectConflict(ctx, displaced.ID, "clin-1")
	assert.ErrorIs(t, err, ErrStaleConflict)
}

func TestConflictDecisionOnPlainBooking(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	b, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	err = svc.AcceptConflict(ctx, b.ID, "clin-1")
	assert.ErrorIs(t, err, ErrStaleConflict)
}

func TestFreedSlotIsReusableAfterAccept(t *testing.T) {
	svc, _, displaced, _ := setupConflictPair(t)
	ctx := context.Background()

	require.NoError(t, svc.AcceptConflict(ctx, displaced.ID, "clin-1"))

	// The pending booking is now confirmed 10:30-11:30; 11:30 onward is free.
	b, _, err := svc.Create(ctx, createReq("11:30", 30, CategoryElective))
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestCreateConflictsWithBookingEndingAtMidnight(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, _, err := svc.Create(ctx, createReq("23:00", 60, CategoryElective))
	require.NoError(t, err)
	assert.Equal(t, "24:00", first.EndTime)

	// The last hour of the day is taken; a slot inside it must conflict.
	b, verdict, err := svc.Create(ctx, createReq("23:30", 15, CategoryElective))

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, b)
	require.NotNil(t, verdict)
	require.Len(t, verdict.Affected, 1)
	assert.Equal(t, first.ID, verdict.Affected[0].ID)
}

func TestCancelDisplacedBookingConfirmsPendingPartner(t *testing.T) {
	svc, repo, displaced, pending := setupConflictPair(t)
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, displaced.ID, "patient rescheduled", "clin-1"))

	// Cancelling the displaced booking cedes the room like an accept.
	gotPending, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, gotPending.Status)
	assert.Nil(t, gotPending.ConflictStatus)
	assert.Nil(t, gotPending.ConflictBookingID)

	// A late decision on the resolved conflict is stale, not broken.
	err = svc.AcceptConflict(ctx, displaced.ID, "clin-1")
	assert.ErrorIs(t, err, ErrStaleConflict)
}

func TestCancelPendingBookingReleasesDisplaced(t *testing.T) {
	svc, repo, displaced, pending := setupConflictPair(t)
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, pending.ID, "no longer needed", "clin-2"))

	gotDisplaced, err := repo.GetByID(ctx, displaced.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, gotDisplaced.Status)
	assert.Nil(t, gotDisplaced.ConflictStatus)
	assert.Nil(t, gotDisplaced.ConflictBookingID)
}

func TestSetStatusOnPendingBookingReleasesDisplaced(t *testing.T) {
	svc, repo, displaced, pending := setupConflictPair(t)
	ctx := context.Background()

	updated, err := svc.SetStatus(ctx, pending.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)
	assert.Nil(t, updated.ConflictStatus)

	gotDisplaced, err := repo.GetByID(ctx, displaced.ID)
	require.NoError(t, err)
	assert.Nil(t, gotDisplaced.ConflictStatus)
	assert.Nil(t, gotDisplaced.ConflictBookingID)
}

func TestSetStatusRejectsPendingDecision(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	b, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, b.ID, StatusPendingDecision)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.SetStatus(ctx, b.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
}

func TestCancelRequiresOwner(t *testing.T) {
	svc, repo := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	b, _, err := svc.Create(ctx, createReq("10:00", 60, CategoryElective))
	require.NoError(t, err)

	err = svc.Cancel(ctx, b.ID, "schedule change", "clin-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.Cancel(ctx, b.ID, "schedule change", "clin-1"))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestCheckAvailabilityDoesNotWrite(t *testing.T) {
	svc, repo := newTestService(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	v, err := svc.CheckAvailability(ctx, AvailabilityRequest{
		RoomID:          "room-1",
		Date:            day(2026, 3, 15),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Category:        CategoryElective,
	})
	require.NoError(t, err)
	assert.True(t, v.Available)
	assert.Empty(t, repo.bookings)
}
