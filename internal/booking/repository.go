package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts a booking as-is (status and conflict fields already set).
	Create(ctx context.Context, b *Booking) error

	// CreateReplacing atomically cancels the given bookings (emergency
	// override) and inserts the new booking. All or nothing.
	CreateReplacing(ctx context.Context, b *Booking, cancelIDs []string, note string) error

	// CreateWithConflicts atomically inserts the new booking and flags every
	// affected booking with conflict_status awaiting_decision and a
	// reference to the new booking's id.
	CreateWithConflicts(ctx context.Context, b *Booking, affectedIDs []string) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// ListOverlapping returns non-cancelled bookings for the room and date
	// whose half-open interval overlaps [startTime, endTime).
	ListOverlapping(ctx context.Context, roomID string, date time.Time, startTime, endTime string) ([]*Booking, error)

	// UpdateStatus and Cancel are direct mutations. When the booking is half
	// of a live conflict pair, cancelling it (or force-confirming a pending
	// one) also releases the partner's conflict annotations in the same
	// transaction.
	UpdateStatus(ctx context.Context, id string, status Status) error
	Cancel(ctx context.Context, id string, note string) error

	// ResolveAccept and ResolveReject apply the paired mutations of a
	// conflict decision in a single transaction. They return ErrStaleConflict
	// when the displaced booking no longer carries an awaiting decision, and
	// ErrIntegrity when the pairing is broken (referenced pending booking is
	// not pending anymore).
	ResolveAccept(ctx context.Context, displacedID, pendingID string) error
	ResolveReject(ctx context.Context, displacedID, pendingID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// bookingColumns is the joined read model: booking fields plus room and
// clinician display names.
const bookingColumns = `
	b.id, b.room_id, r.number, r.name,
	b.clinician_id, c.first_name || ' ' || c.last_name, c.specialty,
	b.date, b.start_time, b.end_time, b.duration_minutes,
	b.patient_name, b.patient_document, b.patient_email,
	b.category, b.status, b.conflict_status, b.conflict_booking_id,
	b.notes, b.created_at, b.updated_at`

const bookingJoins = `
	FROM public.bookings b
	JOIN public.rooms r ON b.room_id = r.id
	JOIN public.clinicians c ON b.clinician_id = c.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, extra ...any) (*Booking, error) {
	var b Booking
	var category, status string
	var patientDocument, patientEmail, conflictStatus, conflictBookingID, notes sql.NullString

	dest := []any{
		&b.ID, &b.RoomID, &b.RoomNumber, &b.RoomName,
		&b.ClinicianID, &b.ClinicianName, &b.ClinicianSpecialty,
		&b.Date, &b.StartTime, &b.EndTime, &b.DurationMinutes,
		&b.PatientName, &patientDocument, &patientEmail,
		&category, &status, &conflictStatus, &conflictBookingID,
		&notes, &b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	b.Category = Category(category)
	b.Status = Status(status)
	if patientDocument.Valid {
		b.PatientDocument = &patientDocument.String
	}
	if patientEmail.Valid {
		b.PatientEmail = &patientEmail.String
	}
	if conflictStatus.Valid {
		cs := ConflictStatus(conflictStatus.String)
		b.ConflictStatus = &cs
	}
	if conflictBookingID.Valid {
		b.ConflictBookingID = &conflictBookingID.String
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	return &b, nil
}

const insertBookingSQL = `
	INSERT INTO public.bookings
		(room_id, clinician_id, date, start_time, end_time, duration_minutes,
		 patient_name, patient_document, patient_email, category, status,
		 conflict_status, conflict_booking_id, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id, created_at, updated_at`

func insertArgs(b *Booking) []any {
	var conflictStatus *string
	if b.ConflictStatus != nil {
		s := string(*b.ConflictStatus)
		conflictStatus = &s
	}
	return []any{
		b.RoomID, b.ClinicianID, b.Date, b.StartTime, b.EndTime, b.DurationMinutes,
		b.PatientName, b.PatientDocument, b.PatientEmail, string(b.Category), string(b.Status),
		conflictStatus, b.ConflictBookingID, b.Notes,
	}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	err := r.pool.QueryRow(ctx, insertBookingSQL, insertArgs(b)...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) CreateReplacing(ctx context.Context, b *Booking, cancelIDs []string, note string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin emergency create failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const cancelSQL = `
		UPDATE public.bookings
		SET status = 'cancelled', conflict_status = NULL, conflict_booking_id = NULL,
		    notes = $2, updated_at = now()
		WHERE id = ANY($1) AND status <> 'cancelled'`

	ct, err := tx.Exec(ctx, cancelSQL, cancelIDs, note)
	if err != nil {
		return fmt.Errorf("emergency mass-cancel failed: %w", err)
	}
	if int(ct.RowsAffected()) != len(cancelIDs) {
		// A booking in the override set changed under us. The room/day lock
		// should prevent this; surface it loudly instead of committing.
		return fmt.Errorf("%w: emergency cancel touched %d of %d bookings %v",
			ErrIntegrity, ct.RowsAffected(), len(cancelIDs), cancelIDs)
	}

	if err := tx.QueryRow(ctx, insertBookingSQL, insertArgs(b)...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create emergency booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit emergency create failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) CreateWithConflicts(ctx context.Context, b *Booking, affectedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin urgent create failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, insertBookingSQL, insertArgs(b)...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create urgent booking failed: %w", err)
	}

	const flagSQL = `
		UPDATE public.bookings
		SET conflict_status = 'awaiting_decision', conflict_booking_id = $2, updated_at = now()
		WHERE id = ANY($1) AND status <> 'cancelled'`

	ct, err := tx.Exec(ctx, flagSQL, affectedIDs, b.ID)
	if err != nil {
		return fmt.Errorf("flag displaced bookings failed: %w", err)
	}
	if int(ct.RowsAffected()) != len(affectedIDs) {
		return fmt.Errorf("%w: conflict flag touched %d of %d bookings %v",
			ErrIntegrity, ct.RowsAffected(), len(affectedIDs), affectedIDs)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit urgent create failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := "SELECT " + bookingColumns + bookingJoins + " WHERE b.id = $1"

	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns + ", count(*) OVER() as total_count").
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id").
		Join("public.clinicians c ON b.clinician_id = c.id")

	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"b.date": *filter.Date})
	}
	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.ClinicianID != "" {
		query = query.Where(squirrel.Eq{"b.clinician_id": filter.ClinicianID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	orderBy := "b.date"
	if filter.SortBy != "" {
		orderBy = "b." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.start_time ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListOverlapping(ctx context.Context, roomID string, date time.Time, startTime, endTime string) ([]*Booking, error) {
	// Half-open overlap: existing.start < new.end AND existing.end > new.start.
	// Zero-padded HH:MM text (with "24:00" as day end) compares correctly.
	query := "SELECT " + bookingColumns + bookingJoins + `
		WHERE b.room_id = $1
		AND b.date = $2
		AND b.status <> 'cancelled'
		AND b.start_time < $4
		AND b.end_time > $3
		ORDER BY b.start_time ASC`

	rows, err := r.pool.Query(ctx, query, roomID, date, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("list overlapping bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

const lockBookingSQL = `
	SELECT status, conflict_booking_id FROM public.bookings WHERE id = $1 FOR UPDATE`

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	var partner sql.NullString
	if err := tx.QueryRow(ctx, lockBookingSQL, id).Scan(&current, &partner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}

	// Cancelling, or force-confirming a booking that was awaiting
	// arbitration, takes the booking out of its conflict pair.
	query := `
		UPDATE public.bookings
		SET status = $1, updated_at = now()
		WHERE id = $2`
	if status == StatusCancelled || current == string(StatusPendingDecision) {
		query = `
			UPDATE public.bookings
			SET status = $1, conflict_status = NULL, conflict_booking_id = NULL,
			    updated_at = now()
			WHERE id = $2`
	}
	if _, err := tx.Exec(ctx, query, string(status), id); err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}

	switch {
	case status == StatusCancelled:
		if err := releaseConflictPair(ctx, tx, id, current, partner); err != nil {
			return err
		}
	case current == string(StatusPendingDecision):
		if err := clearConflictRefs(ctx, tx, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status update failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Cancel(ctx context.Context, id string, note string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	var partner sql.NullString
	if err := tx.QueryRow(ctx, lockBookingSQL, id).Scan(&current, &partner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("cancel booking failed: %w", err)
	}

	const query = `
		UPDATE public.bookings
		SET status = 'cancelled', conflict_status = NULL, conflict_booking_id = NULL,
		    notes = $1, updated_at = now()
		WHERE id = $2`

	if _, err := tx.Exec(ctx, query, note, id); err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}

	if err := releaseConflictPair(ctx, tx, id, current, partner); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel failed: %w", err)
	}
	return nil
}

// releaseConflictPair untangles a live conflict pair when one side is
// cancelled outside the accept/reject flow, so the partner never holds a
// dangling awaiting_decision annotation. A cancelled pending booking
// releases its displaced partners; a cancelled displaced booking cedes the
// room, confirming the paired pending booking and clearing its siblings.
func releaseConflictPair(ctx context.Context, tx pgx.Tx, id, current string, partner sql.NullString) error {
	if current == string(StatusPendingDecision) {
		return clearConflictRefs(ctx, tx, id)
	}
	if !partner.Valid {
		return nil
	}

	const confirmSQL = `
		UPDATE public.bookings
		SET status = 'confirmed', conflict_status = NULL, conflict_booking_id = NULL,
		    updated_at = now()
		WHERE id = $1 AND status = 'pending_decision'`

	if _, err := tx.Exec(ctx, confirmSQL, partner.String); err != nil {
		return fmt.Errorf("confirm pending booking %s failed: %w", partner.String, err)
	}
	return clearConflictRefs(ctx, tx, partner.String)
}

func clearConflictRefs(ctx context.Context, tx pgx.Tx, pendingID string) error {
	const query = `
		UPDATE public.bookings
		SET conflict_status = NULL, conflict_booking_id = NULL, updated_at = now()
		WHERE conflict_booking_id = $1`

	if _, err := tx.Exec(ctx, query, pendingID); err != nil {
		return fmt.Errorf("clear conflict references to %s failed: %w", pendingID, err)
	}
	return nil
}

func (r *pgxRepository) ResolveAccept(ctx context.Context, displacedID, pendingID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin conflict accept failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// The displaced booking cedes the room. The conditional on
	// conflict_status makes the first decision win: a racing accept/reject
	// already cleared it, so this update touches nothing.
	const cedeSQL = `
		UPDATE public.bookings
		SET status = 'cancelled', conflict_status = NULL, conflict_booking_id = NULL,
		    notes = $2, updated_at = now()
		WHERE id = $1 AND conflict_status = 'awaiting_decision'`

	ct, err := tx.Exec(ctx, cedeSQL, displacedID, noteConflictAccepted)
	if err != nil {
		return fmt.Errorf("cancel displaced booking %s failed: %w", displacedID, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStaleConflict
	}

	const confirmSQL = `
		UPDATE public.bookings
		SET status = 'confirmed', conflict_status = NULL, conflict_booking_id = NULL,
		    updated_at = now()
		WHERE id = $1 AND status = 'pending_decision'`

	ct, err = tx.Exec(ctx, confirmSQL, pendingID)
	if err != nil {
		return fmt.Errorf("confirm pending booking %s failed: %w", pendingID, err)
	}
	if ct.RowsAffected() == 0 {
		// The displaced side was still flagged but its pair is gone: the
		// mutual-reference invariant is broken. Roll back and report.
		return fmt.Errorf("%w: pending booking %s missing for displaced %s (accept)",
			ErrIntegrity, pendingID, displacedID)
	}

	// Other bookings displaced by the same pending booking are no longer in
	// arbitration; clear their annotations so no dangling references remain.
	const clearSiblingsSQL = `
		UPDATE public.bookings
		SET conflict_status = NULL, conflict_booking_id = NULL, updated_at = now()
		WHERE conflict_booking_id = $1`

	if _, err := tx.Exec(ctx, clearSiblingsSQL, pendingID); err != nil {
		return fmt.Errorf("clear sibling conflicts for %s failed: %w", pendingID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit conflict accept failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ResolveReject(ctx context.Context, displacedID, pendingID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin conflict reject failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// The displaced booking keeps the room; only its annotations clear.
	const keepSQL = `
		UPDATE public.bookings
		SET conflict_status = NULL, conflict_booking_id = NULL, updated_at = now()
		WHERE id = $1 AND conflict_status = 'awaiting_decision'`

	ct, err := tx.Exec(ctx, keepSQL, displacedID)
	if err != nil {
		return fmt.Errorf("clear displaced booking %s failed: %w", displacedID, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStaleConflict
	}

	const rejectSQL = `
		UPDATE public.bookings
		SET status = 'cancelled', conflict_status = NULL, conflict_booking_id = NULL,
		    notes = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending_decision'`

	ct, err = tx.Exec(ctx, rejectSQL, pendingID, noteConflictRejected)
	if err != nil {
		return fmt.Errorf("cancel pending booking %s failed: %w", pendingID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: pending booking %s missing for displaced %s (reject)",
			ErrIntegrity, pendingID, displacedID)
	}

	const clearSiblingsSQL = `
		UPDATE public.bookings
		SET conflict_status = NULL, conflict_booking_id = NULL, updated_at = now()
		WHERE conflict_booking_id = $1`

	if _, err := tx.Exec(ctx, clearSiblingsSQL, pendingID); err != nil {
		return fmt.Errorf("clear sibling conflicts for %s failed: %w", pendingID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit conflict reject failed: %w", err)
	}
	return nil
}
