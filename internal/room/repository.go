package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, r *Room) error
	ListFree(ctx context.Context, date time.Time, startTime, endTime string) ([]*Room, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, room *Room) error {
	const query = `
		INSERT INTO public.rooms (number, name, status, capacity, equipment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, room.Number, room.Name, room.Status, room.Capacity, room.Equipment).
		Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrNumberInUse
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	const query = `
		SELECT id, number, name, status, capacity, equipment, created_at
		FROM public.rooms
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var room Room
	if err := row.Scan(&room.ID, &room.Number, &room.Name, &room.Status, &room.Capacity, &room.Equipment, &room.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room failed: %w", err)
	}
	return &room, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "number", "name", "status", "capacity", "equipment", "created_at", "count(*) OVER() as total_count").
		From("public.rooms")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	query = query.OrderBy("number ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var result []*Room
	var total int

	for rows.Next() {
		var room Room
		if err := rows.Scan(
			&room.ID, &room.Number, &room.Name, &room.Status, &room.Capacity, &room.Equipment, &room.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan room failed: %w", err)
		}
		result = append(result, &room)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, room *Room) error {
	const query = `
		UPDATE public.rooms
		SET name = $1, status = $2, capacity = $3, equipment = $4
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, room.Name, room.Status, room.Capacity, room.Equipment, room.ID)
	if err != nil {
		return fmt.Errorf("update room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFree selects available rooms that have no overlapping non-cancelled
// booking on the date. The overlap predicate matches the booking
// repository's half-open interval semantics.
func (r *pgxRepository) ListFree(ctx context.Context, date time.Time, startTime, endTime string) ([]*Room, error) {
	const query = `
		SELECT r.id, r.number, r.name, r.status, r.capacity, r.equipment, r.created_at
		FROM public.rooms r
		WHERE r.status = 'available'
		AND r.id NOT IN (
			SELECT b.room_id FROM public.bookings b
			WHERE b.date = $1
			AND b.status <> 'cancelled'
			AND b.start_time < $3
			AND b.end_time > $2
		)
		ORDER BY r.number ASC
	`
	rows, err := r.pool.Query(ctx, query, date, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("list free rooms failed: %w", err)
	}
	defer rows.Close()

	var result []*Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Number, &room.Name, &room.Status, &room.Capacity, &room.Equipment, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		result = append(result, &room)
	}
	return result, nil
}
