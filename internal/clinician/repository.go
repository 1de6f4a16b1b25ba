package clinician

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing clinician data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Clinician, error)
	GetByID(ctx context.Context, id string) (*Clinician, error)
	Create(ctx context.Context, cl *Clinician) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context, filter Filter) ([]*Clinician, int, error)
}

type pgxClinicianRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxClinicianRepository{
		pool: pool,
	}
}

const clinicianColumns = `
	id,
	first_name,
	last_name,
	specialty,
	email,
	password_hash,
	phone,
	license_number,
	is_active,
	created_at,
	last_login_at
`

func scanClinician(row pgx.Row, extra ...any) (*Clinician, error) {
	var cl Clinician
	dest := []any{
		&cl.ID,
		&cl.FirstName,
		&cl.LastName,
		&cl.Specialty,
		&cl.Email,
		&cl.PasswordHash,
		&cl.Phone,
		&cl.LicenseNumber,
		&cl.IsActive,
		&cl.CreatedAt,
		&cl.LastLoginAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *pgxClinicianRepository) GetByEmail(ctx context.Context, email string) (*Clinician, error) {
	query := `SELECT ` + clinicianColumns + ` FROM public.clinicians WHERE email = $1`

	cl, err := scanClinician(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByEmail query failed: %w", err)
	}
	return cl, nil
}

func (r *pgxClinicianRepository) GetByID(ctx context.Context, id string) (*Clinician, error) {
	query := `SELECT ` + clinicianColumns + ` FROM public.clinicians WHERE id = $1`

	cl, err := scanClinician(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID query failed: %w", err)
	}
	return cl, nil
}

func (r *pgxClinicianRepository) Create(ctx context.Context, cl *Clinician) error {
	const query = `
		INSERT INTO public.clinicians
			(first_name, last_name, specialty, email, password_hash, phone, license_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		cl.FirstName,
		cl.LastName,
		cl.Specialty,
		cl.Email,
		cl.PasswordHash,
		cl.Phone,
		cl.LicenseNumber,
		cl.IsActive,
	).Scan(&cl.ID, &cl.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("Create clinician failed: %w", err)
	}

	return nil
}

func (r *pgxClinicianRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `
		UPDATE public.clinicians
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("UpdateLastLogin failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxClinicianRepository) List(ctx context.Context, filter Filter) ([]*Clinician, int, error) {
	var args []any
	queryBuilder := bytes.NewBufferString(`
		SELECT ` + clinicianColumns + `,
			count(*) OVER() AS total_count
		FROM public.clinicians
		WHERE 1=1
	`)

	// Dynamic filtering
	if filter.Specialty != "" {
		args = append(args, "%"+filter.Specialty+"%")
		queryBuilder.WriteString(" AND specialty ILIKE $" + strconv.Itoa(len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		queryBuilder.WriteString(" AND (first_name || ' ' || last_name) ILIKE $" + strconv.Itoa(len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		queryBuilder.WriteString(" AND is_active = $" + strconv.Itoa(len(args)))
	}

	// Sorting
	orderBy := "created_at"
	switch filter.SortBy {
	case "last_name", "specialty", "created_at":
		orderBy = filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}

	queryBuilder.WriteString(" ORDER BY " + orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	args = append(args, filter.PageSize, offset)
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args)))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clinicians failed: %w", err)
	}
	defer rows.Close()

	var clinicians []*Clinician
	var total int

	for rows.Next() {
		cl, err := scanClinician(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan clinician failed: %w", err)
		}
		clinicians = append(clinicians, cl)
	}

	return clinicians, total, nil
}
