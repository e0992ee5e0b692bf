package lecturers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/shared"
)

// ErrHasClaims is returned when deleting a lecturer who still owns claims.
var ErrHasClaims = errors.New("lecturer has claims")

const fkViolation = "23503"

// Repository defines lecturer data access. List returns lecturers ordered
// alphabetically by full name.
type Repository interface {
	List(ctx context.Context) ([]Lecturer, error)
	Get(ctx context.Context, id int64) (Lecturer, error)
	Create(ctx context.Context, lecturer Lecturer) (Lecturer, error)
	Update(ctx context.Context, lecturer Lecturer) error
	Delete(ctx context.Context, id int64) error
}

var _ Repository = (*pgRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed lecturer repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const lecturerColumns = `id, full_name, email, phone, department, employee_number, bank_name, account_number, tax_number, default_hourly_rate::text, is_active, created_at, updated_at`

func (r *pgRepository) List(ctx context.Context) ([]Lecturer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lecturerColumns+` FROM lecturers ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("lecturers: list: %w", err)
	}
	defer rows.Close()

	var out []Lecturer
	for rows.Next() {
		lecturer, err := scanLecturer(rows)
		if err != nil {
			return nil, fmt.Errorf("lecturers: scan: %w", err)
		}
		out = append(out, lecturer)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Lecturer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+lecturerColumns+` FROM lecturers WHERE id = $1`, id)
	lecturer, err := scanLecturer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lecturer{}, shared.ErrNotFound
		}
		return Lecturer{}, fmt.Errorf("lecturers: get: %w", err)
	}
	return lecturer, nil
}

func (r *pgRepository) Create(ctx context.Context, lecturer Lecturer) (Lecturer, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO lecturers (full_name, email, phone, department, employee_number, bank_name, account_number, tax_number, default_hourly_rate, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		lecturer.FullName, lecturer.Email, lecturer.Phone, lecturer.Department, lecturer.EmployeeNumber,
		lecturer.BankName, lecturer.AccountNumber, lecturer.TaxNumber, lecturer.DefaultHourlyRate.String(), lecturer.IsActive).
		Scan(&lecturer.ID, &lecturer.CreatedAt, &lecturer.UpdatedAt)
	if err != nil {
		return Lecturer{}, fmt.Errorf("lecturers: create: %w", err)
	}
	return lecturer, nil
}

func (r *pgRepository) Update(ctx context.Context, lecturer Lecturer) error {
	tag, err := r.pool.Exec(ctx, `UPDATE lecturers SET full_name = $1, email = $2, phone = $3, department = $4, employee_number = $5, bank_name = $6, account_number = $7, tax_number = $8, default_hourly_rate = $9, is_active = $10, updated_at = NOW() WHERE id = $11`,
		lecturer.FullName, lecturer.Email, lecturer.Phone, lecturer.Department, lecturer.EmployeeNumber,
		lecturer.BankName, lecturer.AccountNumber, lecturer.TaxNumber, lecturer.DefaultHourlyRate.String(), lecturer.IsActive, lecturer.ID)
	if err != nil {
		return fmt.Errorf("lecturers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a lecturer. The claims table restricts the delete, so a
// lecturer with claims surfaces ErrHasClaims.
func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lecturers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return ErrHasClaims
		}
		return fmt.Errorf("lecturers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLecturer(row rowScanner) (Lecturer, error) {
	var l Lecturer
	var rate string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &l.Department, &l.EmployeeNumber,
		&l.BankName, &l.AccountNumber, &l.TaxNumber, &rate, &l.IsActive, &createdAt, &updatedAt); err != nil {
		return Lecturer{}, err
	}
	var err error
	if l.DefaultHourlyRate, err = decimal.NewFromString(rate); err != nil {
		return Lecturer{}, err
	}
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	return l, nil
}
