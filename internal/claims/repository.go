package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/platform/db"
	"github.com/claimflow/claimflow/internal/shared"
)

// Repository defines claim data access. List queries return claims
// newest-id-first with lines, documents and approvals populated.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Claim, error)
	GetAll(ctx context.Context) ([]Claim, error)
	GetByStatus(ctx context.Context, status ClaimStatus) ([]Claim, error)
	Add(ctx context.Context, input CreateClaimInput) (Claim, error)
	// UpdateStatus writes the new status and appends the approval entry in
	// one transaction. Returns shared.ErrNotFound when the claim is absent.
	UpdateStatus(ctx context.Context, id int64, status ClaimStatus, approval Approval) error
	// AddDocument and RemoveDocument report false, without an error, when
	// the claim or document does not exist.
	AddDocument(ctx context.Context, claimID int64, input AttachDocumentInput) (bool, error)
	RemoveDocument(ctx context.Context, claimID, documentID int64) (bool, error)
}

var _ Repository = (*pgRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed claim repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const claimColumns = `id, lecturer_id, month, year, hourly_rate::text, total_hours::text, amount::text, status, COALESCE(notes, ''), created_at, updated_at`

func (r *pgRepository) GetByID(ctx context.Context, id int64) (Claim, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Claim{}, shared.ErrNotFound
		}
		return Claim{}, fmt.Errorf("claims: get by id: %w", err)
	}
	if err := r.loadChildren(ctx, []*Claim{&claim}); err != nil {
		return Claim{}, err
	}
	return claim, nil
}

func (r *pgRepository) GetAll(ctx context.Context) ([]Claim, error) {
	return r.list(ctx, `SELECT `+claimColumns+` FROM claims ORDER BY id DESC`)
}

func (r *pgRepository) GetByStatus(ctx context.Context, status ClaimStatus) ([]Claim, error) {
	return r.list(ctx, `SELECT `+claimColumns+` FROM claims WHERE status = $1 ORDER BY id DESC`, string(status))
}

func (r *pgRepository) list(ctx context.Context, query string, args ...any) ([]Claim, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("claims: list: %w", err)
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("claims: scan: %w", err)
		}
		out = append(out, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Claim, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadChildren(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pgRepository) Add(ctx context.Context, input CreateClaimInput) (Claim, error) {
	status := StatusSubmitted
	if input.SaveAsDraft {
		status = StatusDraft
	}
	var claimID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO claims (lecturer_id, month, year, hourly_rate, total_hours, amount, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id`,
			input.LecturerID, input.Month, input.Year,
			input.HourlyRate.String(), input.TotalHours.String(), input.Amount.String(),
			string(status), input.Notes).Scan(&claimID)
		if err != nil {
			return err
		}
		for _, line := range input.Lines {
			if _, err := tx.Exec(ctx, `INSERT INTO claim_lines (claim_id, activity_description, hours) VALUES ($1, $2, $3)`,
				claimID, line.ActivityDescription, line.Hours.String()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Claim{}, fmt.Errorf("claims: add: %w", err)
	}
	return r.GetByID(ctx, claimID)
}

func (r *pgRepository) UpdateStatus(ctx context.Context, id int64, status ClaimStatus, approval Approval) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE claims SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx, `INSERT INTO claim_approvals (claim_id, actor_id, decision, comment, decided_at) VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))`,
			id, approval.ActorID, approval.Decision, approval.Comment, approval.DecidedAt)
		return err
	})
}

func (r *pgRepository) AddDocument(ctx context.Context, claimID int64, input AttachDocumentInput) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM claims WHERE id = $1)`, claimID).Scan(&exists); err != nil {
		return false, fmt.Errorf("claims: add document: %w", err)
	}
	if !exists {
		return false, nil
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO claim_documents (claim_id, file_name, file_path, uploaded_at) VALUES ($1, $2, $3, NOW())`,
		claimID, input.FileName, input.FilePath)
	if err != nil {
		return false, fmt.Errorf("claims: add document: %w", err)
	}
	return true, nil
}

func (r *pgRepository) RemoveDocument(ctx context.Context, claimID, documentID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM claim_documents WHERE id = $1 AND claim_id = $2`, documentID, claimID)
	if err != nil {
		return false, fmt.Errorf("claims: remove document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgRepository) loadChildren(ctx context.Context, refs []*Claim) error {
	if len(refs) == 0 {
		return nil
	}
	byID := make(map[int64]*Claim, len(refs))
	ids := make([]int64, 0, len(refs))
	for _, c := range refs {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, claim_id, activity_description, hours::text FROM claim_lines WHERE claim_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("claims: load lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line ClaimLine
		var hours string
		if err := rows.Scan(&line.ID, &line.ClaimID, &line.ActivityDescription, &hours); err != nil {
			return err
		}
		if line.Hours, err = decimal.NewFromString(hours); err != nil {
			return err
		}
		byID[line.ClaimID].Lines = append(byID[line.ClaimID].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	docRows, err := r.pool.Query(ctx, `SELECT id, claim_id, file_name, file_path, uploaded_at FROM claim_documents WHERE claim_id = ANY($1) ORDER BY uploaded_at, id`, ids)
	if err != nil {
		return fmt.Errorf("claims: load documents: %w", err)
	}
	defer docRows.Close()
	for docRows.Next() {
		var doc Document
		if err := docRows.Scan(&doc.ID, &doc.ClaimID, &doc.FileName, &doc.FilePath, &doc.UploadedAt); err != nil {
			return err
		}
		byID[doc.ClaimID].Documents = append(byID[doc.ClaimID].Documents, doc)
	}
	if err := docRows.Err(); err != nil {
		return err
	}

	appRows, err := r.pool.Query(ctx, `SELECT id, claim_id, actor_id, decision, COALESCE(comment, ''), decided_at FROM claim_approvals WHERE claim_id = ANY($1) ORDER BY decided_at, id`, ids)
	if err != nil {
		return fmt.Errorf("claims: load approvals: %w", err)
	}
	defer appRows.Close()
	for appRows.Next() {
		var appr Approval
		if err := appRows.Scan(&appr.ID, &appr.ClaimID, &appr.ActorID, &appr.Decision, &appr.Comment, &appr.DecidedAt); err != nil {
			return err
		}
		byID[appr.ClaimID].Approvals = append(byID[appr.ClaimID].Approvals, appr)
	}
	return appRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (Claim, error) {
	var c Claim
	var rate, hours, amount, status string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&c.ID, &c.LecturerID, &c.Month, &c.Year, &rate, &hours, &amount, &status, &c.Notes, &createdAt, &updatedAt); err != nil {
		return Claim{}, err
	}
	var err error
	if c.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return Claim{}, err
	}
	if c.TotalHours, err = decimal.NewFromString(hours); err != nil {
		return Claim{}, err
	}
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return Claim{}, err
	}
	c.Status = ClaimStatus(status)
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return c, nil
}
