package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/lecturers"
	"github.com/claimflow/claimflow/internal/shared"
)

// Tax is withheld at a flat 20% on every settlement.
var taxRate = decimal.RequireFromString("0.20")

// ClaimSource is the slice of the claim service the engine reads from.
type ClaimSource interface {
	GetClaimByID(ctx context.Context, id int64) (claims.Claim, error)
	GetAllClaims(ctx context.Context) ([]claims.Claim, error)
	GetClaimsByStatus(ctx context.Context, status claims.ClaimStatus) ([]claims.Claim, error)
}

// LecturerSource resolves lecturer names and headcounts.
type LecturerSource interface {
	Get(ctx context.Context, id int64) (lecturers.Lecturer, error)
	List(ctx context.Context) ([]lecturers.Lecturer, error)
}

// BatchNumberer produces payment batch identifiers. Injectable so tests can
// pin the random suffix.
type BatchNumberer interface {
	BatchNumber(now time.Time) string
}

// UUIDBatchNumberer derives the batch suffix from a random UUID.
type UUIDBatchNumberer struct{}

// BatchNumber returns "BATCH-yyyyMMdd-XXXXXXXX" with an 8-character
// uppercase hex suffix.
func (UUIDBatchNumberer) BatchNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("BATCH-%s-%s", now.Format("20060102"), suffix)
}

// Service derives invoices, monthly reports and payment batches from claim
// state. It never mutates claims; settlement is the caller's step.
type Service struct {
	claims    ClaimSource
	lecturers LecturerSource
	numberer  BatchNumberer
	clock     func() time.Time
}

// NewService wires the engine with production defaults.
func NewService(claimSource ClaimSource, lecturerSource LecturerSource) *Service {
	return &Service{
		claims:    claimSource,
		lecturers: lecturerSource,
		numberer:  UUIDBatchNumberer{},
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// WithBatchNumberer overrides batch number generation.
func (s *Service) WithBatchNumberer(n BatchNumberer) *Service {
	s.numberer = n
	return s
}

// WithClock overrides the time source.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GenerateInvoice computes the invoice for one claim. Unlike the other
// lookups this fails loudly on a missing claim: invoice generation is the
// one flow where silently returning nothing would lose money.
func (s *Service) GenerateInvoice(ctx context.Context, claimID int64) (Invoice, error) {
	claim, err := s.claims.GetClaimByID(ctx, claimID)
	if err != nil {
		return Invoice{}, fmt.Errorf("generate invoice for claim %d: %w", claimID, err)
	}

	lecturerName := fmt.Sprintf("Lecturer %d", claim.LecturerID)
	if lecturer, err := s.lecturers.Get(ctx, claim.LecturerID); err == nil {
		lecturerName = lecturer.FullName
	}

	now := s.clock()
	gross := claim.Amount
	tax := gross.Mul(taxRate).Round(2)
	return Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%d-%06d", now.Year(), claimID),
		ClaimID:       claimID,
		LecturerID:    claim.LecturerID,
		LecturerName:  lecturerName,
		Month:         claim.Month,
		Year:          claim.Year,
		TotalHours:    claim.TotalHours,
		HourlyRate:    claim.HourlyRate,
		GrossAmount:   gross,
		TaxAmount:     tax,
		NetAmount:     gross.Sub(tax),
		GeneratedAt:   now,
		Status:        InvoiceGenerated,
	}, nil
}

// GenerateMonthlyReport aggregates all claims for the exact (month, year).
func (s *Service) GenerateMonthlyReport(ctx context.Context, month, year int) (MonthlyReport, error) {
	all, err := s.claims.GetAllClaims(ctx)
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{
		Month:       month,
		Year:        year,
		GeneratedAt: s.clock(),
		TotalHours:  decimal.Zero,
		TotalAmount: decimal.Zero,
	}

	var payable []claims.Claim
	for _, claim := range all {
		if claim.Month != month || claim.Year != year {
			continue
		}
		report.TotalClaims++
		switch claim.Status {
		case claims.StatusSubmitted:
			report.SubmittedClaims++
		case claims.StatusVerified:
			report.VerifiedClaims++
		case claims.StatusApproved:
			report.ApprovedClaims++
		case claims.StatusRejected:
			report.RejectedClaims++
		case claims.StatusSettled:
			report.SettledClaims++
		}
		if claim.Status == claims.StatusApproved || claim.Status == claims.StatusSettled {
			payable = append(payable, claim)
			report.TotalHours = report.TotalHours.Add(claim.TotalHours)
			report.TotalAmount = report.TotalAmount.Add(claim.Amount)
		}
	}

	report.TaxAmount = report.TotalAmount.Mul(taxRate).Round(2)
	report.NetPayable = report.TotalAmount.Sub(report.TaxAmount)
	report.Claims = payable
	return report, nil
}

// GeneratePaymentBatch groups the approved claims among claimIDs into a
// pending batch. Missing IDs are dropped; non-approved claims are excluded.
// The caller settles the included claims after disbursement.
func (s *Service) GeneratePaymentBatch(ctx context.Context, claimIDs []int64) (PaymentBatch, error) {
	now := s.clock()
	batch := PaymentBatch{
		BatchNumber:      s.numberer.BatchNumber(now),
		GeneratedAt:      now,
		Status:           BatchPending,
		TotalGrossAmount: decimal.Zero,
	}

	for _, id := range claimIDs {
		claim, err := s.claims.GetClaimByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return PaymentBatch{}, err
		}
		if claim.Status != claims.StatusApproved {
			continue
		}
		batch.ClaimCount++
		batch.TotalGrossAmount = batch.TotalGrossAmount.Add(claim.Amount)
		batch.ClaimIDs = append(batch.ClaimIDs, claim.ID)
	}

	batch.TotalTaxAmount = batch.TotalGrossAmount.Mul(taxRate).Round(2)
	batch.TotalNetAmount = batch.TotalGrossAmount.Sub(batch.TotalTaxAmount)
	return batch, nil
}

// DashboardSummary aggregates the HR landing numbers.
func (s *Service) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	approved, err := s.claims.GetClaimsByStatus(ctx, claims.StatusApproved)
	if err != nil {
		return DashboardSummary{}, err
	}
	settled, err := s.claims.GetClaimsByStatus(ctx, claims.StatusSettled)
	if err != nil {
		return DashboardSummary{}, err
	}
	all, err := s.lecturers.List(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		ApprovedClaims:      len(approved),
		SettledClaims:       len(settled),
		TotalPendingPayment: decimal.Zero,
		TotalPaidOut:        decimal.Zero,
	}
	for _, claim := range approved {
		summary.TotalPendingPayment = summary.TotalPendingPayment.Add(claim.Amount)
	}
	for _, claim := range settled {
		summary.TotalPaidOut = summary.TotalPaidOut.Add(claim.Amount)
	}
	for _, lecturer := range all {
		if lecturer.IsActive {
			summary.ActiveLecturers++
		}
	}
	return summary, nil
}

