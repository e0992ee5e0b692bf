package finance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/lecturers"
	"github.com/claimflow/claimflow/internal/shared"
)

type stubClaimSource struct {
	claims map[int64]claims.Claim
}

func (s *stubClaimSource) GetClaimByID(ctx context.Context, id int64) (claims.Claim, error) {
	claim, ok := s.claims[id]
	if !ok {
		return claims.Claim{}, shared.ErrNotFound
	}
	return claim, nil
}

func (s *stubClaimSource) GetAllClaims(ctx context.Context) ([]claims.Claim, error) {
	out := make([]claims.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubClaimSource) GetClaimsByStatus(ctx context.Context, status claims.ClaimStatus) ([]claims.Claim, error) {
	var out []claims.Claim
	for _, c := range s.claims {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubLecturerSource struct {
	lecturers map[int64]lecturers.Lecturer
}

func (s *stubLecturerSource) Get(ctx context.Context, id int64) (lecturers.Lecturer, error) {
	lecturer, ok := s.lecturers[id]
	if !ok {
		return lecturers.Lecturer{}, shared.ErrNotFound
	}
	return lecturer, nil
}

func (s *stubLecturerSource) List(ctx context.Context) ([]lecturers.Lecturer, error) {
	out := make([]lecturers.Lecturer, 0, len(s.lecturers))
	for _, l := range s.lecturers {
		out = append(out, l)
	}
	return out, nil
}

type fixedNumberer struct{ number string }

func (n fixedNumberer) BatchNumber(time.Time) string { return n.number }

func fixedClock() time.Time {
	return time.Date(2025, time.April, 10, 9, 30, 0, 0, time.UTC)
}

func approvedClaim(id int64, amount string) claims.Claim {
	return claims.Claim{
		ID:         id,
		LecturerID: 1,
		Month:      3,
		Year:       2025,
		HourlyRate: decimal.RequireFromString("500"),
		TotalHours: decimal.RequireFromString("10"),
		Amount:     decimal.RequireFromString(amount),
		Status:     claims.StatusApproved,
	}
}

func newTestService(claimSrc *stubClaimSource, lecturerSrc *stubLecturerSource) *Service {
	if lecturerSrc == nil {
		lecturerSrc = &stubLecturerSource{lecturers: map[int64]lecturers.Lecturer{}}
	}
	return NewService(claimSrc, lecturerSrc).WithClock(fixedClock)
}

func TestGenerateInvoiceSplitsTax(t *testing.T) {
	claimSrc := &stubClaimSource{claims: map[int64]claims.Claim{
		7: approvedClaim(7, "5000"),
	}}
	lecturerSrc := &stubLecturerSource{lecturers: map[int64]lecturers.Lecturer{
		1: {ID: 1, FullName: "Thandi Mokoena"},
	}}
	svc := newTestService(claimSrc, lecturerSrc)

	invoice, err := svc.GenerateInvoice(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "INV-2025-000007", invoice.InvoiceNumber)
	require.Equal(t, "Thandi Mokoena", invoice.LecturerName)
	require.True(t, invoice.GrossAmount.Equal(decimal.RequireFromString("5000")))
	require.True(t, invoice.TaxAmount.Equal(decimal.RequireFromString("1000")))
	require.True(t, invoice.NetAmount.Equal(decimal.RequireFromString("4000")))
	require.Equal(t, InvoiceGenerated, invoice.Status)
}

func TestGenerateInvoiceUnknownLecturerFallsBack(t *testing.T) {
	claimSrc := &stubClaimSource{claims: map[int64]claims.Claim{
		7: approvedClaim(7, "5000"),
	}}
	svc := newTestService(claimSrc, nil)

	invoice, err := svc.GenerateInvoice(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Lecturer 1", invoice.LecturerName)
}

func TestGenerateInvoiceMissingClaim(t *testing.T) {
	svc := newTestService(&stubClaimSource{claims: map[int64]claims.Claim{}}, nil)

	_, err := svc.GenerateInvoice(context.Background(), 404)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMonthlyReportAggregatesPayableOnly(t *testing.T) {
	submitted := approvedClaim(1, "2000")
	submitted.Status = claims.StatusSubmitted

	settled := approvedClaim(3, "3000")
	settled.Status = claims.StatusSettled

	otherMonth := approvedClaim(4, "9999")
	otherMonth.Month = 2

	claimSrc := &stubClaimSource{claims: map[int64]claims.Claim{
		1: submitted,
		2: approvedClaim(2, "6000"),
		3: settled,
		4: otherMonth,
	}}
	svc := newTestService(claimSrc, nil)

	report, err := svc.GenerateMonthlyReport(context.Background(), 3, 2025)
	require.NoError(t, err)
	require.Equal(t, 3, report.TotalClaims)
	require.Equal(t, 1, report.SubmittedClaims)
	require.Equal(t, 1, report.ApprovedClaims)
	require.Equal(t, 1, report.SettledClaims)
	require.True(t, report.TotalAmount.Equal(decimal.RequireFromString("9000")))
	require.True(t, report.TaxAmount.Equal(decimal.RequireFromString("1800")))
	require.True(t, report.NetPayable.Equal(decimal.RequireFromString("7200")))
	require.True(t, report.TotalHours.Equal(decimal.RequireFromString("20")))
	require.Len(t, report.Claims, 2)
}

func TestMonthlyReportEmptyPeriod(t *testing.T) {
	svc := newTestService(&stubClaimSource{claims: map[int64]claims.Claim{}}, nil)

	report, err := svc.GenerateMonthlyReport(context.Background(), 1, 2030)
	require.NoError(t, err)
	require.Zero(t, report.TotalClaims)
	require.True(t, report.TotalAmount.IsZero())
	require.True(t, report.NetPayable.IsZero())
	require.Empty(t, report.Claims)
}

func TestPaymentBatchFiltersAndAggregates(t *testing.T) {
	submitted := approvedClaim(2, "2000")
	submitted.Status = claims.StatusSubmitted

	claimSrc := &stubClaimSource{claims: map[int64]claims.Claim{
		1: approvedClaim(1, "4000"),
		2: submitted,
		3: approvedClaim(3, "1000"),
	}}
	svc := newTestService(claimSrc, nil).WithBatchNumberer(fixedNumberer{number: "BATCH-20250410-DEADBEEF"})

	// 99 does not exist and is silently dropped; 2 is not approved.
	batch, err := svc.GeneratePaymentBatch(context.Background(), []int64{1, 2, 3, 99})
	require.NoError(t, err)
	require.Equal(t, "BATCH-20250410-DEADBEEF", batch.BatchNumber)
	require.Equal(t, 2, batch.ClaimCount)
	require.Equal(t, []int64{1, 3}, batch.ClaimIDs)
	require.True(t, batch.TotalGrossAmount.Equal(decimal.RequireFromString("5000")))
	require.True(t, batch.TotalTaxAmount.Equal(decimal.RequireFromString("1000")))
	require.True(t, batch.TotalNetAmount.Equal(decimal.RequireFromString("4000")))
	require.Equal(t, BatchPending, batch.Status)
}

func TestUUIDBatchNumberFormat(t *testing.T) {
	number := UUIDBatchNumberer{}.BatchNumber(fixedClock())
	require.Regexp(t, `^BATCH-20250410-[0-9A-F]{8}$`, number)
}

func TestDashboardSummary(t *testing.T) {
	settled := approvedClaim(2, "3000")
	settled.Status = claims.StatusSettled

	claimSrc := &stubClaimSource{claims: map[int64]claims.Claim{
		1: approvedClaim(1, "4000"),
		2: settled,
	}}
	lecturerSrc := &stubLecturerSource{lecturers: map[int64]lecturers.Lecturer{
		1: {ID: 1, FullName: "Thandi Mokoena", IsActive: true},
		2: {ID: 2, FullName: "Amir Patel", IsActive: false},
	}}
	svc := newTestService(claimSrc, lecturerSrc)

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.ApprovedClaims)
	require.Equal(t, 1, summary.SettledClaims)
	require.Equal(t, 1, summary.ActiveLecturers)
	require.True(t, summary.TotalPendingPayment.Equal(decimal.RequireFromString("4000")))
	require.True(t, summary.TotalPaidOut.Equal(decimal.RequireFromString("3000")))
}
