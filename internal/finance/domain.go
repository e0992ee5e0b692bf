package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/claims"
)

// InvoiceStatus enumerates invoice delivery states.
type InvoiceStatus string

const (
	InvoiceGenerated InvoiceStatus = "GENERATED"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
)

// BatchStatus enumerates payment batch processing states.
type BatchStatus string

const (
	BatchPending    BatchStatus = "PENDING"
	BatchProcessing BatchStatus = "PROCESSING"
	BatchCompleted  BatchStatus = "COMPLETED"
	BatchFailed     BatchStatus = "FAILED"
)

// Invoice is a derived, transient value computed from one claim. Never
// persisted, never mutated after construction.
type Invoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	ClaimID       int64           `json:"claim_id"`
	LecturerID    int64           `json:"lecturer_id"`
	LecturerName  string          `json:"lecturer_name"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Status        InvoiceStatus   `json:"status"`
}

// MonthlyReport aggregates one calendar month of claims. Hours and amounts
// cover only Approved and Settled claims; the counts cover every claim in
// the period.
type MonthlyReport struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalClaims     int             `json:"total_claims"`
	SubmittedClaims int             `json:"submitted_claims"`
	VerifiedClaims  int             `json:"verified_claims"`
	ApprovedClaims  int             `json:"approved_claims"`
	RejectedClaims  int             `json:"rejected_claims"`
	SettledClaims   int             `json:"settled_claims"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	NetPayable      decimal.Decimal `json:"net_payable"`
	Claims          []claims.Claim  `json:"claims"`
}

// PaymentBatch groups approved claims queued for disbursement.
type PaymentBatch struct {
	BatchNumber      string          `json:"batch_number"`
	GeneratedAt      time.Time       `json:"generated_at"`
	ClaimCount       int             `json:"claim_count"`
	TotalGrossAmount decimal.Decimal `json:"total_gross_amount"`
	TotalTaxAmount   decimal.Decimal `json:"total_tax_amount"`
	TotalNetAmount   decimal.Decimal `json:"total_net_amount"`
	Status           BatchStatus     `json:"status"`
	ClaimIDs         []int64         `json:"claim_ids"`
}

// DashboardSummary backs the HR landing page.
type DashboardSummary struct {
	ApprovedClaims      int             `json:"approved_claims"`
	SettledClaims       int             `json:"settled_claims"`
	TotalPendingPayment decimal.Decimal `json:"total_pending_payment"`
	TotalPaidOut        decimal.Decimal `json:"total_paid_out"`
	ActiveLecturers     int             `json:"active_lecturers"`
}
