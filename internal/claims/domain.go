package claims

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimStatus enumerates claim lifecycle statuses.
type ClaimStatus string

const (
	StatusDraft     ClaimStatus = "DRAFT"
	StatusSubmitted ClaimStatus = "SUBMITTED"
	StatusVerified  ClaimStatus = "VERIFIED"
	StatusApproved  ClaimStatus = "APPROVED"
	StatusRejected  ClaimStatus = "REJECTED"
	StatusSettled   ClaimStatus = "SETTLED"
)

// Terminal reports whether no further lifecycle transition leaves the status.
func (s ClaimStatus) Terminal() bool {
	return s == StatusSettled || s == StatusRejected
}

// Valid reports whether the status is one of the known lifecycle states.
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusVerified, StatusApproved, StatusRejected, StatusSettled:
		return true
	}
	return false
}

// Claim is a lecturer's monthly hours-worked submission awaiting payment.
// Amount and TotalHours are stored as entered; the validator, not the data
// layer, reports when they disagree with the lines or the rate.
type Claim struct {
	ID         int64
	LecturerID int64
	Month      int
	Year       int
	HourlyRate decimal.Decimal
	TotalHours decimal.Decimal
	Amount     decimal.Decimal
	Status     ClaimStatus
	Notes      string
	Lines      []ClaimLine
	Documents  []Document
	Approvals  []Approval
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClaimLine is a single activity entry on a claim.
type ClaimLine struct {
	ID                  int64
	ClaimID             int64
	ActivityDescription string
	Hours               decimal.Decimal
}

// Document is a supporting attachment, ordered by upload time.
type Document struct {
	ID         int64
	ClaimID    int64
	FileName   string
	FilePath   string
	UploadedAt time.Time
}

// Approval is one entry in the append-only decision trail.
type Approval struct {
	ID        int64
	ClaimID   int64
	ActorID   int64
	Decision  string
	Comment   string
	DecidedAt time.Time
}

// --- Input DTOs ---

// CreateClaimInput carries a new claim submission.
type CreateClaimInput struct {
	LecturerID int64
	Month      int
	Year       int
	HourlyRate decimal.Decimal
	TotalHours decimal.Decimal
	Amount     decimal.Decimal
	Notes      string
	// SaveAsDraft creates the claim in Draft instead of Submitted.
	SaveAsDraft bool
	Lines       []CreateClaimLineInput
}

// CreateClaimLineInput carries one activity line of a new claim.
type CreateClaimLineInput struct {
	ActivityDescription string
	Hours               decimal.Decimal
}

// AttachDocumentInput describes an uploaded file to attach.
type AttachDocumentInput struct {
	FileName string
	FilePath string
}
