package claims

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/claimflow/claimflow/internal/shared"
)

var (
	// ErrClaimNotFound is returned by read operations for absent claims.
	ErrClaimNotFound = fmt.Errorf("claim %w", shared.ErrNotFound)
)

// ServiceConfig tunes lifecycle behavior.
type ServiceConfig struct {
	// StrictTransitions makes lifecycle operations refuse source states the
	// transition table does not allow. The default (false) preserves the
	// legacy permissive behavior: the transition is applied anyway and the
	// result carries Forced=true.
	StrictTransitions bool
}

// Service owns claim reads, writes and lifecycle transitions.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
	cfg   ServiceConfig
	clock func() time.Time
}

// NewService constructs the claim service. audit may be nil.
func NewService(repo Repository, audit *shared.AuditLogger, cfg ServiceConfig) *Service {
	return &Service{
		repo:  repo,
		audit: audit,
		cfg:   cfg,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// GetAllClaims returns every claim, newest first.
func (s *Service) GetAllClaims(ctx context.Context) ([]Claim, error) {
	return s.repo.GetAll(ctx)
}

// GetClaimByID returns one claim with lines, documents and approvals.
func (s *Service) GetClaimByID(ctx context.Context, id int64) (Claim, error) {
	claim, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Claim{}, ErrClaimNotFound
		}
		return Claim{}, err
	}
	return claim, nil
}

// GetClaimsByStatus returns claims in the given status, newest first.
func (s *Service) GetClaimsByStatus(ctx context.Context, status ClaimStatus) ([]Claim, error) {
	return s.repo.GetByStatus(ctx, status)
}

// PendingForCoordinator lists claims awaiting coordinator verification.
func (s *Service) PendingForCoordinator(ctx context.Context) ([]Claim, error) {
	return s.repo.GetByStatus(ctx, StatusSubmitted)
}

// PendingForManager lists claims awaiting manager approval.
func (s *Service) PendingForManager(ctx context.Context) ([]Claim, error) {
	return s.repo.GetByStatus(ctx, StatusVerified)
}

// AddClaim stores a new claim.
func (s *Service) AddClaim(ctx context.Context, input CreateClaimInput) (Claim, error) {
	if input.LecturerID <= 0 {
		return Claim{}, errors.New("lecturer is required")
	}
	if input.Month < 1 || input.Month > 12 {
		return Claim{}, fmt.Errorf("month %d out of range", input.Month)
	}
	if input.Year <= 0 {
		return Claim{}, errors.New("year is required")
	}
	return s.repo.Add(ctx, input)
}

// Submit moves a draft claim into the review queue.
func (s *Service) Submit(ctx context.Context, claimID, actorID int64, comment string) (TransitionResult, error) {
	return s.transition(ctx, claimID, StatusSubmitted, actorID, DecisionSubmitted, comment)
}

// Verify records the coordinator's first-pass review.
func (s *Service) Verify(ctx context.Context, claimID, actorID int64, comment string) (TransitionResult, error) {
	return s.transition(ctx, claimID, StatusVerified, actorID, DecisionVerified, comment)
}

// Approve records the manager's sign-off.
func (s *Service) Approve(ctx context.Context, claimID, actorID int64, comment string) (TransitionResult, error) {
	return s.transition(ctx, claimID, StatusApproved, actorID, DecisionApproved, comment)
}

// Reject declines a claim.
func (s *Service) Reject(ctx context.Context, claimID, actorID int64, comment string) (TransitionResult, error) {
	return s.transition(ctx, claimID, StatusRejected, actorID, DecisionRejected, comment)
}

// Settle marks a claim as paid. Terminal; invoked from the invoice workflow.
func (s *Service) Settle(ctx context.Context, claimID, actorID int64) (TransitionResult, error) {
	return s.transition(ctx, claimID, StatusSettled, actorID, DecisionSettled, "")
}

func (s *Service) transition(ctx context.Context, claimID int64, target ClaimStatus, actorID int64, decision, comment string) (TransitionResult, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TransitionResult{Outcome: TransitionNotFound, To: target}, nil
		}
		return TransitionResult{}, err
	}

	legal := LegalTransition(claim.Status, target)
	if !legal && s.cfg.StrictTransitions {
		return TransitionResult{Outcome: TransitionIllegal, From: claim.Status, To: target}, nil
	}

	approval := Approval{
		ClaimID:   claimID,
		ActorID:   actorID,
		Decision:  decision,
		Comment:   comment,
		DecidedAt: s.clock(),
	}
	if err := s.repo.UpdateStatus(ctx, claimID, target, approval); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TransitionResult{Outcome: TransitionNotFound, To: target}, nil
		}
		return TransitionResult{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "claim." + decision,
			Entity:   "claim",
			EntityID: strconv.FormatInt(claimID, 10),
			Meta:     map[string]any{"from": string(claim.Status), "to": string(target)},
			At:       s.clock(),
		})
	}

	return TransitionResult{Outcome: TransitionApplied, From: claim.Status, To: target, Forced: !legal}, nil
}

// AttachDocument adds a supporting document. Reports false when the claim
// does not exist.
func (s *Service) AttachDocument(ctx context.Context, claimID int64, input AttachDocumentInput) (bool, error) {
	if input.FileName == "" {
		return false, errors.New("file name is required")
	}
	return s.repo.AddDocument(ctx, claimID, input)
}

// RemoveDocument detaches a document. Reports false when the claim or
// document does not exist.
func (s *Service) RemoveDocument(ctx context.Context, claimID, documentID int64) (bool, error) {
	return s.repo.RemoveDocument(ctx, claimID, documentID)
}
