package claims

// Lifecycle decisions recorded in the approval trail.
const (
	DecisionSubmitted = "Submitted"
	DecisionVerified  = "Verified"
	DecisionApproved  = "Approved"
	DecisionRejected  = "Rejected"
	DecisionSettled   = "Settled"
)

// TransitionOutcome tags the result of a lifecycle operation.
type TransitionOutcome int

const (
	// TransitionApplied means the status was updated.
	TransitionApplied TransitionOutcome = iota
	// TransitionIllegal means the claim was left untouched because the source
	// state does not permit the target (strict mode only).
	TransitionIllegal
	// TransitionNotFound means no claim exists for the given ID.
	TransitionNotFound
)

// TransitionResult reports what a lifecycle operation did.
//
// Forced marks a transition that was applied in permissive mode even though
// the transition table does not allow it, preserving the legacy behavior of
// callers that relied on it.
type TransitionResult struct {
	Outcome TransitionOutcome
	From    ClaimStatus
	To      ClaimStatus
	Forced  bool
}

// Applied reports whether the claim status changed.
func (r TransitionResult) Applied() bool {
	return r.Outcome == TransitionApplied
}

// legalSources maps each target status to the set of states it may be
// reached from. Rejection is legal from every non-terminal state; nothing
// leaves a terminal state, and resubmission after rejection is handled
// outside the lifecycle manager.
var legalSources = map[ClaimStatus][]ClaimStatus{
	StatusSubmitted: {StatusDraft},
	StatusVerified:  {StatusSubmitted},
	StatusApproved:  {StatusVerified},
	StatusRejected:  {StatusDraft, StatusSubmitted, StatusVerified, StatusApproved},
	StatusSettled:   {StatusApproved},
}

// LegalTransition reports whether the transition table permits from -> to.
func LegalTransition(from, to ClaimStatus) bool {
	for _, src := range legalSources[to] {
		if src == from {
			return true
		}
	}
	return false
}
