package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/claimflow/claimflow/internal/claims"
)

func cleanClaim() claims.Claim {
	return claims.Claim{
		ID:         1,
		LecturerID: 1,
		Month:      3,
		Year:       2025,
		HourlyRate: decimal.RequireFromString("450"),
		TotalHours: decimal.RequireFromString("20"),
		Amount:     decimal.RequireFromString("9000"),
		Status:     claims.StatusSubmitted,
		Lines: []claims.ClaimLine{
			{ID: 1, ClaimID: 1, ActivityDescription: "Database Systems tutorial sessions", Hours: decimal.RequireFromString("12")},
			{ID: 2, ClaimID: 1, ActivityDescription: "Assignment marking and moderation", Hours: decimal.RequireFromString("8")},
		},
		Documents: []claims.Document{
			{ID: 1, ClaimID: 1, FileName: "timesheet-march.pdf", UploadedAt: time.Now()},
		},
	}
}

func issuesByCategory(result Result, category string) []Issue {
	var out []Issue
	for _, issue := range result.Issues {
		if issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

func TestCleanClaimPasses(t *testing.T) {
	result := Validate(cleanClaim())

	require.True(t, result.IsValid)
	require.Empty(t, result.Issues)
	require.Equal(t, RecommendationApprove, result.Recommendation)
	require.Equal(t, "All automated validation checks passed", Summary(result))
}

func TestHourlyRateBelowMinimum(t *testing.T) {
	claim := cleanClaim()
	claim.HourlyRate = decimal.RequireFromString("150")
	claim.Amount = claim.TotalHours.Mul(claim.HourlyRate)
	result := Validate(claim)

	require.False(t, result.IsValid)
	require.Equal(t, RecommendationReject, result.Recommendation)
	issues := issuesByCategory(result, "Hourly Rate")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
	require.Equal(t, "HourlyRate", issues[0].FieldName)
	require.Contains(t, issues[0].Message, "below the minimum allowed rate")
}

func TestHourlyRateAboveMaximumWarns(t *testing.T) {
	claim := cleanClaim()
	claim.HourlyRate = decimal.RequireFromString("1200")
	claim.Amount = claim.TotalHours.Mul(claim.HourlyRate)
	result := Validate(claim)

	require.True(t, result.IsValid)
	issues := issuesByCategory(result, "Hourly Rate")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
	require.Equal(t, RecommendationCaution, result.Recommendation)
}

func TestTotalHoursOverMonthlyCap(t *testing.T) {
	claim := cleanClaim()
	claim.TotalHours = decimal.RequireFromString("210")
	claim.Amount = claim.TotalHours.Mul(claim.HourlyRate)
	claim.Lines = []claims.ClaimLine{
		{ActivityDescription: "Extended lecturing coverage for the semester", Hours: decimal.RequireFromString("210")},
	}
	result := Validate(claim)

	require.False(t, result.IsValid)
	issues := issuesByCategory(result, "Total Hours")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestTotalHoursWarningBand(t *testing.T) {
	// 170 is above 80% of the 200-hour cap but still legal.
	claim := cleanClaim()
	claim.TotalHours = decimal.RequireFromString("170")
	claim.Amount = claim.TotalHours.Mul(claim.HourlyRate)
	claim.Lines = []claims.ClaimLine{
		{ActivityDescription: "Full-semester lecturing and consultation", Hours: decimal.RequireFromString("170")},
	}
	result := Validate(claim)

	require.True(t, result.IsValid)
	issues := issuesByCategory(result, "Total Hours")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
	require.Contains(t, issues[0].Message, "approaching the maximum limit")
}

func TestActivityHoursOverCapWarnsPerLine(t *testing.T) {
	claim := cleanClaim()
	claim.TotalHours = decimal.RequireFromString("120")
	claim.Amount = claim.TotalHours.Mul(claim.HourlyRate)
	claim.Lines = []claims.ClaimLine{
		{ActivityDescription: "Postgraduate supervision block one", Hours: decimal.RequireFromString("60")},
		{ActivityDescription: "Postgraduate supervision block two", Hours: decimal.RequireFromString("60")},
	}
	result := Validate(claim)

	require.True(t, result.IsValid)
	issues := issuesByCategory(result, "Activity Hours")
	require.Len(t, issues, 2)
}

func TestAmountBelowMinimumIsInfoOnly(t *testing.T) {
	claim := cleanClaim()
	claim.TotalHours = decimal.RequireFromString("1")
	claim.Amount = decimal.RequireFromString("450")
	claim.Lines = []claims.ClaimLine{
		{ActivityDescription: "Guest lecture on data modelling", Hours: decimal.RequireFromString("1")},
	}
	result := Validate(claim)

	require.True(t, result.IsValid)
	issues := issuesByCategory(result, "Claim Amount")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityInfo, issues[0].Severity)
}

func TestAmountOverMaximum(t *testing.T) {
	claim := cleanClaim()
	claim.HourlyRate = decimal.RequireFromString("1000")
	claim.TotalHours = decimal.RequireFromString("160")
	claim.Amount = decimal.RequireFromString("160000")
	claim.Lines = []claims.ClaimLine{
		{ActivityDescription: "Intensive block teaching programme", Hours: decimal.RequireFromString("160")},
	}
	result := Validate(claim)

	require.False(t, result.IsValid)
	issues := issuesByCategory(result, "Claim Amount")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityError, issues[0].Severity)
}

func TestAmountMismatchWithinToleranceAccepted(t *testing.T) {
	claim := cleanClaim()
	claim.Amount = decimal.RequireFromString("9000.01")
	result := Validate(claim)

	require.True(t, result.IsValid)
	require.Empty(t, issuesByCategory(result, "Calculation Error"))
}

func TestAmountMismatchBeyondTolerance(t *testing.T) {
	claim := cleanClaim()
	claim.Amount = decimal.RequireFromString("9500")
	result := Validate(claim)

	require.False(t, result.IsValid)
	issues := issuesByCategory(result, "Calculation Error")
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Message, "does not match calculated amount")
}

func TestHoursMismatchWithLines(t *testing.T) {
	claim := cleanClaim()
	claim.Lines[1].Hours = decimal.RequireFromString("5")
	result := Validate(claim)

	require.False(t, result.IsValid)
	issues := issuesByCategory(result, "Calculation Error")
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Message, "sum of activity hours")
}

func TestMissingDocumentsWarns(t *testing.T) {
	claim := cleanClaim()
	claim.Documents = nil
	result := Validate(claim)

	require.True(t, result.IsValid)
	issues := issuesByCategory(result, "Documentation")
	require.Len(t, issues, 1)
	require.Equal(t, SeverityWarning, issues[0].Severity)
	require.Equal(t, RecommendationCaution, result.Recommendation)
}

func TestShortDescriptionWarns(t *testing.T) {
	claim := cleanClaim()
	claim.Lines[0].ActivityDescription = "Marking"
	claim.Lines[1].ActivityDescription = "Marking assignments for module one"
	result := Validate(claim)

	require.True(t, result.IsValid)
	issues := issuesByCategory(result, "Activity Description")
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Message, "too brief")
}

func TestShortDescriptionCountsRunes(t *testing.T) {
	claim := cleanClaim()
	// Nine runes but twelve bytes; still too brief.
	claim.Lines[0].ActivityDescription = "café münü"
	result := Validate(claim)

	issues := issuesByCategory(result, "Activity Description")
	require.Len(t, issues, 1)

	// Ten runes clears the threshold even when they need more bytes.
	claim.Lines[0].ActivityDescription = "café münüs"
	result = Validate(claim)
	require.Empty(t, issuesByCategory(result, "Activity Description"))
}

func TestReviewRequiredWhenManyWarnings(t *testing.T) {
	claim := cleanClaim()
	claim.Documents = nil
	claim.HourlyRate = decimal.RequireFromString("1100")
	claim.TotalHours = decimal.RequireFromString("170")
	claim.Amount = claim.TotalHours.Mul(claim.HourlyRate)
	claim.Lines = []claims.ClaimLine{
		{ActivityDescription: "Teaching", Hours: decimal.RequireFromString("170")},
	}
	result := Validate(claim)

	// Warnings: high rate, hours band, per-activity cap, no documents,
	// short description. Five warnings, zero errors.
	require.True(t, result.IsValid)
	require.Equal(t, RecommendationReview, result.Recommendation)
	require.Equal(t, "Validation: 5 warning(s)", Summary(result))
}

func TestValidateIsIdempotent(t *testing.T) {
	claim := cleanClaim()
	claim.Documents = nil

	first := Validate(claim)
	second := Validate(claim)
	require.Equal(t, first, second)
}
