// Package validation evaluates a claim against fixed business policy. It is
// pure: no I/O, no mutation of the claim, identical results for identical
// input.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/shared"
)

// Severity ranks a validation issue.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Issue is a single finding from the policy battery.
type Issue struct {
	Severity  Severity `json:"severity"`
	Category  string   `json:"category"`
	Message   string   `json:"message"`
	FieldName string   `json:"field_name"`
}

// Result is the outcome of validating one claim. IsValid is false iff at
// least one Error-severity issue exists.
type Result struct {
	ClaimID        int64   `json:"claim_id"`
	IsValid        bool    `json:"is_valid"`
	Issues         []Issue `json:"issues"`
	Recommendation string  `json:"recommendation"`
}

// Policy thresholds. Fixed policy, not runtime configuration.
var (
	minHourlyRate       = decimal.NewFromInt(200)
	maxHourlyRate       = decimal.NewFromInt(1000)
	maxHoursPerMonth    = decimal.NewFromInt(200)
	hoursWarningFactor  = decimal.RequireFromString("0.8")
	maxHoursPerActivity = decimal.NewFromInt(50)
	minClaimAmount      = decimal.NewFromInt(500)
	maxClaimAmount      = decimal.NewFromInt(150000)
	tolerance           = decimal.RequireFromString("0.01")
)

// Recommendations produced by the decision table.
const (
	RecommendationReject  = "Reject (errors)"
	RecommendationReview  = "Review Required"
	RecommendationCaution = "Approve with Caution"
	RecommendationApprove = "Approve — all checks passed"
)

const minDescriptionLength = 10

// Validate runs the fixed ordered battery of checks against the claim.
func Validate(claim claims.Claim) Result {
	result := Result{ClaimID: claim.ID, IsValid: true}

	if claim.HourlyRate.LessThan(minHourlyRate) {
		result.add(Issue{
			Severity:  SeverityError,
			Category:  "Hourly Rate",
			Message:   fmt.Sprintf("Hourly rate (%s) is below the minimum allowed rate of %s", shared.FormatAmount(claim.HourlyRate), shared.FormatAmount(minHourlyRate)),
			FieldName: "HourlyRate",
		})
	} else if claim.HourlyRate.GreaterThan(maxHourlyRate) {
		result.add(Issue{
			Severity:  SeverityWarning,
			Category:  "Hourly Rate",
			Message:   fmt.Sprintf("Hourly rate (%s) exceeds typical maximum of %s. Requires additional approval.", shared.FormatAmount(claim.HourlyRate), shared.FormatAmount(maxHourlyRate)),
			FieldName: "HourlyRate",
		})
	}

	if claim.TotalHours.GreaterThan(maxHoursPerMonth) {
		result.add(Issue{
			Severity:  SeverityError,
			Category:  "Total Hours",
			Message:   fmt.Sprintf("Total hours (%s) exceeds maximum allowed of %s hours per month", shared.FormatQuantity(claim.TotalHours), shared.FormatQuantity(maxHoursPerMonth)),
			FieldName: "TotalHours",
		})
	} else if claim.TotalHours.GreaterThan(maxHoursPerMonth.Mul(hoursWarningFactor)) {
		result.add(Issue{
			Severity:  SeverityWarning,
			Category:  "Total Hours",
			Message:   fmt.Sprintf("Total hours (%s) is approaching the maximum limit of %s hours", shared.FormatQuantity(claim.TotalHours), shared.FormatQuantity(maxHoursPerMonth)),
			FieldName: "TotalHours",
		})
	}

	for _, line := range claim.Lines {
		if line.Hours.GreaterThan(maxHoursPerActivity) {
			result.add(Issue{
				Severity:  SeverityWarning,
				Category:  "Activity Hours",
				Message:   fmt.Sprintf("Activity %q has %s hours, which exceeds typical maximum of %s hours per activity", line.ActivityDescription, shared.FormatQuantity(line.Hours), shared.FormatQuantity(maxHoursPerActivity)),
				FieldName: "ActivityHours",
			})
		}
	}

	if claim.Amount.LessThan(minClaimAmount) {
		result.add(Issue{
			Severity:  SeverityInfo,
			Category:  "Claim Amount",
			Message:   fmt.Sprintf("Claim amount (%s) is below typical minimum of %s", shared.FormatAmount(claim.Amount), shared.FormatAmount(minClaimAmount)),
			FieldName: "Amount",
		})
	} else if claim.Amount.GreaterThan(maxClaimAmount) {
		result.add(Issue{
			Severity:  SeverityError,
			Category:  "Claim Amount",
			Message:   fmt.Sprintf("Claim amount (%s) exceeds maximum allowed of %s", shared.FormatAmount(claim.Amount), shared.FormatAmount(maxClaimAmount)),
			FieldName: "Amount",
		})
	}

	calculated := claim.TotalHours.Mul(claim.HourlyRate)
	if claim.Amount.Sub(calculated).Abs().GreaterThan(tolerance) {
		result.add(Issue{
			Severity:  SeverityError,
			Category:  "Calculation Error",
			Message:   fmt.Sprintf("Claim amount (%s) does not match calculated amount (%s)", shared.FormatAmount(claim.Amount), shared.FormatAmount(calculated)),
			FieldName: "Amount",
		})
	}

	lineTotal := decimal.Zero
	for _, line := range claim.Lines {
		lineTotal = lineTotal.Add(line.Hours)
	}
	if claim.TotalHours.Sub(lineTotal).Abs().GreaterThan(tolerance) {
		result.add(Issue{
			Severity:  SeverityError,
			Category:  "Calculation Error",
			Message:   fmt.Sprintf("Total hours (%s) does not match sum of activity hours (%s)", shared.FormatQuantity(claim.TotalHours), shared.FormatQuantity(lineTotal)),
			FieldName: "TotalHours",
		})
	}

	if len(claim.Documents) == 0 {
		result.add(Issue{
			Severity:  SeverityWarning,
			Category:  "Documentation",
			Message:   "No supporting documents have been uploaded for this claim",
			FieldName: "Documents",
		})
	}

	for _, line := range claim.Lines {
		// Length is counted in runes, not bytes.
		if len(strings.TrimSpace(line.ActivityDescription)) == 0 || utf8.RuneCountInString(line.ActivityDescription) < minDescriptionLength {
			result.add(Issue{
				Severity:  SeverityWarning,
				Category:  "Activity Description",
				Message:   fmt.Sprintf("Activity description %q is too brief. Please provide more details.", line.ActivityDescription),
				FieldName: "ActivityDescription",
			})
		}
	}

	result.Recommendation = recommend(result)
	return result
}

// recommend applies the fixed decision table. The second error-count branch
// is unreachable given the IsValid check before it; it is kept because the
// table is evaluated in this exact order.
func recommend(result Result) string {
	if !result.IsValid {
		return RecommendationReject
	}
	errorCount := 0
	warningCount := 0
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarning:
			warningCount++
		}
	}
	switch {
	case errorCount > 0:
		return RecommendationReject
	case warningCount > 3:
		return RecommendationReview
	case warningCount > 0:
		return RecommendationCaution
	default:
		return RecommendationApprove
	}
}

func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.IsValid = false
	}
}

// Summary renders a one-line count of findings.
func Summary(result Result) string {
	var errs, warns, infos int
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warns++
		case SeverityInfo:
			infos++
		}
	}
	if errs == 0 && warns == 0 && infos == 0 {
		return "All automated validation checks passed"
	}
	parts := make([]string, 0, 3)
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warns))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}
	return "Validation: " + strings.Join(parts, ", ")
}
