// Package eligibility derives applicant features and maps them to an
// approve/deny decision through injected classifiers.
package eligibility

import (
	"fmt"
	"time"

	"github.com/bjarke-xyz/benefit-gateway/internal/classifier"
	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
)

const minimumAge = 18

const (
	reasonAge        = "age requirement not met, applicant must be at least 18"
	reasonIncome     = "income exceeds the limit for the household size"
	reasonProgram    = "enrolled program is not an approved assistance program"
	reasonIneligible = "applicant is not eligible"
)

type Input struct {
	DateOfBirth   domain.Date
	Income        float64
	HouseholdSize int
	Enrolled      bool
	ProgramName   string
}

// ScreeningResult is the quick check: a verdict and, when denied before the
// classifier runs, a reason.
type ScreeningResult struct {
	Approved bool
	Reason   string
}

// DecisionResult is the final decision with human-readable denial reasons.
type DecisionResult struct {
	Status  string
	Reasons []string
}

const (
	DecisionApproved = "Approved"
	DecisionDenied   = "Denied"
)

// Evaluator holds the two fitted classifiers and the feature configuration.
// The prototype variants diverged on whether program eligibility meant
// "enrolled in a whitelisted program" or just "enrolled"; that divergence is
// configuration here, not forked logic.
type Evaluator struct {
	screening           classifier.Classifier
	decision            classifier.Classifier
	ageScaler           *classifier.StandardScaler
	useProgramWhitelist bool
}

func NewEvaluator(screening, decision classifier.Classifier, ageScaler *classifier.StandardScaler, useProgramWhitelist bool) *Evaluator {
	return &Evaluator{
		screening:           screening,
		decision:            decision,
		ageScaler:           ageScaler,
		useProgramWhitelist: useProgramWhitelist,
	}
}

// Features derives the classifier inputs from the applicant attributes.
func (e *Evaluator) Features(in Input, today time.Time) Features {
	programEligible := in.Enrolled
	if e.useProgramWhitelist && programEligible {
		_, programEligible = ApprovedPrograms[in.ProgramName]
	}
	return Features{
		Age:             Age(in.DateOfBirth, today),
		IncomeEligible:  in.Income <= IncomeLimit(in.HouseholdSize),
		ProgramEligible: programEligible,
	}
}

// Screen runs the quick eligibility check. Minors are denied outright without
// consulting the classifier.
func (e *Evaluator) Screen(in Input, today time.Time) (ScreeningResult, error) {
	features := e.Features(in, today)
	if features.Age < minimumAge {
		return ScreeningResult{Approved: false, Reason: reasonAge}, nil
	}

	vector := []float64{
		e.ageScaler.Transform(float64(features.Age)),
		boolFeature(features.IncomeEligible),
		boolFeature(features.ProgramEligible),
	}
	verdict, err := e.screening.Predict(vector)
	if err != nil {
		return ScreeningResult{}, fmt.Errorf("screening prediction failed: %w", err)
	}
	return ScreeningResult{Approved: verdict == 1}, nil
}

// Decide runs the final decision. Denials carry every reason that applies,
// falling back to a generic one when no specific rule explains the verdict.
func (e *Evaluator) Decide(in Input, today time.Time) (DecisionResult, error) {
	features := e.Features(in, today)

	vector := []float64{
		float64(features.Age),
		boolFeature(features.IncomeEligible),
		boolFeature(features.ProgramEligible),
	}
	verdict, err := e.decision.Predict(vector)
	if err != nil {
		return DecisionResult{}, fmt.Errorf("decision prediction failed: %w", err)
	}

	if verdict == 1 {
		return DecisionResult{Status: DecisionApproved}, nil
	}

	reasons := make([]string, 0, 3)
	if !features.IncomeEligible {
		reasons = append(reasons, reasonIncome)
	}
	if in.Enrolled && !features.ProgramEligible {
		reasons = append(reasons, reasonProgram)
	}
	if features.Age < minimumAge {
		reasons = append(reasons, reasonAge)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, reasonIneligible)
	}
	return DecisionResult{Status: DecisionDenied, Reasons: reasons}, nil
}
