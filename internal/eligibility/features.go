package eligibility

import (
	"time"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
)

// Federal poverty guideline parameters used by the income test. The limit is
// 135% of the guideline for the household size.
const (
	povertyGuidelineBase      = 15060.0
	povertyGuidelinePerMember = 5400.0
	incomeLimitMultiplier     = 1.35
)

// ApprovedPrograms is the fixed whitelist of assistance programs that
// qualify an enrolled applicant.
var ApprovedPrograms = map[string]struct{}{
	"SNAP":     {},
	"SSI":      {},
	"Medicaid": {},
	"Federal Public Housing Assistance":            {},
	"Bureau of Indian Affairs General Assistance":  {},
	"TTANF":      {},
	"FDPIR":      {},
	"Head Start": {},
}

// Age returns whole years between dob and today, one less before the
// birthday has been reached this year.
func Age(dob domain.Date, today time.Time) int {
	now := domain.DateOf(today)
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// IncomeLimit returns the annual income cap for a household of the given
// size. Income at the limit is still eligible.
func IncomeLimit(householdSize int) float64 {
	if householdSize < 1 {
		householdSize = 1
	}
	return incomeLimitMultiplier * (povertyGuidelineBase + float64(householdSize-1)*povertyGuidelinePerMember)
}

// Features are the derived inputs fed to the classifiers.
type Features struct {
	Age             int  `json:"age"`
	IncomeEligible  bool `json:"income_eligible"`
	ProgramEligible bool `json:"program_eligible"`
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
