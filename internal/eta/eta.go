// Package eta computes how long a pending application is expected to wait
// for a decision.
package eta

import (
	"time"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
)

const (
	baseDays      = 5
	expeditedDays = 3
	// Applications older than this many days move to the expedited queue.
	expediteAfterDays = 3
)

// Calculate returns the expected days until a decision and the estimated
// decision date. Terminal statuses have neither. The caller supplies today so
// the result is deterministic.
func Calculate(submission domain.Date, status domain.Status, today time.Time) (*int, *domain.Date) {
	if status.IsTerminal() {
		return nil, nil
	}

	elapsed := domain.DaysBetween(submission, domain.DateOf(today))
	days := baseDays
	if elapsed > expediteAfterDays {
		days = expeditedDays
	}

	estimated := submission.AddDays(days)
	return &days, &estimated
}

// CalculateFromString is Calculate for callers that hold the submission date
// as text. It fails with domain.ErrInvalidDate on malformed input.
func CalculateFromString(submission string, status domain.Status, today time.Time) (*int, *domain.Date, error) {
	date, err := domain.ParseDate(submission)
	if err != nil {
		return nil, nil, err
	}
	days, estimated := Calculate(date, status, today)
	return days, estimated, nil
}
