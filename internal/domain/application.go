package domain

import (
	"context"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseStatus accepts only the three lifecycle statuses.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
}

// IsTerminal reports whether the status ends the review lifecycle. Terminal
// applications carry no ETA and no estimated date.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Application struct {
	ID                    string   `json:"id"`
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	DateOfBirth           Date     `json:"date_of_birth"`
	SSNLast4              string   `json:"ssn_last4"`
	Income                *float64 `json:"income,omitempty"`
	HouseholdSize         *int     `json:"household_size,omitempty"`
	Address               string   `json:"address"`
	EnrolledInProgram     bool     `json:"is_enrolled_in_program"`
	ProgramName           string   `json:"program_name,omitempty"`
	SubmissionDate        Date     `json:"submission_date"`
	Status                Status   `json:"status"`
	ApprovalEta           *int     `json:"approval_eta"`
	ApprovalEstimatedDate *Date    `json:"approval_estimated_date"`
	ApprovalDate          *Date    `json:"approval_date"`

	CreatedAt time.Time  `json:"-"`
	UpdatedAt *time.Time `json:"-"`
}

// Validate checks the cross-field rules that a JSON schema cannot express.
func (a *Application) Validate() error {
	if a.EnrolledInProgram && a.ProgramName == "" {
		return &ValidationError{Field: "program_name", Message: "program_name is required when is_enrolled_in_program is true"}
	}
	if a.Income != nil && *a.Income < 0 {
		return &ValidationError{Field: "income", Message: "income must not be negative"}
	}
	if a.HouseholdSize != nil && *a.HouseholdSize < 1 {
		return &ValidationError{Field: "household_size", Message: "household_size must be positive"}
	}
	return nil
}

type ApplicationRepository interface {
	// Create persists the application and assigns its ID.
	Create(context.Context, *Application) error
	GetByID(context.Context, string) (Application, error)
	List(context.Context, int) ([]Application, error)
	// UpdateStatus persists the status and the derived approval fields.
	UpdateStatus(context.Context, *Application) error
	Delete(context.Context, string) error
}
