package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type postgresApplicationRepository struct {
	conn Connection
}

func NewPostgresApplication(conn Connection) domain.ApplicationRepository {
	return &postgresApplicationRepository{conn: conn}
}

type applicationDto struct {
	ID                    string     `db:"id"`
	FirstName             string     `db:"first_name"`
	LastName              string     `db:"last_name"`
	DateOfBirth           time.Time  `db:"date_of_birth"`
	SsnLast4              string     `db:"ssn_last4"`
	Income                *float64   `db:"income"`
	HouseholdSize         *int       `db:"household_size"`
	Address               string     `db:"address"`
	EnrolledInProgram     bool       `db:"enrolled_in_program"`
	ProgramName           string     `db:"program_name"`
	SubmissionDate        time.Time  `db:"submission_date"`
	Status                string     `db:"status"`
	ApprovalEta           *int       `db:"approval_eta"`
	ApprovalEstimatedDate *time.Time `db:"approval_estimated_date"`
	ApprovalDate          *time.Time `db:"approval_date"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             *time.Time `db:"updated_at"`
}

func mapDto(dto applicationDto) domain.Application {
	app := domain.Application{
		ID:                dto.ID,
		FirstName:         dto.FirstName,
		LastName:          dto.LastName,
		DateOfBirth:       domain.DateOf(dto.DateOfBirth),
		SSNLast4:          dto.SsnLast4,
		Income:            dto.Income,
		HouseholdSize:     dto.HouseholdSize,
		Address:           dto.Address,
		EnrolledInProgram: dto.EnrolledInProgram,
		ProgramName:       dto.ProgramName,
		SubmissionDate:    domain.DateOf(dto.SubmissionDate),
		Status:            domain.Status(dto.Status),
		ApprovalEta:       dto.ApprovalEta,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	}
	if dto.ApprovalEstimatedDate != nil {
		estimated := domain.DateOf(*dto.ApprovalEstimatedDate)
		app.ApprovalEstimatedDate = &estimated
	}
	if dto.ApprovalDate != nil {
		approval := domain.DateOf(*dto.ApprovalDate)
		app.ApprovalDate = &approval
	}
	return app
}

func mapDtos(dtos []applicationDto) []domain.Application {
	return lo.Map(dtos, func(dto applicationDto, _ int) domain.Application {
		return mapDto(dto)
	})
}

// parseID rejects identifiers that cannot belong to any record before the
// database sees them.
func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}

func (p *postgresApplicationRepository) nilableTime(d *domain.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

// Create implements domain.ApplicationRepository. The repository assigns the
// identifier.
func (p *postgresApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	app.ID = uuid.NewString()
	query := `
		INSERT INTO applications
			(id, first_name, last_name, date_of_birth, ssn_last4, income, household_size,
			 address, enrolled_in_program, program_name, submission_date, status,
			 approval_eta, approval_estimated_date, approval_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())`
	_, err := p.conn.Exec(ctx, query,
		app.ID, app.FirstName, app.LastName, app.DateOfBirth.Time(), app.SSNLast4,
		app.Income, app.HouseholdSize, app.Address, app.EnrolledInProgram, app.ProgramName,
		app.SubmissionDate.Time(), string(app.Status),
		app.ApprovalEta, p.nilableTime(app.ApprovalEstimatedDate), p.nilableTime(app.ApprovalDate),
	)
	return err
}

// GetByID implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) GetByID(ctx context.Context, id string) (domain.Application, error) {
	var app domain.Application
	if err := parseID(id); err != nil {
		return app, err
	}
	var dto applicationDto
	rows, err := p.conn.Query(ctx, "SELECT * FROM applications WHERE id = $1", id)
	if err != nil {
		return app, err
	}
	err = pgxscan.ScanOne(&dto, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return app, domain.ErrNotFound
		}
		return app, err
	}
	return mapDto(dto), nil
}

// List implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) List(ctx context.Context, limit int) ([]domain.Application, error) {
	dtos := make([]applicationDto, 0)
	err := pgxscan.Select(ctx, p.conn, &dtos,
		"SELECT * FROM applications ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return mapDtos(dtos), nil
}

// UpdateStatus implements domain.ApplicationRepository. Only the status and
// the derived approval fields are mutable after creation.
func (p *postgresApplicationRepository) UpdateStatus(ctx context.Context, app *domain.Application) error {
	if err := parseID(app.ID); err != nil {
		return err
	}
	query := `
		UPDATE applications
		SET status = $1, approval_eta = $2, approval_estimated_date = $3, approval_date = $4, updated_at = NOW()
		WHERE id = $5`
	tag, err := p.conn.Exec(ctx, query,
		string(app.Status), app.ApprovalEta,
		p.nilableTime(app.ApprovalEstimatedDate), p.nilableTime(app.ApprovalDate), app.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete implements domain.ApplicationRepository.
func (p *postgresApplicationRepository) Delete(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	tag, err := p.conn.Exec(ctx, "DELETE FROM applications WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
