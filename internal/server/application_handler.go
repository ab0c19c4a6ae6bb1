package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/bjarke-xyz/benefit-gateway/internal/eta"
	"github.com/bjarke-xyz/benefit-gateway/internal/metrics"
	"github.com/go-chi/chi/v5"
)

const maxListLimit = 100

type createApplicationInput struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	DateOfBirth       string   `json:"date_of_birth"`
	SSNLast4          string   `json:"ssn_last4"`
	Income            *float64 `json:"income"`
	HouseholdSize     *int     `json:"household_size"`
	Address           string   `json:"address"`
	EnrolledInProgram bool     `json:"is_enrolled_in_program"`
	ProgramName       string   `json:"program_name"`
}

func (s *server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := validateCreatePayload(body); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	input := createApplicationInput{}
	if err := json.Unmarshal(body, &input); err != nil {
		errorResponse(w, http.StatusBadRequest, "failed to decode request body")
		return
	}

	dob, err := domain.ParseDate(input.DateOfBirth)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app := domain.Application{
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		DateOfBirth:       dob,
		SSNLast4:          input.SSNLast4,
		Income:            input.Income,
		HouseholdSize:     input.HouseholdSize,
		Address:           input.Address,
		EnrolledInProgram: input.EnrolledInProgram,
		ProgramName:       input.ProgramName,
		SubmissionDate:    domain.DateOf(s.now()),
		Status:            domain.StatusPending,
	}
	if err := app.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	app.ApprovalEta, app.ApprovalEstimatedDate = eta.Calculate(app.SubmissionDate, app.Status, s.now())

	if err := s.appRepository.Create(r.Context(), &app); err != nil {
		s.writeRepoError(w, "create", err)
		return
	}

	metrics.ApplicationsCreated.Inc()
	s.logger.Info("application created", "id", app.ID, "submissionDate", app.SubmissionDate.String())
	jsonResponse(w, http.StatusCreated, app)
}

func (s *server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	limit := maxListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	apps, err := s.appRepository.List(r.Context(), limit)
	if err != nil {
		s.writeRepoError(w, "list", err)
		return
	}
	jsonResponse(w, http.StatusOK, apps)
}

func (s *server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	appId := chi.URLParam(r, "application-id")
	app, err := s.appRepository.GetByID(r.Context(), appId)
	if err != nil {
		s.writeRepoError(w, "get", err)
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

func (s *server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	appId := chi.URLParam(r, "application-id")
	status, err := domain.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app, err := s.appRepository.GetByID(r.Context(), appId)
	if err != nil {
		s.writeRepoError(w, "get", err)
		return
	}

	app.Status = status
	app.ApprovalEta, app.ApprovalEstimatedDate = eta.Calculate(app.SubmissionDate, status, s.now())
	if status == domain.StatusApproved {
		approvalDate := domain.DateOf(s.now())
		app.ApprovalDate = &approvalDate
	} else {
		app.ApprovalDate = nil
	}

	if err := s.appRepository.UpdateStatus(r.Context(), &app); err != nil {
		s.writeRepoError(w, "update", err)
		return
	}

	s.logger.Info("application status updated", "id", app.ID, "status", string(status))
	jsonResponse(w, http.StatusOK, app)
}

func (s *server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	appId := chi.URLParam(r, "application-id")
	if err := s.appRepository.Delete(r.Context(), appId); err != nil {
		// A second delete of the same id lands here with ErrNotFound, which
		// keeps the operation idempotent in effect.
		s.writeRepoError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
