package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/bjarke-xyz/benefit-gateway/internal/eligibility"
	"github.com/bjarke-xyz/benefit-gateway/internal/metrics"
)

type predictInput struct {
	DateOfBirth       string  `json:"date_of_birth"`
	Income            float64 `json:"income"`
	HouseholdSize     int     `json:"household_size"`
	EnrolledInProgram bool    `json:"is_enrolled_in_program"`
	ProgramName       string  `json:"program_name"`
}

func (in predictInput) toEligibilityInput() (eligibility.Input, error) {
	dob, err := domain.ParseDate(in.DateOfBirth)
	if err != nil {
		return eligibility.Input{}, err
	}
	return eligibility.Input{
		DateOfBirth:   dob,
		Income:        in.Income,
		HouseholdSize: in.HouseholdSize,
		Enrolled:      in.EnrolledInProgram,
		ProgramName:   in.ProgramName,
	}, nil
}

type screeningResponse struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

type decisionResponse struct {
	Status  string   `json:"status"`
	Reasons []string `json:"reason,omitempty"`
}

func (s *server) decodePredictInput(w http.ResponseWriter, r *http.Request) (eligibility.Input, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return eligibility.Input{}, false
	}
	if err := validatePredictPayload(body); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return eligibility.Input{}, false
	}
	var raw predictInput
	if err := json.Unmarshal(body, &raw); err != nil {
		errorResponse(w, http.StatusBadRequest, "failed to decode request body")
		return eligibility.Input{}, false
	}
	input, err := raw.toEligibilityInput()
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return eligibility.Input{}, false
	}
	return input, true
}

// handlePredictEligibility runs the screening model: a quick verdict without
// decision reasoning, denied outright for minors.
func (s *server) handlePredictEligibility(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodePredictInput(w, r)
	if !ok {
		return
	}

	result, err := s.evaluator.Screen(input, s.now())
	if err != nil {
		s.logger.Error("screening prediction failed", "error", err)
		metrics.PredictionsTotal.WithLabelValues("screening", "error").Inc()
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := "denied"
	if result.Approved {
		outcome = "approved"
	}
	metrics.PredictionsTotal.WithLabelValues("screening", outcome).Inc()
	jsonResponse(w, http.StatusOK, screeningResponse{Approved: result.Approved, Reason: result.Reason})
}

// handlePredict runs the final decision model and assembles denial reasons.
func (s *server) handlePredict(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodePredictInput(w, r)
	if !ok {
		return
	}

	result, err := s.evaluator.Decide(input, s.now())
	if err != nil {
		s.logger.Error("decision prediction failed", "error", err)
		metrics.PredictionsTotal.WithLabelValues("decision", "error").Inc()
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := "approved"
	if result.Status == eligibility.DecisionDenied {
		outcome = "denied"
	}
	metrics.PredictionsTotal.WithLabelValues("decision", outcome).Inc()
	jsonResponse(w, http.StatusOK, decisionResponse{Status: result.Status, Reasons: result.Reasons})
}
