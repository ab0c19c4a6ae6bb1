package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bjarke-xyz/benefit-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCreateBody = `{
	"first_name": "A",
	"last_name": "B",
	"date_of_birth": "1990-01-01",
	"ssn_last4": "1234",
	"address": "X"
}`

func createApplication(t *testing.T, s *server, body string) domain.Application {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(body))
	s.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var app domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	return app
}

func TestCreateApplication(t *testing.T) {
	s := newTestServer(t, newFakeRepository())

	app := createApplication(t, s, minimalCreateBody)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, "2026-06-15", app.SubmissionDate.String())
	require.NotNil(t, app.ApprovalEta)
	assert.Contains(t, []int{3, 5}, *app.ApprovalEta)
	require.NotNil(t, app.ApprovalEstimatedDate)
	assert.Equal(t, "2026-06-20", app.ApprovalEstimatedDate.String())
	assert.Nil(t, app.ApprovalDate)
}

func TestCreateApplicationEnrolledRequiresProgramName(t *testing.T) {
	s := newTestServer(t, newFakeRepository())

	body := `{
		"first_name": "A",
		"last_name": "B",
		"date_of_birth": "1990-01-01",
		"ssn_last4": "1234",
		"address": "X",
		"is_enrolled_in_program": true
	}`
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "program_name")
}

func TestCreateApplicationSchemaViolations(t *testing.T) {
	s := newTestServer(t, newFakeRepository())

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing required fields", `{"first_name": "A"}`},
		{"ssn_last4 too short", strings.Replace(minimalCreateBody, `"1234"`, `"12"`, 1)},
		{"malformed date", strings.Replace(minimalCreateBody, `"1990-01-01"`, `"01/01/1990"`, 1)},
		{"household too large", strings.Replace(minimalCreateBody, `"address": "X"`, `"address": "X", "household_size": 9`, 1)},
		{"negative income", strings.Replace(minimalCreateBody, `"address": "X"`, `"address": "X", "income": -1`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateApplicationImpossibleDate(t *testing.T) {
	s := newTestServer(t, newFakeRepository())

	// Passes the schema's shape pattern but is not a calendar date.
	body := strings.Replace(minimalCreateBody, `"1990-01-01"`, `"1990-13-40"`, 1)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid date")
}

func TestGetApplication(t *testing.T) {
	repo := newFakeRepository()
	s := newTestServer(t, repo)
	created := createApplication(t, s, minimalCreateBody)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "A", got.FirstName)
}

func TestGetApplicationInvalidID(t *testing.T) {
	s := newTestServer(t, newFakeRepository())

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetApplicationNotFound(t *testing.T) {
	s := newTestServer(t, newFakeRepository())

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListApplications(t *testing.T) {
	s := newTestServer(t, newFakeRepository())
	for i := 0; i < 3; i++ {
		createApplication(t, s, minimalCreateBody)
	}

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var apps []domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	assert.Len(t, apps, 3)

	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	assert.Len(t, apps, 2)

	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusApproved(t *testing.T) {
	s := newTestServer(t, newFakeRepository())
	created := createApplication(t, s, minimalCreateBody)

	url := fmt.Sprintf("/applications/%s?status=Approved", created.ID)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, url, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.StatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovalDate)
	assert.Equal(t, "2026-06-15", updated.ApprovalDate.String())
	assert.Nil(t, updated.ApprovalEta)
	assert.Nil(t, updated.ApprovalEstimatedDate)
}

func TestUpdateStatusBackToPendingRecomputesEta(t *testing.T) {
	s := newTestServer(t, newFakeRepository())
	created := createApplication(t, s, minimalCreateBody)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/applications/"+created.ID+"?status=Rejected", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Move time forward so the recomputed ETA lands in the expedited bucket.
	s.now = func() time.Time { return testNow.AddDate(0, 0, 10) }
	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/applications/"+created.ID+"?status=Pending", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.StatusPending, updated.Status)
	require.NotNil(t, updated.ApprovalEta)
	assert.Equal(t, 3, *updated.ApprovalEta)
	assert.Nil(t, updated.ApprovalDate)
}

func TestUpdateStatusValidation(t *testing.T) {
	s := newTestServer(t, newFakeRepository())
	created := createApplication(t, s, minimalCreateBody)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/applications/"+created.ID+"?status=Frobnicated", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/applications/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d?status=Approved", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteApplication(t *testing.T) {
	s := newTestServer(t, newFakeRepository())
	created := createApplication(t, s, minimalCreateBody)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/applications/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The second delete finds nothing, it does not fail in a new way.
	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/applications/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
