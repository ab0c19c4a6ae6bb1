package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", d.String())

	for _, bad := range []string{"10-03-2026", "2026/03/10", "2026-13-40", "yesterday", ""} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestDateOfTruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	instant := time.Date(2026, time.March, 11, 2, 30, 0, 0, loc) // 2026-03-10 21:30 UTC

	assert.Equal(t, "2026-03-10", DateOf(instant).String())
}

func TestDaysBetween(t *testing.T) {
	a := NewDate(2026, time.March, 10)
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 4, DaysBetween(a, a.AddDays(4)))
	assert.Equal(t, -4, DaysBetween(a.AddDays(4), a))
	// Crosses a month boundary.
	assert.Equal(t, 22, DaysBetween(a, NewDate(2026, time.April, 1)))
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Submitted Date  `json:"submitted"`
		Approved  *Date `json:"approved"`
	}

	data, err := json.Marshal(payload{Submitted: NewDate(2026, time.March, 10)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"submitted":"2026-03-10","approved":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"submitted":"2026-03-10","approved":"2026-03-15"}`), &decoded))
	assert.Equal(t, "2026-03-10", decoded.Submitted.String())
	require.NotNil(t, decoded.Approved)
	assert.Equal(t, "2026-03-15", decoded.Approved.String())

	err = json.Unmarshal([]byte(`{"submitted":"03/10/2026"}`), &decoded)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Approved", "Rejected"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("pending")
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestApplicationValidate(t *testing.T) {
	income := -5.0
	household := 0

	tests := []struct {
		name      string
		app       Application
		wantField string
	}{
		{
			name:      "enrolled without program name",
			app:       Application{EnrolledInProgram: true},
			wantField: "program_name",
		},
		{
			name:      "negative income",
			app:       Application{Income: &income},
			wantField: "income",
		},
		{
			name:      "zero household",
			app:       Application{HouseholdSize: &household},
			wantField: "household_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.app.Validate()
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}

	ok := Application{EnrolledInProgram: true, ProgramName: "SNAP"}
	assert.NoError(t, ok.Validate())
}
