package database

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPQError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "duplicate record date",
			err:     &pq.Error{Code: "23505", Constraint: "attendance_records_employee_date_key"},
			status:  http.StatusConflict,
			message: "an attendance record already exists for this date",
		},
		{
			name:    "duplicate wage month",
			err:     &pq.Error{Code: "23505", Constraint: "wage_history_employee_effective_date_key"},
			status:  http.StatusConflict,
			message: "a wage entry already exists for this month",
		},
		{
			name:    "wrapped unknown employee",
			err:     fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}),
			status:  http.StatusNotFound,
			message: "employee not found",
		},
		{
			name:   "negative rate",
			err:    &pq.Error{Code: "23514", Constraint: "employees_hourly_rate_check"},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapPQError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.StatusCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, appErr.Message)
			}
		})
	}
}

func TestMapPQError_UnknownCheck(t *testing.T) {
	appErr := MapPQError(&pq.Error{Code: "23514", Constraint: "attendance_records_date_check"})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "attendance_records_date_check", appErr.Details["constraint"])
}

func TestMapPQError_NonPQ(t *testing.T) {
	assert.Nil(t, MapPQError(fmt.Errorf("plain")))
	assert.Nil(t, MapPQError(&pq.Error{Code: "40001"}))
}

func TestLatestMigrationVersion(t *testing.T) {
	version, err := LatestMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}
