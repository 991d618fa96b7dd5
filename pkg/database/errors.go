package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/timecard/timecard-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.NotFound("employee")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "hourly_rate"):
		return errors.Validation(map[string]string{
			"hourly_rate": "must not be negative",
		})
	case strings.Contains(constraint, "break_minutes"):
		return errors.Validation(map[string]string{
			"break_minutes": "must not be negative",
		})
	default:
		return errors.BadRequest("data validation failed").
			WithDetails(map[string]string{"constraint": constraint})
	}
}

func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "attendance_records_employee_date"):
		return "an attendance record already exists for this date"
	case strings.Contains(constraint, "wage_history_employee_effective_date"):
		return "a wage entry already exists for this month"
	default:
		return "a record with these values already exists"
	}
}
