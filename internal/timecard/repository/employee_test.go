package repository_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/testutil"
)

var employeeCols = []string{"id", "name", "role", "hourly_rate", "created_at", "updated_at"}

func TestEmployeeRepository_List(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now().UTC()
	mockDB.ExpectQuery("FROM employees ORDER BY name ASC, id ASC").
		WillReturnRows(testutil.MockRows(employeeCols...).
			AddRow("e1", "Aoki", "staff", []byte("1200.00"), now, now).
			AddRow("e2", "Sato", "lead", []byte("1500.50"), now, now))

	repo := repository.NewEmployeeRepository(mockDB.DB)
	employees, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Aoki", employees[0].Name)
	assert.Equal(t, 1500.5, employees[1].HourlyRate)

	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM employees").WillReturnRows(testutil.MockRows(employeeCols...))

	employees, err := repository.NewEmployeeRepository(mockDB.DB).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM employees WHERE id = $1").
		WithArgs("missing").
		WillReturnRows(testutil.MockRows(employeeCols...))

	_, err := repository.NewEmployeeRepository(mockDB.DB).GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now().UTC()
	mockDB.ExpectQuery("INSERT INTO employees").
		WithArgs(testutil.AnyUUID{}, "Aoki", "staff", 1200.0).
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	e := &domain.Employee{Name: "Aoki", Role: "staff", HourlyRate: 1200}
	err := repository.NewEmployeeRepository(mockDB.DB).Create(context.Background(), e)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, now, e.CreatedAt)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_Create_CheckViolation(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO employees").
		WillReturnError(&pq.Error{Code: "23514", Constraint: "employees_hourly_rate_check"})

	e := &domain.Employee{Name: "Aoki", HourlyRate: -1}
	err := repository.NewEmployeeRepository(mockDB.DB).Create(context.Background(), e)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("UPDATE employees").
		WithArgs("e1", "Aoki", "staff", 1300.0).
		WillReturnRows(testutil.MockRows("created_at", "updated_at"))

	e := &domain.Employee{ID: "e1", Name: "Aoki", Role: "staff", HourlyRate: 1300}
	err := repository.NewEmployeeRepository(mockDB.DB).Update(context.Background(), e)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectExec("DELETE FROM employees WHERE id = $1").
			WithArgs("e1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repository.NewEmployeeRepository(mockDB.DB).Delete(context.Background(), "e1"))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("missing", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectExec("DELETE FROM employees").
			WithArgs("e1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repository.NewEmployeeRepository(mockDB.DB).Delete(context.Background(), "e1")
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestWageHistoryRepository_ListForEmployees(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now().UTC()
	mockDB.ExpectQuery("WHERE employee_id = ANY($1::uuid[])").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(testutil.MockRows("id", "employee_id", "hourly_rate", "effective_date", "created_at").
			AddRow("w2", "e1", 1300.0, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), now).
			AddRow("w1", "e1", 1200.0, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now).
			AddRow("w3", "e2", 1000.0, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), now))

	byEmployee, err := repository.NewWageHistoryRepository(mockDB.DB).
		ListForEmployees(context.Background(), []string{"e1", "e2", "e3"})
	require.NoError(t, err)
	require.Len(t, byEmployee["e1"], 2)
	assert.Equal(t, "2024-04-01", byEmployee["e1"][0].EffectiveDate.String())
	require.Len(t, byEmployee["e2"], 1)
	assert.Empty(t, byEmployee["e3"])
	mockDB.ExpectationsWereMet(t)
}

func TestWageHistoryRepository_ListForEmployees_NoIDs(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	byEmployee, err := repository.NewWageHistoryRepository(mockDB.DB).ListForEmployees(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, byEmployee)
	mockDB.ExpectationsWereMet(t)
}

func TestWageHistoryRepository_Create_StartsOfMonth(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO wage_history").
		WithArgs(testutil.AnyUUID{}, "e1", 1400.0, "2024-05-01").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now().UTC()))

	w := &domain.WageRate{EmployeeID: "e1", HourlyRate: 1400, EffectiveDate: domain.NewDate(2024, time.May, 17)}
	require.NoError(t, repository.NewWageHistoryRepository(mockDB.DB).Create(context.Background(), w))
	assert.Equal(t, "2024-05-01", w.EffectiveDate.String())
	mockDB.ExpectationsWereMet(t)
}

func TestWageHistoryRepository_Create_DuplicateMonth(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO wage_history").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "wage_history_employee_effective_date_key"})

	w := &domain.WageRate{EmployeeID: "e1", HourlyRate: 1400, EffectiveDate: domain.NewDate(2024, time.May, 1)}
	err := repository.NewWageHistoryRepository(mockDB.DB).Create(context.Background(), w)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}
