package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/pkg/database"
)

// WageHistoryRepository handles wage history persistence
type WageHistoryRepository struct {
	db *database.DB
}

// NewWageHistoryRepository creates a new wage history repository
func NewWageHistoryRepository(db *database.DB) *WageHistoryRepository {
	return &WageHistoryRepository{db: db}
}

// ListForEmployees returns each employee's wage entries, most recent first.
func (r *WageHistoryRepository) ListForEmployees(ctx context.Context, employeeIDs []string) (map[string][]domain.WageRate, error) {
	byEmployee := make(map[string][]domain.WageRate, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return byEmployee, nil
	}

	var rates []domain.WageRate
	query := `
		SELECT id, employee_id, hourly_rate, effective_date, created_at
		FROM wage_history
		WHERE employee_id = ANY($1::uuid[])
		ORDER BY employee_id ASC, effective_date DESC
	`
	if err := sqlx.SelectContext(ctx, r.db, &rates, query, pq.Array(employeeIDs)); err != nil {
		return nil, err
	}

	for _, w := range rates {
		byEmployee[w.EmployeeID] = append(byEmployee[w.EmployeeID], w)
	}
	return byEmployee, nil
}

// Create inserts a wage entry. The effective date is moved to the first of
// its month; a second entry for the same month is a conflict.
func (r *WageHistoryRepository) Create(ctx context.Context, w *domain.WageRate) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	w.EffectiveDate = w.EffectiveDate.StartOfMonth()

	query := `
		INSERT INTO wage_history (id, employee_id, hourly_rate, effective_date)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query, w.ID, w.EmployeeID, w.HourlyRate, w.EffectiveDate).
		Scan(&w.CreatedAt)
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}
