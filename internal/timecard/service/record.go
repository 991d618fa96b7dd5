package service

import (
	"context"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/errors"
)

// DefaultRecordDays is the window of MyRecords when no days are given.
const DefaultRecordDays = 14

// RecordService serves employees their own records
type RecordService struct {
	records repository.RecordStore
	now     func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(records repository.RecordStore) *RecordService {
	return &RecordService{records: records, now: time.Now}
}

// MyRecords returns the caller's records in [start, end], newest first.
// end defaults to today and start to days-1 days before end.
func (s *RecordService) MyRecords(ctx context.Context, a *actor.Actor, start, end *domain.Date, days int) ([]domain.Record, error) {
	if a == nil {
		return nil, errors.Unauthorized("authentication required")
	}
	if a.EmployeeID == "" {
		return nil, errors.Unauthorized("employee account required")
	}
	if days <= 0 {
		days = DefaultRecordDays
	}

	to := domain.DateOf(s.now())
	if end != nil {
		to = *end
	}
	from := to.AddDays(-(days - 1))
	if start != nil {
		from = *start
	}

	return s.records.ListByEmployee(ctx, a.EmployeeID, &from, &to)
}
