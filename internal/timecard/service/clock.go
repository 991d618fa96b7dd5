package service

import (
	"context"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/compute"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/events"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/logger"
	"github.com/timecard/timecard-backend/pkg/messaging"
)

// ClockService applies punches and manual record changes
type ClockService struct {
	records   repository.RecordStore
	publisher *events.TimecardEventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewClockService creates a new clock service
func NewClockService(
	records repository.RecordStore,
	publisher *events.TimecardEventPublisher,
	log *logger.Logger,
) *ClockService {
	return &ClockService{
		records:   records,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// Apply performs the action for the caller and returns the saved record.
func (s *ClockService) Apply(ctx context.Context, a *actor.Actor, action domain.ClockAction) (*domain.Record, error) {
	if a == nil {
		return nil, errors.Unauthorized("authentication required")
	}

	switch act := action.(type) {
	case domain.Punch:
		return s.punch(ctx, a, act)
	case domain.CreateRecord:
		return s.create(ctx, a, act)
	case domain.UpdateRecord:
		return s.update(ctx, a, act)
	default:
		return nil, errors.BadRequest("unsupported action")
	}
}

// ============================================================================
// Punches
// ============================================================================

var punchEvents = map[domain.ActionKind]string{
	domain.ActionClockIn:    messaging.EventRecordClockIn,
	domain.ActionClockOut:   messaging.EventRecordClockOut,
	domain.ActionBreakStart: messaging.EventRecordBreakStart,
	domain.ActionBreakEnd:   messaging.EventRecordBreakEnd,
}

func (s *ClockService) punch(ctx context.Context, a *actor.Actor, p domain.Punch) (*domain.Record, error) {
	if !p.Action.IsPunch() {
		return nil, errors.BadRequest("unsupported action")
	}
	if a.EmployeeID == "" {
		return nil, errors.BadRequest("no employee is linked to this account")
	}

	now := s.now()
	if p.At != nil {
		now = *p.At
	}
	today := domain.DateOf(now)

	var saved *domain.Record
	err := s.records.InTx(ctx, func(tx repository.RecordStore) error {
		rec, err := tx.GetByEmployeeAndDate(ctx, a.EmployeeID, today)
		if err != nil {
			return err
		}
		if rec == nil && p.Action.ContinuesShift() {
			// Overnight shift still open from yesterday
			rec, err = tx.GetOpenByEmployeeAndDate(ctx, a.EmployeeID, today.AddDays(-1))
			if err != nil {
				return err
			}
		}

		isNew := rec == nil
		if isNew {
			rec = &domain.Record{EmployeeID: a.EmployeeID, Date: today}
		}

		if err := applyPunch(rec, p.Action, now); err != nil {
			return err
		}
		if p.Note != nil {
			rec.Note = p.Note
		}

		if isNew {
			err = tx.Create(ctx, rec)
		} else {
			err = tx.Update(ctx, rec)
		}
		if err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", a.EmployeeID).
		Str("record_id", saved.ID).
		Str("action", string(p.Action)).
		Msg("punch recorded")
	s.publisher.PublishRecord(ctx, punchEvents[p.Action], saved, a.UserID)

	return saved, nil
}

// applyPunch writes now into rec for the action, formatted relative to the
// record's date.
func applyPunch(rec *domain.Record, action domain.ActionKind, now time.Time) error {
	at := compute.FormatTimeOfDay(rec.Date, now)

	switch action {
	case domain.ActionClockIn:
		if rec.HasClockIn() {
			return errors.Conflict("already clocked in")
		}
		rec.ClockIn = &at

	case domain.ActionClockOut:
		if rec.HasClockOut() {
			return errors.Conflict("already clocked out")
		}
		rec.ClockOut = &at

	case domain.ActionBreakStart:
		if !rec.HasClockIn() {
			return errors.BadRequest("clock in before starting a break")
		}
		if rec.OnBreak() {
			return errors.Conflict("already on break")
		}
		rec.BreakStart = &at
		rec.BreakEnd = nil
		rec.BreakMinutes = nil

	case domain.ActionBreakEnd:
		if !rec.OnBreak() {
			return errors.BadRequest("start a break before ending it")
		}
		minutes := 0
		if start, ok := compute.ParseTimeOfDay(rec.Date, *rec.BreakStart); ok {
			minutes = max(int(now.Sub(start)/time.Minute), 0)
		}
		rec.BreakEnd = &at
		rec.BreakMinutes = &minutes
	}
	return nil
}

// ============================================================================
// Manual records
// ============================================================================

func (s *ClockService) create(ctx context.Context, a *actor.Actor, c domain.CreateRecord) (*domain.Record, error) {
	employeeID := a.EmployeeID
	if a.IsAdmin() && c.EmployeeID != "" {
		employeeID = c.EmployeeID
	}
	if employeeID == "" {
		return nil, errors.BadRequest("employee could not be determined")
	}
	if c.Date.IsZero() {
		return nil, errors.BadRequest("date is required")
	}

	existing, err := s.records.GetByEmployeeAndDate(ctx, employeeID, c.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("an attendance record already exists for this date")
	}

	breakMinutes := compute.BreakWindowMinutes(c.Date, c.BreakStart, c.BreakEnd)
	rec := &domain.Record{
		EmployeeID:   employeeID,
		Date:         c.Date,
		ClockIn:      nonEmpty(c.ClockIn),
		ClockOut:     nonEmpty(c.ClockOut),
		BreakStart:   nonEmpty(c.BreakStart),
		BreakEnd:     nonEmpty(c.BreakEnd),
		BreakMinutes: &breakMinutes,
		Note:         nonEmpty(c.Note),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", employeeID).
		Str("record_id", rec.ID).
		Str("performed_by", a.UserID).
		Msg("attendance record created")
	s.publisher.PublishRecord(ctx, messaging.EventRecordCreated, rec, a.UserID)

	return rec, nil
}

func (s *ClockService) update(ctx context.Context, a *actor.Actor, u domain.UpdateRecord) (*domain.Record, error) {
	if u.RecordID == "" {
		return nil, errors.BadRequest("record_id is required")
	}

	var saved *domain.Record
	err := s.records.InTx(ctx, func(tx repository.RecordStore) error {
		rec, err := tx.GetByID(ctx, u.RecordID)
		if err != nil {
			return err
		}
		if !a.CanAccessEmployee(rec.EmployeeID) {
			return errors.Forbidden("cannot modify another employee's record")
		}

		patch(&rec.ClockIn, u.ClockIn)
		patch(&rec.ClockOut, u.ClockOut)
		patch(&rec.BreakStart, u.BreakStart)
		patch(&rec.BreakEnd, u.BreakEnd)
		patch(&rec.Note, u.Note)

		if err := checkCorrection(rec); err != nil {
			return err
		}

		switch minutes := compute.BreakWindowMinutes(rec.Date, rec.BreakStart, rec.BreakEnd); {
		case minutes > 0:
			rec.BreakMinutes = &minutes
		case rec.BreakStart == nil && rec.BreakEnd == nil:
			rec.BreakMinutes = nil
		}

		if err := tx.Update(ctx, rec); err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", saved.EmployeeID).
		Str("record_id", saved.ID).
		Str("performed_by", a.UserID).
		Msg("attendance record updated")
	s.publisher.PublishRecord(ctx, messaging.EventRecordUpdated, saved, a.UserID)

	return saved, nil
}

// checkCorrection rejects a clock-out before the clock-in or strictly inside
// the break. Fields that do not parse are not checked.
func checkCorrection(rec *domain.Record) error {
	in, okIn := parseTime(rec.Date, rec.ClockIn)
	out, okOut := parseTime(rec.Date, rec.ClockOut)
	if !okIn || !okOut {
		return nil
	}
	if out.Before(in) {
		return errors.BadRequest("clock-out must not be before clock-in")
	}

	breakStart, okStart := parseTime(rec.Date, rec.BreakStart)
	breakEnd, okEnd := parseTime(rec.Date, rec.BreakEnd)
	if okStart && okEnd && out.After(breakStart) && out.Before(breakEnd) {
		return errors.BadRequest("cannot clock out during a break")
	}
	return nil
}

func parseTime(date domain.Date, s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return compute.ParseTimeOfDay(date, *s)
}

// patch applies an optional correction: nil keeps the field, "" clears it.
func patch(field **string, value *string) {
	if value == nil {
		return
	}
	*field = nonEmpty(value)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
