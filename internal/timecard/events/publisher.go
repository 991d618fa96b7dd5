package events

import (
	"context"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/pkg/logger"
	"github.com/timecard/timecard-backend/pkg/messaging"
)

// Publisher sends one event. *messaging.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// TimecardEventPublisher publishes timecard events. Failures are logged and
// never returned, so a broker outage does not fail a request.
type TimecardEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewTimecardEventPublisher publishes to the timecard exchange over rmq.
func NewTimecardEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*TimecardEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeTimecardEvents, "timecard-service", log)
	if err != nil {
		return nil, err
	}
	return New(publisher, log), nil
}

// New wraps any Publisher.
func New(publisher Publisher, log *logger.Logger) *TimecardEventPublisher {
	return &TimecardEventPublisher{publisher: publisher, logger: log}
}

// Disabled returns a publisher that drops every event, for running without
// a broker.
func Disabled(log *logger.Logger) *TimecardEventPublisher {
	return &TimecardEventPublisher{logger: log}
}

func (p *TimecardEventPublisher) publish(ctx context.Context, eventType, key, id string, data interface{}) {
	if p == nil || p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Str(key, id).Msg("failed to publish event")
	}
}

// PublishRecord publishes a record change. eventType is one of the
// messaging.EventRecord* constants.
func (p *TimecardEventPublisher) PublishRecord(ctx context.Context, eventType string, r *domain.Record, performedBy string) {
	data := messaging.RecordEvent{
		RecordID:     r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         r.Date.String(),
		ClockIn:      r.ClockIn,
		ClockOut:     r.ClockOut,
		BreakStart:   r.BreakStart,
		BreakEnd:     r.BreakEnd,
		BreakMinutes: r.BreakMinutes,
		PerformedBy:  performedBy,
	}
	p.publish(ctx, eventType, "record_id", r.ID, data)
}

// PublishEmployeeCreated publishes an employee created event
func (p *TimecardEventPublisher) PublishEmployeeCreated(ctx context.Context, e *domain.Employee, performedBy string) {
	p.publish(ctx, messaging.EventEmployeeCreated, "employee_id", e.ID, employeeEvent(e, performedBy))
}

// PublishEmployeeUpdated publishes an employee updated event
func (p *TimecardEventPublisher) PublishEmployeeUpdated(ctx context.Context, e *domain.Employee, performedBy string) {
	p.publish(ctx, messaging.EventEmployeeUpdated, "employee_id", e.ID, employeeEvent(e, performedBy))
}

// PublishEmployeeDeleted publishes an employee deleted event
func (p *TimecardEventPublisher) PublishEmployeeDeleted(ctx context.Context, employeeID, performedBy string) {
	data := messaging.EmployeeEvent{EmployeeID: employeeID, PerformedBy: performedBy}
	p.publish(ctx, messaging.EventEmployeeDeleted, "employee_id", employeeID, data)
}

// PublishWageHistoryCreated publishes a new wage entry
func (p *TimecardEventPublisher) PublishWageHistoryCreated(ctx context.Context, w *domain.WageRate, performedBy string) {
	data := messaging.WageHistoryEvent{
		EmployeeID:    w.EmployeeID,
		HourlyRate:    w.HourlyRate,
		EffectiveDate: w.EffectiveDate.String(),
		PerformedBy:   performedBy,
	}
	p.publish(ctx, messaging.EventWageHistoryCreated, "employee_id", w.EmployeeID, data)
}

func employeeEvent(e *domain.Employee, performedBy string) messaging.EmployeeEvent {
	return messaging.EmployeeEvent{
		EmployeeID:  e.ID,
		Name:        e.Name,
		Role:        e.Role,
		HourlyRate:  e.HourlyRate,
		PerformedBy: performedBy,
	}
}
