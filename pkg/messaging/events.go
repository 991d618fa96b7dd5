package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventRecordClockIn    = "timecard.record.clock_in"
	EventRecordClockOut   = "timecard.record.clock_out"
	EventRecordBreakStart = "timecard.record.break_start"
	EventRecordBreakEnd   = "timecard.record.break_end"
	EventRecordCreated    = "timecard.record.created"
	EventRecordUpdated    = "timecard.record.updated"

	EventEmployeeCreated    = "timecard.employee.created"
	EventEmployeeUpdated    = "timecard.employee.updated"
	EventEmployeeDeleted    = "timecard.employee.deleted"
	EventWageHistoryCreated = "timecard.employee.wage_history.created"
)

// ExchangeTimecardEvents is the topic exchange all timecard events go to.
const ExchangeTimecardEvents = "timecard.events"

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// RecordEvent is published whenever an attendance record changes.
// Time fields carry the stored time-of-day strings.
type RecordEvent struct {
	RecordID     string  `json:"record_id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	BreakStart   *string `json:"break_start,omitempty"`
	BreakEnd     *string `json:"break_end,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	PerformedBy  string  `json:"performed_by"`
}

// EmployeeEvent is published when an employee is created, updated or deleted.
type EmployeeEvent struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name,omitempty"`
	Role        string  `json:"role,omitempty"`
	HourlyRate  float64 `json:"hourly_rate,omitempty"`
	PerformedBy string  `json:"performed_by"`
}

// WageHistoryEvent is published when a wage entry is added.
type WageHistoryEvent struct {
	EmployeeID    string  `json:"employee_id"`
	HourlyRate    float64 `json:"hourly_rate"`
	EffectiveDate string  `json:"effective_date"`
	PerformedBy   string  `json:"performed_by"`
}
