package domain

import "time"

// ActionKind names a clock endpoint action on the wire.
type ActionKind string

const (
	ActionClockIn    ActionKind = "clockIn"
	ActionClockOut   ActionKind = "clockOut"
	ActionBreakStart ActionKind = "breakStart"
	ActionBreakEnd   ActionKind = "breakEnd"
	ActionCreate     ActionKind = "create"
	ActionUpdate     ActionKind = "update"
)

// ClockAction is one of Punch, CreateRecord or UpdateRecord.
type ClockAction interface {
	Kind() ActionKind
	isClockAction()
}

// Punch records the current time into the caller's record for today, or
// into yesterday's still-open record for an overnight shift.
type Punch struct {
	Action ActionKind
	// At is the client clock; nil means server time.
	At   *time.Time
	Note *string
}

func (p Punch) Kind() ActionKind { return p.Action }
func (Punch) isClockAction()     {}

// IsPunch reports whether k is one of the four punch actions.
func (k ActionKind) IsPunch() bool {
	switch k {
	case ActionClockIn, ActionClockOut, ActionBreakStart, ActionBreakEnd:
		return true
	}
	return false
}

// ContinuesShift reports whether the punch may land on yesterday's open record.
func (k ActionKind) ContinuesShift() bool {
	return k == ActionClockOut || k == ActionBreakStart || k == ActionBreakEnd
}

// CreateRecord adds a manual record for a day that has none.
type CreateRecord struct {
	// EmployeeID is honored for administrators only.
	EmployeeID string
	Date       Date
	ClockIn    *string
	ClockOut   *string
	BreakStart *string
	BreakEnd   *string
	Note       *string
}

func (CreateRecord) Kind() ActionKind { return ActionCreate }
func (CreateRecord) isClockAction()   {}

// UpdateRecord corrects an existing record. A nil field is left unchanged
// and an empty string clears it.
type UpdateRecord struct {
	RecordID   string
	ClockIn    *string
	ClockOut   *string
	BreakStart *string
	BreakEnd   *string
	Note       *string
}

func (UpdateRecord) Kind() ActionKind { return ActionUpdate }
func (UpdateRecord) isClockAction()   {}
