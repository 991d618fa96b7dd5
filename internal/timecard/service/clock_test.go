package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/logger"
	"github.com/timecard/timecard-backend/pkg/messaging"
	"github.com/timecard/timecard-backend/pkg/testutil"
)

type clockFixture struct {
	svc     *ClockService
	records *testutil.MemRecordStore
	events  *testutil.MockPublisher
	now     time.Time
}

func newClockFixture(now time.Time) *clockFixture {
	mock, pub := newPublisher()
	f := &clockFixture{records: &testutil.MemRecordStore{}, events: mock, now: now}
	f.svc = NewClockService(f.records, pub, logger.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *clockFixture) punch(t *testing.T, action domain.ActionKind) (*domain.Record, error) {
	t.Helper()
	return f.svc.Apply(context.Background(), employee, domain.Punch{Action: action})
}

func TestClock_FullDay(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 9, 0))

	rec, err := f.punch(t, domain.ActionClockIn)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", rec.Date.String())
	assert.Equal(t, "09:00", *rec.ClockIn)

	f.now = tokyo(2024, 5, 2, 12, 0)
	rec, err = f.punch(t, domain.ActionBreakStart)
	require.NoError(t, err)
	assert.Equal(t, "12:00", *rec.BreakStart)
	assert.Nil(t, rec.BreakMinutes)

	f.now = tokyo(2024, 5, 2, 12, 45)
	rec, err = f.punch(t, domain.ActionBreakEnd)
	require.NoError(t, err)
	assert.Equal(t, "12:45", *rec.BreakEnd)
	assert.Equal(t, 45, *rec.BreakMinutes)

	f.now = tokyo(2024, 5, 2, 18, 0)
	rec, err = f.punch(t, domain.ActionClockOut)
	require.NoError(t, err)
	assert.Equal(t, "18:00", *rec.ClockOut)

	assert.Equal(t, 1, f.records.Len())

	got := f.events.Events()
	require.Len(t, got, 4)
	assert.Equal(t, messaging.EventRecordClockIn, got[0].Type)
	assert.Equal(t, messaging.EventRecordBreakStart, got[1].Type)
	assert.Equal(t, messaging.EventRecordBreakEnd, got[2].Type)
	assert.Equal(t, messaging.EventRecordClockOut, got[3].Type)
}

func TestClock_OvernightShift(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 22, 0))

	_, err := f.punch(t, domain.ActionClockIn)
	require.NoError(t, err)

	// Past midnight: no record today, so yesterday's open record continues
	f.now = tokyo(2024, 5, 3, 1, 30)
	rec, err := f.punch(t, domain.ActionBreakStart)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", rec.Date.String())
	assert.Equal(t, "25:30", *rec.BreakStart)

	f.now = tokyo(2024, 5, 3, 2, 0)
	rec, err = f.punch(t, domain.ActionBreakEnd)
	require.NoError(t, err)
	assert.Equal(t, "26:00", *rec.BreakEnd)
	assert.Equal(t, 30, *rec.BreakMinutes)

	f.now = tokyo(2024, 5, 3, 6, 0)
	rec, err = f.punch(t, domain.ActionClockOut)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", rec.Date.String())
	assert.Equal(t, "30:00", *rec.ClockOut)
	assert.Equal(t, 1, f.records.Len())
}

func TestClock_ClockInNextDayStartsNewRecord(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 22, 0))
	_, err := f.punch(t, domain.ActionClockIn)
	require.NoError(t, err)

	f.now = tokyo(2024, 5, 3, 9, 0)
	rec, err := f.punch(t, domain.ActionClockIn)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03", rec.Date.String())
	assert.Equal(t, 2, f.records.Len())
}

func TestClock_ClientTime(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 9, 0))

	at := time.Date(2024, 5, 2, 0, 15, 0, 0, time.UTC) // 09:15 in Tokyo
	rec, err := f.svc.Apply(context.Background(), employee, domain.Punch{Action: domain.ActionClockIn, At: &at})
	require.NoError(t, err)
	assert.Equal(t, "09:15", *rec.ClockIn)
}

func TestClock_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  []domain.ActionKind
		action domain.ActionKind
		status int
	}{
		{"clock in twice", []domain.ActionKind{domain.ActionClockIn}, domain.ActionClockIn, http.StatusConflict},
		{"clock out twice", []domain.ActionKind{domain.ActionClockIn, domain.ActionClockOut}, domain.ActionClockOut, http.StatusConflict},
		{"break without clock in", nil, domain.ActionBreakStart, http.StatusBadRequest},
		{"break while on break", []domain.ActionKind{domain.ActionClockIn, domain.ActionBreakStart}, domain.ActionBreakStart, http.StatusConflict},
		{"break end without break", []domain.ActionKind{domain.ActionClockIn}, domain.ActionBreakEnd, http.StatusBadRequest},
		{"break end twice", []domain.ActionKind{domain.ActionClockIn, domain.ActionBreakStart, domain.ActionBreakEnd}, domain.ActionBreakEnd, http.StatusBadRequest},
		{"not a punch", nil, domain.ActionCreate, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClockFixture(tokyo(2024, 5, 2, 9, 0))
			for _, action := range tt.setup {
				_, err := f.punch(t, action)
				require.NoError(t, err)
			}
			before := len(f.events.Events())

			_, err := f.punch(t, tt.action)
			assertStatus(t, err, tt.status)
			assert.Len(t, f.events.Events(), before, "no event on failure")
		})
	}
}

func TestClock_FailedPunchDoesNotCreateRecord(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 9, 0))

	_, err := f.punch(t, domain.ActionBreakStart)
	assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, 0, f.records.Len())
}

func TestClock_BreakRestartClearsEnd(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 9, 0))
	for _, a := range []domain.ActionKind{domain.ActionClockIn, domain.ActionBreakStart, domain.ActionBreakEnd} {
		_, err := f.punch(t, a)
		require.NoError(t, err)
	}

	f.now = tokyo(2024, 5, 2, 15, 0)
	rec, err := f.punch(t, domain.ActionBreakStart)
	require.NoError(t, err)
	assert.Equal(t, "15:00", *rec.BreakStart)
	assert.Nil(t, rec.BreakEnd)
	assert.Nil(t, rec.BreakMinutes)
}

func TestClock_PunchNeedsEmployee(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 9, 0))
	_, err := f.svc.Apply(context.Background(), admin, domain.Punch{Action: domain.ActionClockIn})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Apply(context.Background(), nil, domain.Punch{Action: domain.ActionClockIn})
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestClock_PublishFailureDoesNotFail(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 2, 9, 0))
	f.events.Err = assert.AnError

	rec, err := f.punch(t, domain.ActionClockIn)
	require.NoError(t, err)
	assert.NotNil(t, rec.ClockIn)
}

func TestClock_Create(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 10, 9, 0))

	rec, err := f.svc.Apply(context.Background(), employee, domain.CreateRecord{
		EmployeeID: "e2", // ignored for employees
		Date:       day("2024-05-03"),
		ClockIn:    testutil.PtrString("9:00"),
		ClockOut:   testutil.PtrString("18:00"),
		BreakStart: testutil.PtrString("12:00"),
		BreakEnd:   testutil.PtrString("13:00"),
		Note:       testutil.PtrString(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", rec.EmployeeID)
	assert.Equal(t, 60, *rec.BreakMinutes)
	assert.Nil(t, rec.Note)
	f.events.AssertEventPublished(t, messaging.EventRecordCreated)

	_, err = f.svc.Apply(context.Background(), employee, domain.CreateRecord{Date: day("2024-05-03")})
	assertStatus(t, err, http.StatusConflict)
}

func TestClock_CreateInvalidBreakWindowIsZero(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 10, 9, 0))

	rec, err := f.svc.Apply(context.Background(), admin, domain.CreateRecord{
		EmployeeID: "e2",
		Date:       day("2024-05-03"),
		BreakStart: testutil.PtrString("13:00"),
		BreakEnd:   testutil.PtrString("12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "e2", rec.EmployeeID)
	assert.Equal(t, 0, *rec.BreakMinutes)
}

func TestClock_CreateNeedsTarget(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 10, 9, 0))

	_, err := f.svc.Apply(context.Background(), admin, domain.CreateRecord{Date: day("2024-05-03")})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Apply(context.Background(), employee, domain.CreateRecord{})
	assertStatus(t, err, http.StatusBadRequest)
}

func seedRecord(f *clockFixture, r *domain.Record) *domain.Record {
	r.ID = "r1"
	f.records.Add(r)
	return r
}

func TestClock_Update(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 10, 9, 0))
	seedRecord(f, testutil.WithBreak(testutil.RecordFixture("e1", "2024-05-03", "9:00", "18:00"), "12:00", "13:00", 60))

	rec, err := f.svc.Apply(context.Background(), employee, domain.UpdateRecord{
		RecordID:   "r1",
		ClockOut:   testutil.PtrString("19:00"),
		BreakStart: testutil.PtrString("12:30"),
		Note:       testutil.PtrString("forgot to punch"),
	})
	require.NoError(t, err)
	assert.Equal(t, "9:00", *rec.ClockIn)
	assert.Equal(t, "19:00", *rec.ClockOut)
	assert.Equal(t, 30, *rec.BreakMinutes)
	assert.Equal(t, "forgot to punch", *rec.Note)
	f.events.AssertEventPublished(t, messaging.EventRecordUpdated)

	stored, err := f.records.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "19:00", *stored.ClockOut)
}

func TestClock_UpdateClearsFields(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 10, 9, 0))
	seedRecord(f, testutil.WithBreak(testutil.RecordFixture("e1", "2024-05-03", "9:00", "18:00"), "12:00", "13:00", 60))

	rec, err := f.svc.Apply(context.Background(), admin, domain.UpdateRecord{
		RecordID:   "r1",
		ClockOut:   testutil.PtrString(""),
		BreakStart: testutil.PtrString(""),
		BreakEnd:   testutil.PtrString(""),
	})
	require.NoError(t, err)
	assert.Nil(t, rec.ClockOut)
	assert.Nil(t, rec.BreakStart)
	assert.Nil(t, rec.BreakMinutes)
}

func TestClock_UpdateRejections(t *testing.T) {
	tests := []struct {
		name   string
		who    *actor.Actor
		update domain.UpdateRecord
		status int
	}{
		{"other employee", other, domain.UpdateRecord{RecordID: "r1"}, http.StatusForbidden},
		{"missing record", employee, domain.UpdateRecord{RecordID: "nope"}, http.StatusNotFound},
		{"no record id", employee, domain.UpdateRecord{}, http.StatusBadRequest},
		{"clock out before clock in", employee, domain.UpdateRecord{RecordID: "r1", ClockOut: testutil.PtrString("8:00")}, http.StatusBadRequest},
		{"clock out inside break", employee, domain.UpdateRecord{RecordID: "r1", ClockOut: testutil.PtrString("12:30")}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClockFixture(tokyo(2024, 5, 10, 9, 0))
			seedRecord(f, testutil.WithBreak(testutil.RecordFixture("e1", "2024-05-03", "9:00", "18:00"), "12:00", "13:00", 60))

			_, err := f.svc.Apply(context.Background(), tt.who, tt.update)
			assertStatus(t, err, tt.status)
			f.events.AssertNoEventsPublished(t)
		})
	}
}

func TestClock_UpdateClockOutAtBreakBoundary(t *testing.T) {
	f := newClockFixture(tokyo(2024, 5, 10, 9, 0))
	seedRecord(f, testutil.WithBreak(testutil.RecordFixture("e1", "2024-05-03", "9:00", "18:00"), "12:00", "13:00", 60))

	_, err := f.svc.Apply(context.Background(), employee, domain.UpdateRecord{RecordID: "r1", ClockOut: testutil.PtrString("13:00")})
	require.NoError(t, err)
}
