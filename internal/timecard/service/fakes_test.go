package service

import (
	"testing"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/events"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/logger"
	"github.com/timecard/timecard-backend/pkg/testutil"
)

var (
	admin    = &actor.Actor{UserID: "u-admin", Role: actor.RoleAdmin}
	employee = &actor.Actor{UserID: "u-1", Role: actor.RoleEmployee, EmployeeID: "e1"}
	other    = &actor.Actor{UserID: "u-2", Role: actor.RoleEmployee, EmployeeID: "e2"}
)

// tokyo returns an instant in the business zone.
func tokyo(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, domain.Location)
}

func day(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayp(s string) *domain.Date {
	d := day(s)
	return &d
}

func newPublisher() (*testutil.MockPublisher, *events.TimecardEventPublisher) {
	mock := testutil.NewMockPublisher()
	return mock, events.New(mock, logger.Nop())
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError with status %d, got %v", status, err)
	}
	if appErr.StatusCode != status {
		t.Fatalf("expected status %d, got %d (%s)", status, appErr.StatusCode, appErr.Message)
	}
}
