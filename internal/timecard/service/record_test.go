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
	"github.com/timecard/timecard-backend/pkg/testutil"
)

func newRecordFixture() (*RecordService, *testutil.MemRecordStore) {
	records := &testutil.MemRecordStore{}
	for _, d := range []string{"2024-05-01", "2024-05-10", "2024-05-20", "2024-05-24"} {
		records.Add(testutil.RecordFixture("e1", d, "9:00", "17:00"))
	}
	records.Add(testutil.RecordFixture("e2", "2024-05-23", "9:00", "17:00"))

	svc := NewRecordService(records)
	svc.now = func() time.Time { return tokyo(2024, 5, 24, 8, 0) }
	return svc, records
}

func dates(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Date.String()
	}
	return out
}

func TestMyRecords_DefaultWindow(t *testing.T) {
	svc, _ := newRecordFixture()

	got, err := svc.MyRecords(context.Background(), employee, nil, nil, 0)
	require.NoError(t, err)
	// 14 days ending today: 05-11 through 05-24
	assert.Equal(t, []string{"2024-05-24", "2024-05-20"}, dates(got))
}

func TestMyRecords_Days(t *testing.T) {
	svc, _ := newRecordFixture()

	got, err := svc.MyRecords(context.Background(), employee, nil, nil, 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-24", "2024-05-20", "2024-05-10"}, dates(got))
}

func TestMyRecords_ExplicitBounds(t *testing.T) {
	svc, _ := newRecordFixture()

	got, err := svc.MyRecords(context.Background(), employee, dayp("2024-05-01"), dayp("2024-05-10"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-10", "2024-05-01"}, dates(got))

	// end only: days counted back from end
	got, err = svc.MyRecords(context.Background(), employee, nil, dayp("2024-05-10"), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-10", "2024-05-01"}, dates(got))
}

func TestMyRecords_NeedsEmployee(t *testing.T) {
	svc, _ := newRecordFixture()

	_, err := svc.MyRecords(context.Background(), &actor.Actor{UserID: "u", Role: actor.RoleAdmin}, nil, nil, 0)
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = svc.MyRecords(context.Background(), nil, nil, nil, 0)
	assertStatus(t, err, http.StatusUnauthorized)
}
