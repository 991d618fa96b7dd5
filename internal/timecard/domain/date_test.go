package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesBusinessZone(t *testing.T) {
	// 2024-03-31 16:30 UTC is already April 1st in Tokyo.
	utc := time.Date(2024, 3, 31, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-04-01", DateOf(utc).String())
}

func TestDate_MonthBounds(t *testing.T) {
	d := NewDate(2024, time.February, 15)
	assert.Equal(t, "2024-02-01", d.StartOfMonth().String())
	assert.Equal(t, "2024-02-29", d.EndOfMonth().String())
	assert.Equal(t, "2024-03-01", d.AddDays(15).String())
	assert.Equal(t, "2024-02-02", d.AddDays(-13).String())
	assert.Equal(t, 15, d.DaysUntil(d.AddDays(15)))
}

func TestDate_JSON(t *testing.T) {
	var r struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-01"}`), &r))
	assert.True(t, r.Date.Equal(NewDate(2024, time.May, 1)))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-01"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"05/01/2024"}`), &r))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-01", d.String())
	assert.Equal(t, Location, d.Location())

	require.NoError(t, d.Scan([]byte("2024-06-30T00:00:00Z")))
	assert.Equal(t, "2024-06-30", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2024, 1, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v)
}

func TestRecord_State(t *testing.T) {
	in, start, empty := "09:00", "12:00", ""
	r := Record{ClockIn: &in, BreakStart: &start, BreakEnd: &empty}

	assert.True(t, r.HasClockIn())
	assert.False(t, r.HasClockOut())
	assert.True(t, r.OnBreak())
}

func TestParseMonth(t *testing.T) {
	for _, in := range []string{"2024-05", "2024-05-17", "2024-05-01"} {
		m, err := ParseMonth(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2024-05-01", m.String(), in)
	}

	_, err := ParseMonth("May 2024")
	assert.Error(t, err)
	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
}
