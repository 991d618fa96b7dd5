package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_AttachesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("timecard-service", &buf).
		WithRequestID("req-1").
		WithEmployeeID("emp-1").
		WithComponent("clock").
		WithError(errors.New("boom"))

	log.Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "timecard-service", line["service"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "emp-1", line["employee_id"])
	assert.Equal(t, "clock", line["component"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "hello", line["message"])
}

func TestNop_WritesNothing(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error().Msg("discarded")
	})
}
