package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, getLogLevel(in), in)
	}
}

func TestLogReservationCreated(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info", true)

	l.WithRequestID("req-1").LogReservationCreated(context.Background(), "res-1", "user-1", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Reservation Created", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "res-1", entry["reservation_id"])
	assert.EqualValues(t, 3, entry["tickets"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn", true)

	l.LogSeatConflict(context.Background(), "perf-1", 1, 1, "taken")
	assert.Empty(t, buf.String())

	l.LogReservationRetry(context.Background(), "user-1", 2, errors.New("lock busy"))
	assert.Contains(t, buf.String(), "lock busy")
}
