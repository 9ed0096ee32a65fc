package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNew_WritesBaseAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{App: "timeclock", Version: "v1.0.0", Env: "test", Level: "info"})

	log.Info("clock accepted", slog.String("employee_id", "emp-1"))
	log.Debug("dropped")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "timeclock", entry["app"])
	assert.Equal(t, "v1.0.0", entry["version"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "emp-1", entry["employee_id"])
}
