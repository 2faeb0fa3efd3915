package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSlogLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLoggerTo(&buf, slog.LevelInfo, "json")

	logger.Debug("hidden")
	logger.Info("Job registered", "job_id", "job_1_0001")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Job registered", record["msg"])
	assert.Equal(t, "job_1_0001", record["job_id"])
	assert.Equal(t, "INFO", record["level"])
}

func TestSlogLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLoggerTo(&buf, slog.LevelDebug, "text")

	logger.Warn("Dropping event", "type", "JOB_SET_NUM_REDUCES")

	line := buf.String()
	assert.True(t, strings.Contains(line, "level=WARN"))
	assert.True(t, strings.Contains(line, `msg="Dropping event"`))
	assert.True(t, strings.Contains(line, "type=JOB_SET_NUM_REDUCES"))
}
