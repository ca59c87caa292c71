package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestSetupJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", true, &buf)

	Logger.Info().Str("k", "v").Msg("hello")

	entry := lastLine(t, &buf)
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "time")
}

func TestSetupLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Setup("warn", true, &buf)

	Logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Logger.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup("chatty", true, &buf)

	Logger.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())

	Logger.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	Setup("debug", true, &buf)

	dispatcherLogger := Component("dispatcher")
	dispatcherLogger.Info().Msg("ready")

	entry := lastLine(t, &buf)
	assert.Equal(t, "dispatcher", entry["component"])
}

func TestForTickField(t *testing.T) {
	var buf bytes.Buffer
	Setup("debug", true, &buf)

	tickLogger := ForTick(Component("engine"), 42)
	tickLogger.Debug().Msg("tick")

	entry := lastLine(t, &buf)
	assert.Equal(t, float64(42), entry["vtime"])
	assert.Equal(t, "engine", entry["component"])
}

func TestEventRejectedShape(t *testing.T) {
	var buf bytes.Buffer
	Setup("warn", true, &buf)

	EventRejected(Component("engine"), 7, 2, "TASK_WARP", errors.New("unknown action"))

	entry := lastLine(t, &buf)
	assert.Equal(t, "event rejected", entry["message"])
	assert.Equal(t, float64(7), entry["vtime"])
	assert.Equal(t, float64(2), entry["index"])
	assert.Equal(t, "TASK_WARP", entry["action"])
	assert.Equal(t, "unknown action", entry["error"])
}
