package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, zapcore.InfoLevel, FormatJSON)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("Plan optimized", zap.Int("rules_fired", 3))
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Plan optimized", entry["msg"])
	assert.EqualValues(t, 3, entry["rules_fired"])

	buf.Reset()
	log, err = New(&buf, zapcore.DebugLevel, FormatLogfmt)
	require.NoError(t, err)
	log.Debug("Rule fired", zap.String("rule", "merge filters"))
	assert.Contains(t, buf.String(), `rule="merge filters"`)

	buf.Reset()
	log, err = New(&buf, zapcore.WarnLevel, FormatConsole)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("Optimization failed")
	assert.Contains(t, buf.String(), "Optimization failed")
	assert.NotContains(t, buf.String(), "hidden")

	_, err = New(&buf, zapcore.InfoLevel, "xml")
	assert.Error(t, err)
}
