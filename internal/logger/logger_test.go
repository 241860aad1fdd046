package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_EmitsJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, log.DebugLevel)

	l.Info().Str("asset", "SPY").Str("status", "BULL").Msg("status changed")

	out := buf.String()
	assert.Contains(t, out, `"asset":"SPY"`)
	assert.Contains(t, out, `"status":"BULL"`)
	assert.Contains(t, out, "status changed")
}

func TestNewWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, log.WarnLevel)

	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "timing.log")
	l, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, log.DebugLevel, l.Level)
}

func TestNop(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	l.Error().Msg("discarded")
}
