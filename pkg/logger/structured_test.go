package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLine(t *testing.T, write func()) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	write()

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	return line
}

func TestWithUsername_ChainedEvent(t *testing.T) {
	line := captureLine(t, func() {
		WithUsername("mei").Info().Str("role", "admin").Msg("admin logged in")
	})

	assert.Equal(t, "mei", line["admin"])
	assert.Equal(t, "admin", line["role"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "admin logged in", line["message"])
	assert.Equal(t, "olagu-console", line["service"])
}

func TestWithRequestID_ChainedEvent(t *testing.T) {
	line := captureLine(t, func() {
		WithRequestID("req-1").Warn().Int("status", 404).Msg("request")
	})

	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "warn", line["level"])
	assert.EqualValues(t, 404, line["status"])
}
