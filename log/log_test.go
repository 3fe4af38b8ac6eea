package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
	assert.True(t, ValidLevel("trace"))
	assert.False(t, ValidLevel("verbose"))
}

func TestJSONLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewJSONLogger(&buf, "debug"))
	defer SetLogger(zerolog.Nop())

	Network.Debug().Str("method", "listunspent").Msg("rpc call")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "network", entry["component"])
	assert.Equal(t, "listunspent", entry["method"])
	assert.Equal(t, "rpc call", entry["message"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewJSONLogger(&buf, "warn"))
	defer SetLogger(zerolog.Nop())

	Engine.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	Engine.Warn().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.log")
	require.NoError(t, Init("info", true, path))
	defer SetLogger(zerolog.Nop())

	logger := WithWallet("alice")
	logger.Info().Msg("action finished")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"wallet":"alice"`)
	assert.Contains(t, string(data), `"component":"engine"`)
}
