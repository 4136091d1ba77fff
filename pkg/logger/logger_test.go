package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warning"))
	require.Equal(t, slog.LevelError, parseLevel(" error "))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
	require.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestJSONLoggerCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "", "info").Info("report ready", "zone", "TERRA PRIME")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "cosmo-uplink", line["service"])
	require.Equal(t, "TERRA PRIME", line["zone"])
}

func TestTextLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "text", "warn")
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	require.False(t, strings.Contains(out, "hidden"))
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "service=cosmo-uplink")
}
