package logutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := SetupLogger(&LoggingOpts{JSON: true, Service: "fyrelay", Version: "v1", Output: &buf})
	log.Debug("hidden")
	log.Info("shown", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "shown", line["msg"])
	require.Equal(t, "fyrelay", line["service"])
	require.Equal(t, "v1", line["version"])
}

func TestSetupLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	log := SetupLogger(&LoggingOpts{Debug: true, Output: &buf})
	log.Debug("visible")
	require.Contains(t, buf.String(), "visible")
	require.NotContains(t, buf.String(), "service=")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
}
