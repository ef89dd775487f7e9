package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFormats(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Format: "json", Writer: buf})
	require.NoError(t, err)
	logger.Named("stream").Info("done", zap.Int("accepted", 3))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "done", entry["msg"])
	require.Equal(t, "stream", entry["name"])
	require.Equal(t, float64(3), entry["accepted"])

	buf.Reset()
	logger, err = New(Config{Format: "logfmt", Writer: buf})
	require.NoError(t, err)
	logger.Info("done", zap.Int("accepted", 3))
	require.Contains(t, buf.String(), "msg=done")
	require.Contains(t, buf.String(), "accepted=3")

	buf.Reset()
	logger, err = New(Config{Writer: buf})
	require.NoError(t, err)
	logger.Info("done")
	require.Contains(t, buf.String(), "INFO")
}

func TestNewLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "WARN", Format: "json", Writer: buf})
	require.NoError(t, err)
	logger.Info("hidden")
	require.Zero(t, buf.Len())
	logger.Warn("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNewErrors(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.ErrorContains(t, err, `invalid log level "chatty"`)
	_, err = New(Config{Format: "xml"})
	require.EqualError(t, err, `unknown log format "xml"`)
}
