package logger

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

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	Configure(Options{Level: "debug"})
	l := New("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	l.Event(zerolog.InfoLevel).Str("k", "v").Msg("structured")
}

func TestLoggerWritesComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("registry", &buf, zerolog.InfoLevel)
	l.Infof("dispatched %s", "TRP-001")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "dispatched TRP-001", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("quiet", &buf, zerolog.WarnLevel)
	l.Infof("hidden")
	assert.Zero(t, buf.Len())
	l.Warnf("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigureWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wastewise.log")
	Configure(Options{Level: "info", File: path})
	defer Configure(Options{Level: "info"})

	New("file").Infof("to disk")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to disk")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("nothing")
	l.Event(zerolog.ErrorLevel).Msg("nothing")
}
