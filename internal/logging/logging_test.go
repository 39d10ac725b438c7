package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("rendered", "sides", 6)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rendered", line["msg"])
	assert.EqualValues(t, 6, line["sides"])
}

func TestNew_BadFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "polynet.log")
	var console bytes.Buffer
	logger, cleanup, err := Setup(&console, slog.LevelInfo, "json", path)
	require.NoError(t, err)

	logger.Info("hello")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Equal(t, string(data), console.String())
}

func TestSetup_FileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	logger, cleanup, err := Setup(nil, slog.LevelDebug, "text", path)
	require.NoError(t, err)

	logger.Debug("quiet")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=quiet")
}

func TestSetup_Nowhere(t *testing.T) {
	logger, cleanup, err := Setup(nil, slog.LevelInfo, "text", "")
	require.NoError(t, err)
	defer cleanup()
	logger.Info("dropped")
}
