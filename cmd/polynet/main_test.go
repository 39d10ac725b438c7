package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/polynet/cmd/polynet/internal/config"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRender_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "network.svg")
	_, stderr, err := run(t, "render", "-o", path, "--seed", "1", "--sides", "4")
	require.NoError(t, err)
	assert.Contains(t, stderr, "4 sides, 6 edges")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, `<svg width="800.00" height="800.00"`)
	assert.Equal(t, 4, strings.Count(svg, "<circle"))
	assert.Equal(t, 6, strings.Count(svg, "<line"))
}

func TestRender_StdoutDeterministic(t *testing.T) {
	first, _, err := run(t, "render", "-o", "-", "--seed", "42")
	require.NoError(t, err)
	second, _, err := run(t, "render", "-o", "-", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 6, strings.Count(first, "<circle"))
}

func TestRender_SidesClampedToConfig(t *testing.T) {
	out, _, err := run(t, "render", "-o", "-", "--seed", "1", "--sides", "50")
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(out, "<circle"))
}

func TestRender_UsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "polynet.toml")
	cfg := config.DefaultConfig()
	cfg.Diagram.Sides = 3
	cfg.Diagram.Colors.Background = "#123456"
	require.NoError(t, config.Save(cfg, cfgPath))

	out, _, err := run(t, "render", "--config", cfgPath, "-o", "-", "--seed", "1")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "<circle"))
	assert.Contains(t, out, `fill="#123456"`)
}

func TestConfigErrors(t *testing.T) {
	_, _, err := run(t, "render", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "-o", "-")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "render", "--log-level", "loud", "-o", "-")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestServe_RejectsBadPort(t *testing.T) {
	_, _, err := run(t, "serve", "--port", "0")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
