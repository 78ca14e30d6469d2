package commands_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izvod-dev/izvod/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runIzvod(t, dir, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized izvod inbox")

	expectedDirs := []string{
		filepath.Join("inbox", "520"),
		filepath.Join("inbox", "540"),
		filepath.Join("inbox", "580"),
		"processed",
		"output",
		"logs",
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	assert.FileExists(t, filepath.Join(dir, ".env.example"))
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runIzvod(t, dir, "init", dir)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inbox"), cfg.Paths.Input)
	assert.Equal(t, time.Minute, cfg.Scan.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runIzvod(t, dir, "init", dir)
	require.NoError(t, err)

	out, err := runIzvod(t, dir, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runIzvod(t, dir, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_DefaultsToCurrentDir(t *testing.T) {
	dir := t.TempDir()
	_, err := runIzvod(t, dir, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.FileName))
}
