package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitchain/internal/constants"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { _ = Close(); Logger = nil })

	require.NoError(t, Init(Config{ConfigDir: configDir}))
	require.NotNil(t, Logger)

	logDir := filepath.Join(configDir, constants.LogDirName)
	info, err := os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	Debug("hidden below warn level")
	Warn("disk almost full", "free_mb", 12)
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(logDir, constants.LogFileName))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "disk almost full")
	assert.Contains(t, out, "free_mb=12")
	assert.False(t, strings.Contains(out, "hidden below warn level"))
}

func TestInit_Debug(t *testing.T) {
	configDir := t.TempDir()
	t.Cleanup(func() { _ = Close(); Logger = nil })

	require.NoError(t, Init(Config{Debug: true, ConfigDir: configDir}))
	Debug("visible in debug mode")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(configDir, constants.LogDirName, constants.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible in debug mode")
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, func() {
		Debug("debug")
		Info("info")
		Warn("warn")
		Error("error")
	})
	assert.NoError(t, Close())
}

func TestInit_UnwritableDirectory(t *testing.T) {
	// A regular file where the log directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := Init(Config{ConfigDir: blocker})
	assert.Error(t, err)
}
