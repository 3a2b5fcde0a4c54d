package logging

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	config := DefaultConfig()
	config.File = filepath.Join(t.TempDir(), "app.log")
	l, err := New(config)
	require.NoError(t, err)

	l.Info("hello")
	l.Debug("hidden")
	_ = l.Sync()

	content, err := os.ReadFile(config.File)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "\"msg\":\"hello\""))
	assert.False(t, strings.Contains(string(content), "hidden"))
}

func TestNewInvalidLevel(t *testing.T) {
	config := DefaultConfig()
	config.Level = "verbose"
	_, err := New(config)
	assert.Error(t, err)
}
