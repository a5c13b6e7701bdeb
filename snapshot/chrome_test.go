package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/config"
	"vehicle-dashboard/utils"
)

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	assert.Equal(t, "/custom/chrome", findChromeBinary("/custom/chrome"))
}

func TestNewUsesConfiguredBrowser(t *testing.T) {
	cfg := &config.Config{ChromeBin: "/custom/chrome", MaxRetries: 2}
	c := New(cfg, utils.NewNopLogger())

	assert.Equal(t, "/custom/chrome", c.chromeBin)
	assert.Equal(t, "/custom/chrome", c.browserName())
	assert.Equal(t, 2, c.retry.MaxAttempts)
}

func TestWriteImageCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dashboard.png")

	require.NoError(t, writeImage(path, []byte("\x89PNG")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), got)
}

func TestWriteImageRejectsEmpty(t *testing.T) {
	err := writeImage(filepath.Join(t.TempDir(), "x.png"), nil)
	assert.Error(t, err)
}
