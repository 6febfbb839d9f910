package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"en"}, cfg.Languages)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easyocr.yaml")
	content := `
tessdata_dir: /opt/tessdata
log_level: debug
languages:
  - ja
  - en
server:
  port: 9090
gpu:
  mode: "off"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/tessdata", cfg.TessdataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"ja", "en"}, cfg.Languages)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "off", cfg.GPU.Mode)
	// Untouched keys keep their defaults.
	assert.Equal(t, 50, cfg.Server.MaxUploadMB)
}

func TestLoadWithFileMissing(t *testing.T) {
	loader := NewLoaderWithViper(viper.New())
	_, err := loader.LoadWithFile("/nonexistent/easyocr.yaml")
	assert.Error(t, err)
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easyocr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: trace\n"), 0o644))

	loader := NewLoaderWithViper(viper.New())
	_, err := loader.LoadWithFile(path)
	assert.ErrorContains(t, err, "invalid log level")
}

func TestLoadEnvironmentOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("EASYOCR_LOG_LEVEL", "warn")
	t.Setenv("EASYOCR_SERVER_PORT", "9999")

	loader := NewLoaderWithViper(viper.New())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/easyocr")
}
