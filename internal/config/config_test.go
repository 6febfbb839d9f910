package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarhanLodi/EasyOcrSharp/internal/ocr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"en"}, cfg.Languages)
	assert.Equal(t, ocr.GPUAuto, cfg.GPU.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad gpu mode", func(c *Config) { c.GPU.Mode = "maybe" }},
		{"negative gpu device", func(c *Config) { c.GPU.Device = -1 }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAllowsEmptyOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = ""
	assert.NoError(t, cfg.Validate())
}

func TestToServiceConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TessdataDir = "/opt/tessdata"
	cfg.GPU.Mode = ocr.GPUOff

	svcCfg := cfg.ToServiceConfig()
	assert.Equal(t, "/opt/tessdata", svcCfg.TessdataDir)
	assert.Equal(t, ocr.GPUOff, svcCfg.GPUMode)
}
