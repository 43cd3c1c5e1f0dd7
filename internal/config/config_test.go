package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 200, cfg.Extract.MinTextLen)
	assert.True(t, cfg.OCR.Enabled)
	assert.Equal(t, 2, cfg.OCR.PageCap)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STMTX_LOG_LEVEL", "debug")
	t.Setenv("STMTX_OCR_PAGE_CAP", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.OCR.PageCap)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "nonsense"
	cfg.Log.Format = "text"
	cfg.OCR.PageCap = 2
	require.Error(t, validate(cfg))

	cfg.Log.Level = "info"
	cfg.Log.Format = "xml"
	require.Error(t, validate(cfg))

	cfg.Log.Format = "json"
	cfg.OCR.PageCap = 0
	require.Error(t, validate(cfg))

	cfg.OCR.PageCap = 1
	require.NoError(t, validate(cfg))
}

func TestLoggerConfiguration(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := cfg.Logger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
