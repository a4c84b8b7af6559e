/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	os.Unsetenv("AWS_REGION")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "variants.yaml", cfg.CatalogPath)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("AWS_DDB_TABLE", "")
	os.Unsetenv("AWS_DDB_TABLE")
	t.Setenv("VARIANT_CATALOG", "from-env.yaml")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AWS_DDB_TABLE=loadouts\nVARIANT_CATALOG=from-file.yaml\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("AWS_DDB_TABLE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "loadouts", cfg.TableName)
	assert.Equal(t, "from-env.yaml", cfg.CatalogPath, "environment wins over the file")
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{AWSRegion: "eu-west-1"}
	assert.Error(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
