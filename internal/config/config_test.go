package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, LogLevelError, cfg.AutomationLogLevel)
	assert.False(t, cfg.AllowLocalHooks)
	assert.Equal(t, EditionCommunity, cfg.Edition)
	assert.Equal(t, 30, cfg.HookTimeoutSeconds)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NC_AUTOMATION_LOG_LEVEL", "ALL")
	t.Setenv("NC_ALLOW_LOCAL_HOOKS", "true")
	t.Setenv("NC_EDITION", "cloud")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, LogLevelAll, cfg.AutomationLogLevel)
	assert.True(t, cfg.AllowLocalHooks)
	assert.Equal(t, EditionCloud, cfg.Edition)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nocodb.yaml")
	content := []byte(`
automation_log_level: ALL
hook_timeout_seconds: 10
logger:
  level: debug
filestore:
  endpoint: localhost:9000
  default_bucket: attachments
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LogLevelAll, cfg.AutomationLogLevel)
	assert.Equal(t, 10, cfg.HookTimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "localhost:9000", cfg.Filestore.Endpoint)
	assert.Equal(t, "attachments", cfg.Filestore.DefaultBucket)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nocodb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("automation_log_level: ALL\n"), 0o644))

	t.Setenv("NC_AUTOMATION_LOG_LEVEL", "OFF")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LogLevelOff, cfg.AutomationLogLevel)
}

func TestNormalize_UnknownValuesFallBack(t *testing.T) {
	cfg := &Config{
		AutomationLogLevel: "verbose",
		Edition:            "enterprise",
		HookTimeoutSeconds: -1,
	}
	cfg.normalize()

	assert.Equal(t, LogLevelError, cfg.AutomationLogLevel)
	assert.Equal(t, EditionCommunity, cfg.Edition)
	assert.Equal(t, 30, cfg.HookTimeoutSeconds)
}
