// Package config loads platform configuration from defaults, an optional
// YAML file, and NC_-prefixed environment variables, in that order, each
// layer overriding the previous one.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smndtrl/nocodb/internal/errs"
)

// AutomationLogLevel controls which hook invocations are persisted to the
// hook log store.
type AutomationLogLevel string

const (
	// LogLevelOff disables hook logging entirely.
	LogLevelOff AutomationLogLevel = "OFF"

	// LogLevelError logs only failed invocations. This is the default.
	LogLevelError AutomationLogLevel = "ERROR"

	// LogLevelAll logs every invocation, successful or not.
	LogLevelAll AutomationLogLevel = "ALL"
)

// Edition distinguishes a self-hosted deployment from the managed cloud one.
// It only affects operator-facing error message wording.
type Edition string

const (
	EditionCommunity Edition = "community"
	EditionCloud     Edition = "cloud"
)

// Config is the full platform configuration.
type Config struct {
	// AutomationLogLevel gates hook-log persistence.
	// Env: NC_AUTOMATION_LOG_LEVEL (ERROR | ALL | OFF).
	AutomationLogLevel AutomationLogLevel `koanf:"automation_log_level"`

	// AllowLocalHooks disables the SSRF guard on outbound webhook targets.
	// Env: NC_ALLOW_LOCAL_HOOKS ("true" to allow private addresses).
	AllowLocalHooks bool `koanf:"allow_local_hooks"`

	// Edition selects error-message wording for SSRF rejections.
	// Env: NC_EDITION.
	Edition Edition `koanf:"edition"`

	// HookTimeoutSeconds is the hard deadline for one outbound HTTP delivery.
	HookTimeoutSeconds int `koanf:"hook_timeout_seconds"`

	Logger    LoggerConfig    `koanf:"logger"`
	Filestore FilestoreConfig `koanf:"filestore"`
}

// LoggerConfig mirrors logger.Config for file/env-driven setup.
type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// FilestoreConfig configures the attachment object store.
type FilestoreConfig struct {
	Endpoint      string `koanf:"endpoint"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	UseSSL        bool   `koanf:"use_ssl"`
	DefaultBucket string `koanf:"default_bucket"`
}

// defaults is the base configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"automation_log_level": string(LogLevelError),
		"allow_local_hooks":    false,
		"edition":              string(EditionCommunity),
		"hook_timeout_seconds": 30,
		"logger.level":         "info",
		"logger.format":        "json",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (skipped when path is empty), and NC_-prefixed environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "loading config defaults", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "loading config file "+path, err)
		}
	}

	// NC_AUTOMATION_LOG_LEVEL → automation_log_level, NC_LOGGER__LEVEL → logger.level
	envKey := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "NC_"))
		return strings.ReplaceAll(s, "__", ".")
	}
	if err := k.Load(env.Provider("NC_", ".", envKey), nil); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "loading config from environment", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "unmarshalling config", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	return &Config{
		AutomationLogLevel: LogLevelError,
		AllowLocalHooks:    false,
		Edition:            EditionCommunity,
		HookTimeoutSeconds: 30,
		Logger:             LoggerConfig{Level: "info", Format: "json"},
	}
}

// normalize canonicalizes enum-ish string fields so comparisons elsewhere
// can be exact.
func (c *Config) normalize() {
	switch AutomationLogLevel(strings.ToUpper(string(c.AutomationLogLevel))) {
	case LogLevelAll:
		c.AutomationLogLevel = LogLevelAll
	case LogLevelOff:
		c.AutomationLogLevel = LogLevelOff
	default:
		c.AutomationLogLevel = LogLevelError
	}

	if Edition(strings.ToLower(string(c.Edition))) == EditionCloud {
		c.Edition = EditionCloud
	} else {
		c.Edition = EditionCommunity
	}

	if c.HookTimeoutSeconds <= 0 {
		c.HookTimeoutSeconds = 30
	}
}
