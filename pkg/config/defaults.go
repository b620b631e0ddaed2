package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultDialect        = "mentat"
	DefaultScriptBase     = "check_analysis"
	DefaultTyingFile      = "check_analysis_tying.proc"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvDialect = "OUTCHECK_DIALECT"
	EnvDomains = "OUTCHECK_DOMAINS"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Dialect: DefaultDialect,
		Output: OutputConfig{
			Tying: DefaultTyingFile,
		},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the
// config. Unparseable values are left for Validate to report.
func (c *Config) ApplyEnvironmentOverrides() error {
	if d := os.Getenv(EnvDialect); d != "" {
		c.Dialect = d
	}
	if s := os.Getenv(EnvDomains); s != "" {
		n, err := ParseDomains(s)
		if err != nil {
			return err
		}
		c.Domains = n
	}
	return nil
}
