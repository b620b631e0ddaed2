package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration errors: a run aborts before reading the log.
var ErrInvalid = errors.New("invalid configuration")

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Read parses a configuration file over the defaults and applies the
// environment overrides without validating, so callers can merge
// command-line flags first.
func Read(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.ApplyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and fills defaulted fields.
// Every returned error wraps ErrInvalid.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.LogFile) == "" {
		return fmt.Errorf("%w: log_file is required", ErrInvalid)
	}

	dialect, err := canonicalDialect(cfg.Dialect)
	if err != nil {
		return err
	}
	cfg.Dialect = dialect

	if cfg.Domains < DomainsAuto {
		return fmt.Errorf("%w: domains must be a non-negative integer or auto, got %d", ErrInvalid, cfg.Domains)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("%w: webhooks[%d] (%s): %w", ErrInvalid, i, name, err)
		}
	}

	return nil
}

// canonicalDialect maps a dialect name or its numeric alias to the canonical name.
func canonicalDialect(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mentat", "1":
		return "mentat", nil
	case "patran", "2":
		return "patran", nil
	default:
		return "", fmt.Errorf("%w: dialect %q (must be mentat, patran, 1 or 2)", ErrInvalid, s)
	}
}

// ScriptPath returns the selection script path, defaulting to
// check_analysis plus ext.
func (c *Config) ScriptPath(ext string) string {
	if c.Output.Script != "" {
		return c.Output.Script
	}
	return DefaultScriptBase + ext
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
		default:
			return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnIssues
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// ValidateWebhook validates a single webhook built from command-line flags.
func ValidateWebhook(wh *WebhookConfig) error {
	if err := validateWebhook(wh); err != nil {
		return fmt.Errorf("%w: webhook: %w", ErrInvalid, err)
	}
	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
