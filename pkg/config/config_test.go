package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
log_file: 1ddm_job1.out
dialect: patran
domains: 4
scan_only: true
timing_details: true
output:
  report: job1_check.txt
  script: groups.ses
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogFile != "1ddm_job1.out" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.Dialect != "patran" {
		t.Errorf("Dialect = %q, want patran", cfg.Dialect)
	}
	if cfg.Domains != 4 {
		t.Errorf("Domains = %v, want 4", cfg.Domains)
	}
	if !cfg.ScanOnly || !cfg.TimingDetails {
		t.Errorf("ScanOnly = %v, TimingDetails = %v, want both true", cfg.ScanOnly, cfg.TimingDetails)
	}
	if cfg.Output.Report != "job1_check.txt" {
		t.Errorf("Output.Report = %q", cfg.Output.Report)
	}
	if got := cfg.ScriptPath(".ses"); got != "groups.ses" {
		t.Errorf("ScriptPath() = %q, want groups.ses", got)
	}
	if cfg.Output.Tying != DefaultTyingFile {
		t.Errorf("Output.Tying = %q, want default", cfg.Output.Tying)
	}
}

func TestLoad_DomainsAuto(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "log_file: 1ddm_job1.out\ndomains: auto\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Domains != DomainsAuto {
		t.Errorf("Domains = %v, want auto", cfg.Domains)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_BadDomains(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "log_file: job.out\ndomains: many\n")
	_, err := Load(context.Background(), path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvDialect, "2")
	t.Setenv(EnvDomains, "3")

	path := writeTempFile(t, "config.yaml", "log_file: 1job.out\ndialect: mentat\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dialect != "patran" {
		t.Errorf("Dialect = %q, want patran from environment", cfg.Dialect)
	}
	if cfg.Domains != 3 {
		t.Errorf("Domains = %v, want 3 from environment", cfg.Domains)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantDialect string
		wantErr     bool
	}{
		{name: "defaults", cfg: Config{LogFile: "job.out"}, wantDialect: "mentat"},
		{name: "numeric mentat", cfg: Config{LogFile: "job.out", Dialect: "1"}, wantDialect: "mentat"},
		{name: "numeric patran", cfg: Config{LogFile: "job.out", Dialect: "2"}, wantDialect: "patran"},
		{name: "missing log file", cfg: Config{Dialect: "mentat"}, wantErr: true},
		{name: "bad dialect", cfg: Config{LogFile: "job.out", Dialect: "3"}, wantErr: true},
		{name: "bad domains", cfg: Config{LogFile: "job.out", Domains: -7}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := Validate(&cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() error = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if cfg.Dialect != tt.wantDialect {
				t.Errorf("Dialect = %q, want %q", cfg.Dialect, tt.wantDialect)
			}
		})
	}
}

func TestParseDomains(t *testing.T) {
	tests := []struct {
		in      string
		want    Domains
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "4", want: 4},
		{in: "auto", want: DomainsAuto},
		{in: "AUTO", want: DomainsAuto},
		{in: "-1", wantErr: true},
		{in: "four", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDomains(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("ParseDomains(%q) error = %v, want ErrInvalid", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDomains(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dialect != DefaultDialect {
		t.Errorf("Dialect = %q, want %q", cfg.Dialect, DefaultDialect)
	}
	if got := cfg.ScriptPath(".proc"); got != "check_analysis.proc" {
		t.Errorf("ScriptPath() = %q, want check_analysis.proc", got)
	}
}

// ============================================================================
// Webhook Validation Tests
// ============================================================================

func validConfig(webhooks ...WebhookConfig) *Config {
	return &Config{
		LogFile:  "job1.out",
		Dialect:  "mentat",
		Webhooks: webhooks,
	}
}

func TestValidate_Webhook_Valid(t *testing.T) {
	cfg := validConfig(WebhookConfig{
		Name:    "test-webhook",
		URL:     "https://example.com/webhook",
		Trigger: WebhookTriggerOnIssues,
		Timeout: 10 * time.Second,
	})
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Webhook_Invalid(t *testing.T) {
	tests := []struct {
		name string
		wh   WebhookConfig
	}{
		{name: "missing url", wh: WebhookConfig{Name: "no-url"}},
		{name: "non-http scheme", wh: WebhookConfig{URL: "ftp://example.com/webhook"}},
		{name: "no host", wh: WebhookConfig{URL: "https:///webhook"}},
		{name: "invalid trigger", wh: WebhookConfig{URL: "https://example.com/webhook", Trigger: "invalid_trigger"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(validConfig(tt.wh))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := validConfig(WebhookConfig{URL: "http://localhost:8080/webhook"})
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnIssues {
		t.Errorf("Default trigger = %v, want %v", cfg.Webhooks[0].Trigger, WebhookTriggerOnIssues)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Default timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestValidateWebhook_FromFlags(t *testing.T) {
	wh := &WebhookConfig{URL: "gopher://example.com"}
	if err := ValidateWebhook(wh); !errors.Is(err, ErrInvalid) {
		t.Errorf("ValidateWebhook() error = %v, want ErrInvalid", err)
	}
}

func TestExpandEnvVar(t *testing.T) {
	os.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")
	defer os.Unsetenv("TEST_WEBHOOK_TOKEN")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${NONEXISTENT_VAR}", ""},
	}

	for _, tt := range tests {
		got := expandEnvVar(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	content := `
log_file: job1.out
webhooks:
  - name: test-webhook
    url: "https://example.com/webhook"
    trigger: on_issues
    timeout: 30s
  - url: "https://backup.example.com/webhook"
    trigger: always
`
	path := writeTempFile(t, "config-with-webhooks.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 2 {
		t.Fatalf("Webhooks = %d, want 2", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Timeout != 30*time.Second {
		t.Errorf("Webhook[0].Timeout = %v, want 30s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[1].Trigger != WebhookTriggerAlways {
		t.Errorf("Webhook[1].Trigger = %v, want %v", cfg.Webhooks[1].Trigger, WebhookTriggerAlways)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestRead_DoesNotValidate(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "dialect: patran\n")
	cfg, err := Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.LogFile != "" || cfg.Dialect != "patran" {
		t.Errorf("Read() = %+v", cfg)
	}
	if _, err := Load(context.Background(), path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid for missing log_file", err)
	}
}
