// Package config provides loading and validation of outcheck run configurations.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// LogFile is the solver output log. For multi-domain runs it names the
	// first domain file, e.g. 1ddm_job1.out.
	LogFile string `yaml:"log_file"`

	// Dialect selects the script language: mentat (1) or patran (2).
	Dialect string `yaml:"dialect"`

	// Domains is the number of per-domain files to concatenate. 0 scans the
	// log file alone; DomainsAuto counts the sibling files on disk.
	Domains Domains `yaml:"domains"`

	// ScanOnly produces the report without a selection script.
	ScanOnly bool `yaml:"scan_only"`

	// TimingDetails adds the per-increment timing table to the report.
	TimingDetails bool `yaml:"timing_details"`

	Output   OutputConfig    `yaml:"output"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputConfig names the files written by a run.
type OutputConfig struct {
	// Report is the report path. Empty writes the report to stdout.
	Report string `yaml:"report,omitempty"`

	// Script is the selection script path. Empty uses check_analysis plus
	// the dialect's extension.
	Script string `yaml:"script,omitempty"`

	// Tying is the tying companion file, written only when tying debug
	// records were found.
	Tying string `yaml:"tying,omitempty"`
}

// Domains is a domain count that also accepts "auto".
type Domains int

// DomainsAuto asks for the domain files to be counted on disk.
const DomainsAuto Domains = -1

// ParseDomains parses a domain count: a non-negative integer or "auto".
func ParseDomains(s string) (Domains, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return DomainsAuto, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: domains must be a non-negative integer or auto, got %q", ErrInvalid, s)
	}
	return Domains(n), nil
}

// UnmarshalYAML accepts an integer or the string "auto".
func (d *Domains) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseDomains(node.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Domains) String() string {
	if d == DomainsAuto {
		return "auto"
	}
	return strconv.Itoa(int(d))
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when diagnostics are found (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint that receives the run report.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
