package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/outcheck/pkg/config"
	"github.com/ccollicutt/outcheck/pkg/emitter"
	"github.com/ccollicutt/outcheck/pkg/logging"
	"github.com/ccollicutt/outcheck/pkg/output"
	"github.com/ccollicutt/outcheck/pkg/parser"
	"github.com/ccollicutt/outcheck/pkg/scanner"
	"github.com/ccollicutt/outcheck/pkg/timing"
	"github.com/ccollicutt/outcheck/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes of the check command.
const (
	ExitClean       = 0
	ExitDiagnostics = 1
	ExitError       = 2
)

// now is the report clock. Tests replace it for byte-identical output.
var now = time.Now

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	ConfigPath    string
	Dialect       string
	Domains       string
	ScanOnly      bool
	Script        string
	Report        string
	Tying         string
	TimingDetails bool
	Output        string
	Quiet         bool
	LogLevel      string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [log-file]",
		Short: "Scan a solver output log and build selection sets",
		Long: `Scan a solver output log for contact, element, tying and solver messages.

Every node, element and face named in a message is collected into a set, and
a selection script for the chosen pre-processor is written:
  mentat (1)  Mentat procedure file (.proc)
  patran (2)  Patran session file (.ses)

Parallel runs write one log per domain (1job.out, 2job.out, ...). Use
--domains N to read N of them as one log, or --domains auto to count them.

The log file can also be given as log_file in a --config file; flags
override the file.

Exit codes:
  0 - No diagnostics found
  1 - Diagnostics found
  2 - Configuration or I/O error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "Run configuration file (YAML)")
	f.StringVar(&opts.Dialect, "dialect", config.DefaultDialect, "Selection script dialect (mentat|patran|1|2)")
	f.StringVar(&opts.Domains, "domains", "0", "Number of domain logs, 0 for a single log, or auto")
	f.BoolVar(&opts.ScanOnly, "scan-only", false, "Scan and report without writing a selection script")
	f.StringVar(&opts.Script, "script", "", "Selection script path (default check_analysis.proc or .ses)")
	f.StringVar(&opts.Report, "report", "", "Write the report to this file instead of stdout")
	f.StringVar(&opts.Tying, "tying", config.DefaultTyingFile, "Tying companion file path")
	f.BoolVar(&opts.TimingDetails, "timing-details", false, "Add the per-cycle timing table to the report")
	f.StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	f.StringVar(&opts.LogLevel, "log-level", logging.DefaultLevel, "Log level (debug|info|warn|error)")

	// Webhook flags
	f.StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	f.StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	f.StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_issues|always|never)")

	return cmd
}

// checkRun carries the state of one check invocation.
type checkRun struct {
	cmd       *cobra.Command
	opts      *CheckOptions
	logger    logging.Logger
	formatter output.Formatter
	cfg       *config.Config
	meta      output.Metadata
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.NewLoggerTo(cmd.ErrOrStderr(), opts.LogLevel)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{Quiet: opts.Quiet})
	if err != nil {
		return err
	}

	run := &checkRun{
		cmd:       cmd,
		opts:      opts,
		logger:    logger,
		formatter: formatter,
		meta:      output.Metadata{GeneratedAt: now()},
	}
	return run.execute(ctx, args)
}

func (r *checkRun) execute(ctx context.Context, args []string) error {
	if len(args) == 1 {
		r.meta.LogFile = args[0]
	}

	cfg, err := r.resolveConfig(ctx, args)
	if err != nil {
		return r.abort(ctx, err)
	}
	r.cfg = cfg

	dialect, err := emitter.NewDialect(cfg.Dialect)
	if err != nil {
		return r.abort(ctx, err)
	}

	r.meta.LogFile = cfg.LogFile
	r.meta.Dialect = dialect.Name()
	r.meta.ScanOnly = cfg.ScanOnly
	r.meta.TimingDetails = cfg.TimingDetails
	if !cfg.ScanOnly {
		r.meta.Script = cfg.ScriptPath(dialect.Extension())
	}

	domains := int(cfg.Domains)
	if cfg.Domains == config.DomainsAuto {
		domains = parser.CountDomainFiles(cfg.LogFile)
		r.logger.WithField("domains", domains).Info("domain logs counted")
	}
	files, err := parser.DomainFiles(cfg.LogFile, domains)
	if err != nil {
		return r.abort(ctx, err)
	}
	r.meta.Domains = domains
	r.meta.Files = files

	size, err := inputSize(files)
	if err != nil {
		return r.abort(ctx, err)
	}
	r.meta.InputBytes = size

	lines, err := readLines(ctx, files)
	if err != nil {
		return r.abort(ctx, err)
	}
	if len(lines) == 0 {
		return r.abort(ctx, parser.ErrNoLines)
	}
	r.meta.Fingerprint = output.Fingerprint(lines)
	r.logger.WithFields(logging.Fields{
		"files": len(files),
		"lines": humanize.Comma(int64(len(lines))),
		"size":  humanize.Bytes(uint64(size)),
	}).Info("log read")

	res, err := scanner.New(scanner.WithLogger(r.logger)).Scan(ctx, lines)
	if err != nil {
		return r.abort(ctx, err)
	}
	tim := timing.Analyze(timing.SamplesFrom(res), r.logger)

	sets := 0
	if !cfg.ScanOnly {
		sets, err = r.writeScript(ctx, dialect, res.Categories)
		if err != nil {
			return r.abort(ctx, err)
		}
		if len(res.Tying) > 0 {
			if err := writeFile(cfg.Output.Tying, func(w io.Writer) error {
				return emitter.EmitTying(w, res.Tying)
			}); err != nil {
				return r.abort(ctx, err)
			}
		}
	}

	report := output.NewReport(res, tim, r.meta)
	report.Summary.Sets = sets
	if err := r.writeReport(ctx, report); err != nil {
		return err
	}

	r.sendWebhooks(ctx, report)

	if report.HasIssues() {
		ExitCode = ExitDiagnostics
	}
	return nil
}

// resolveConfig builds the run configuration: defaults, then the config
// file, then the environment, then command-line flags.
func (r *checkRun) resolveConfig(ctx context.Context, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if r.opts.ConfigPath != "" {
		cfg, err = config.Read(ctx, r.opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
		if err := cfg.ApplyEnvironmentOverrides(); err != nil {
			return nil, err
		}
	}

	if len(args) == 1 {
		cfg.LogFile = args[0]
	}

	flags := r.cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Dialect = r.opts.Dialect
	}
	if flags.Changed("domains") {
		d, err := config.ParseDomains(r.opts.Domains)
		if err != nil {
			return nil, err
		}
		cfg.Domains = d
	}
	if flags.Changed("scan-only") {
		cfg.ScanOnly = r.opts.ScanOnly
	}
	if flags.Changed("timing-details") {
		cfg.TimingDetails = r.opts.TimingDetails
	}
	if flags.Changed("script") {
		cfg.Output.Script = r.opts.Script
	}
	if flags.Changed("report") {
		cfg.Output.Report = r.opts.Report
	}
	if flags.Changed("tying") {
		cfg.Output.Tying = r.opts.Tying
	}

	if r.opts.WebhookURL != "" {
		wh := config.WebhookConfig{
			Name:    "cli",
			URL:     r.opts.WebhookURL,
			Token:   r.opts.WebhookToken,
			Trigger: config.WebhookTrigger(r.opts.WebhookTrigger),
		}
		if err := config.ValidateWebhook(&wh); err != nil {
			return nil, err
		}
		cfg.Webhooks = append(cfg.Webhooks, wh)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *checkRun) writeScript(ctx context.Context, d emitter.Dialect, agg *scanner.Aggregator) (int, error) {
	sets := 0
	err := writeFile(r.meta.Script, func(w io.Writer) error {
		var err error
		sets, err = emitter.New(d, r.logger).Emit(ctx, agg, w)
		return err
	})
	if err != nil {
		return 0, err
	}
	r.logger.WithFields(logging.Fields{
		"script": r.meta.Script,
		"sets":   sets,
	}).Info("selection script written")
	return sets, nil
}

// writeReport renders report to the configured report file, or to stdout
// when none is set.
func (r *checkRun) writeReport(ctx context.Context, report *output.Report) error {
	path := ""
	if r.cfg != nil {
		path = r.cfg.Output.Report
	} else if r.opts.Report != "" {
		path = r.opts.Report
	}

	if path == "" {
		if err := r.formatter.Format(ctx, report, r.cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
		return nil
	}
	return writeFile(path, func(w io.Writer) error {
		return r.formatter.Format(ctx, report, w)
	})
}

// abort reports a run that could not complete. The abort report is written
// in place of the full one and the exit code is set to ExitError.
func (r *checkRun) abort(ctx context.Context, cause error) error {
	r.logger.WithError(cause).Error("check aborted")
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return cause
	}

	report := output.NewAbortReport(cause.Error(), r.meta)
	if err := r.writeReport(ctx, report); err != nil {
		return fmt.Errorf("%w (while reporting: %v)", cause, err)
	}
	r.sendWebhooks(ctx, report)
	ExitCode = ExitError
	return nil
}

// sendWebhooks sends the report to all configured webhooks.
// Failures are logged but don't change the exit code.
func (r *checkRun) sendWebhooks(ctx context.Context, report *output.Report) {
	if r.cfg == nil || len(r.cfg.Webhooks) == 0 {
		return
	}

	client := webhook.NewClient()
	for _, wh := range r.cfg.Webhooks {
		if !webhook.ShouldSend(wh.Trigger, report) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		entry := r.logger.WithFields(logging.Fields{
			"webhook":  name,
			"event":    resp.Event,
			"status":   resp.StatusCode,
			"duration": resp.Duration,
		})
		if resp.Success() {
			entry.Info("webhook sent")
		} else {
			entry.WithError(resp.Error).Warn("webhook failed")
		}
	}
}

func inputSize(files []string) (int64, error) {
	var total int64
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return 0, fmt.Errorf("opening log file %s: %w", f, err)
		}
		total += info.Size()
	}
	return total, nil
}

func readLines(ctx context.Context, files []string) ([]parser.LogLine, error) {
	src := parser.NewFileSource(files...)
	defer src.Close()
	return parser.ReadAll(ctx, src)
}

// writeFile creates path, runs write against it and closes it, returning
// the first error.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}
