package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/outcheck/pkg/config"
	"github.com/ccollicutt/outcheck/pkg/detector"
	"github.com/ccollicutt/outcheck/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigPath string
	SampleSize int
	Verbose    bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <log-file>",
		Short: "Check a solver log before scanning it",
		Long: `Run pre-flight checks on a solver output log.

This command checks:
- The log file exists, is readable and not empty
- The log starts with a solver header (version, machine type)
- How many per-domain logs of a parallel run sit next to it
- Which timing markers the log carries
- The run configuration and webhooks, when --config is given

Example:
  outcheck diagnose 1ddm_job1.out
  outcheck diagnose -v --config job1.yaml 1ddm_job1.out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Also check this run configuration file")
	cmd.Flags().IntVar(&opts.SampleSize, "sample", detector.DefaultSampleSize, "Number of lines to sample from the log head")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, logPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	result := checkLogFile(logPath)
	results = append(results, result)
	if result.Status != "error" {
		det, err := detector.New(detector.WithSampleSize(opts.SampleSize)).DetectFromFile(ctx, logPath)
		if err != nil {
			results = append(results, DiagnosticResult{
				Check:   "Solver Header",
				Status:  "error",
				Message: fmt.Sprintf("Cannot read log: %v", err),
			})
		} else {
			results = append(results, checkSolverHeader(det))
			results = append(results, checkDomainFiles(logPath, det))
			results = append(results, checkTimingMarkers(det, opts)...)
		}
	}

	if opts.ConfigPath != "" {
		cfg, result := checkConfig(ctx, opts.ConfigPath)
		results = append(results, result)
		if cfg != nil {
			results = append(results, checkWebhooks(cfg, opts)...)
		}
	}

	if printDiagnostics(w, results, opts) > 0 {
		ExitCode = ExitError
	}
	return nil
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Parallel runs name their logs 1<job>.out, 2<job>.out, ...",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access log file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Log file is empty"
		result.Suggests = []string{"The run may not have started yet"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return result
}

func checkSolverHeader(det *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Solver Header",
	}

	if !det.IsSolverLog() {
		result.Status = "warning"
		result.Message = fmt.Sprintf("No solver header in the first %s lines", humanize.Comma(int64(det.SampledLines)))
		result.Suggests = []string{
			"Check this is the solver output log (.out), not the input deck or a status file",
			"Use --sample to read more lines",
		}
		return result
	}

	result.Status = "ok"
	if v := det.Version(); v != "" {
		result.Message = fmt.Sprintf("Marc %s", v)
	} else {
		result.Message = "Solver output log"
	}
	for _, name := range []string{"Machine type", "Processors"} {
		if m := det.Find(name); m != nil {
			result.Details = append(result.Details, fmt.Sprintf("%s: %s", name, m.Value))
		}
	}
	return result
}

func checkDomainFiles(logPath string, det *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Domain Files",
	}

	count := parser.CountDomainFiles(logPath)
	processors := 0
	if m := det.Find("Processors"); m != nil {
		processors, _ = strconv.Atoi(m.Value)
	}

	switch {
	case count == 0 && processors > 1:
		result.Status = "warning"
		result.Message = fmt.Sprintf("Run used %d processors but no numbered domain logs were found", processors)
		result.Suggests = []string{"Point at the first domain log (1<job>.out) to check a parallel run"}
	case count == 0:
		result.Status = "ok"
		result.Message = "Single log (no domain numbering)"
	case processors > 1 && count != processors:
		result.Status = "warning"
		result.Message = fmt.Sprintf("Found %d domain log(s), run used %d processors", count, processors)
		result.Suggests = []string{fmt.Sprintf("Use --domains %d to read the logs that exist", count)}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("Found %d domain log(s)", count)
		result.Suggests = []string{fmt.Sprintf("Use --domains %d or --domains auto", count)}
	}

	if files, err := parser.DomainFiles(logPath, count); err == nil && count > 0 {
		result.Details = files
	}
	return result
}

func checkTimingMarkers(det *detector.DetectionResult, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	timingResult := DiagnosticResult{
		Check: "Timing Markers",
	}
	var missing []string
	for _, name := range []string{"Assembly timing", "Matrix solution timing", "Wall time"} {
		m := det.Find(name)
		if m == nil {
			missing = append(missing, name)
			continue
		}
		timingResult.Details = append(timingResult.Details, fmt.Sprintf("%s: %d line(s)", name, m.MatchCount))
	}
	if len(missing) > 0 {
		timingResult.Status = "warning"
		timingResult.Message = fmt.Sprintf("%d timing marker(s) missing from the sample", len(missing))
		for _, name := range missing {
			timingResult.Details = append(timingResult.Details, fmt.Sprintf("%s: not found", name))
		}
		timingResult.Suggests = []string{"Timing phases that need a missing marker are left out of the report"}
	} else {
		timingResult.Status = "ok"
		timingResult.Message = "Assembly and matrix solution wall times present"
	}
	results = append(results, timingResult)

	if m := det.Find("Increment start"); m != nil && opts.Verbose {
		results = append(results, DiagnosticResult{
			Check:   "Increments",
			Status:  "ok",
			Message: fmt.Sprintf("%d increment(s) started in the sample", m.MatchCount),
		})
	}

	if m := det.Find("Tying debug printout"); m != nil {
		results = append(results, DiagnosticResult{
			Check:   "Tying Debug",
			Status:  "ok",
			Message: fmt.Sprintf("%d tying printout line(s), a tying file will be written", m.MatchCount),
		})
	}

	return results
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Run Configuration",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Invalid configuration: %v", err)
		result.Suggests = []string{
			"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			"Run 'outcheck validate " + path + "' for details",
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Configuration is valid"
	result.Details = []string{
		fmt.Sprintf("Dialect: %s", cfg.Dialect),
		fmt.Sprintf("Domains: %s", cfg.Domains),
	}
	return cfg, result
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = fmt.Sprintf("webhook[%d]", i)
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}
		if wh.Token == "" && wh.Trigger != config.WebhookTriggerNever {
			result.Details = append(result.Details, "No token configured")
		}
		if opts.Verbose {
			result.Details = append(result.Details,
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			)
		}
		results = append(results, result)

		if opts.Verbose {
			conn := checkWebhookConnectivity(wh)
			conn.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, conn)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// A HEAD request only shows that the endpoint is reachable.
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}
	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST, which is what a check run sends",
			"Check authentication if using a token",
		}
	}
	return result
}

// printDiagnostics writes the results and returns the number of errors.
func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) int {
	fmt.Fprintln(w, "=== outcheck Log Diagnostics ===")
	fmt.Fprintln(w)

	okCount, warnCount, errCount := 0, 0, 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before running a check.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nThe log can be checked but some output will be missing.")
	default:
		fmt.Fprintln(w, "\nLog looks good!")
	}
	return errCount
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
