package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ccollicutt/outcheck/pkg/scanner"
	"github.com/ccollicutt/outcheck/pkg/timing"
)

const (
	rule        = "-----------------------------------------"
	startBanner = "------- OUTPUT File Check START ---------"
	endBanner   = "------- OUTPUT File Check END -----------"
	timeLayout  = "2006-01-02 15:04:05"
)

// TextFormatter formats reports in the classic check layout.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if f.opts.Quiet {
		f.formatQuiet(report, bw)
	} else {
		f.formatFull(report, bw)
	}
	return bw.Flush()
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) {
	if report.Aborted() {
		fmt.Fprintf(w, "outcheck: aborted: %s\n", report.Abort)
		return
	}
	fmt.Fprintf(w, "outcheck: %s lines, %d diagnostic categories, %s captures, %d sets\n",
		humanize.Comma(int64(report.Summary.LinesProcessed)),
		report.Summary.Diagnostics,
		humanize.Comma(int64(report.Summary.Captures)),
		report.Summary.Sets)
}

func item(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "...%-37s: %v\n", label, value)
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) {
	meta := report.Metadata
	fmt.Fprintf(w, "Created : %s\n\n\n", meta.GeneratedAt.Format(timeLayout))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, startBanner)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	if report.Aborted() {
		fmt.Fprintf(w, "Run aborted: %s\n", report.Abort)
		if meta.LogFile != "" {
			item(w, "Log File", meta.LogFile)
		}
		f.formatEnd(w)
		return
	}

	f.formatHeader(report, w)
	f.formatDomains(report, w)
	f.formatProgress(report, w)
	f.formatCategories(report, w)
	if report.Timing != nil {
		f.formatTiming(report, w)
	}
	f.formatTying(report.Tying, w)
	f.formatEnd(w)
}

func (f *TextFormatter) formatHeader(report *Report, w io.Writer) {
	meta := report.Metadata
	if meta.Domains > 0 {
		item(w, "File Name to Process", meta.LogFile)
		for _, file := range meta.Files {
			item(w, "Concatenated Domain File", file)
		}
	} else {
		item(w, "Single Output File Searched", meta.LogFile)
	}
	item(w, "GUI chosen", meta.Dialect)
	if meta.ScanOnly {
		item(w, "Selection Script", "none (scan only)")
	} else {
		item(w, "Selection Script", meta.Script)
	}
	if meta.Fingerprint != "" {
		item(w, "Input Fingerprint", fmt.Sprintf("%s (%s)", meta.Fingerprint, humanize.Bytes(uint64(meta.InputBytes))))
	}
	item(w, "Lines Read", humanize.Comma(int64(report.Summary.LinesProcessed)))
	item(w, "Loadcases", report.Progress.Loadcases)
	item(w, "Errors", humanize.Comma(int64(report.Summary.Errors)))
	item(w, "Warnings", humanize.Comma(int64(report.Summary.Warnings)))
	for _, line := range report.Stats.FailedWords {
		fmt.Fprintf(w, "   %s\n", line)
	}
	fmt.Fprintln(w)

	if len(report.Banner) > 0 {
		fmt.Fprintln(w, "... * * * * * *")
		for _, line := range report.Banner {
			fmt.Fprintf(w, "   %s\n", line)
		}
		fmt.Fprintln(w, "... * * * * * *")
		fmt.Fprintln(w)
	}
}

func (f *TextFormatter) formatDomains(report *Report, w io.Writer) {
	for _, d := range report.Domains {
		if d.Number > 0 {
			fmt.Fprintf(w, "Start of Output File for Domain # %d\n", d.Number)
		}
		for _, s := range d.Settings {
			item(w, s.Label, s.Value)
			for _, line := range s.Block {
				fmt.Fprintf(w, "   %s\n", line)
			}
		}
		if d.Memory.Increases > 0 {
			item(w, "Memory Increases", fmt.Sprintf("%d (total %.1f MB)", d.Memory.Increases, d.Memory.TotalMB))
		}
		fmt.Fprintln(w)
	}
}

func (f *TextFormatter) formatProgress(report *Report, w io.Writer) {
	p := report.Progress
	if p.Increment != "" {
		item(w, "Increments Started", p.Increment)
	}
	if p.Proceeds > 0 {
		item(w, "Proceed When Not Converged", p.Proceeds)
	}
	if p.TotalTime != "" {
		item(w, "Total Time", p.TotalTime)
	} else {
		item(w, "Total Time", "not found (run unfinished)")
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatCategories(report *Report, w io.Writer) {
	fmt.Fprintln(w, "Summary of Messages")
	for _, row := range report.Categories {
		if row.Kind == scanner.KindTiming.String() {
			continue
		}
		fmt.Fprintf(w, "\tTotal Number of %s: %s", row.Description, humanize.Comma(int64(row.Unique)))
		if row.Raw != row.Unique {
			fmt.Fprintf(w, " (%s messages)", humanize.Comma(int64(row.Raw)))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatTiming(report *Report, w io.Writer) {
	sum := report.Timing
	fmt.Fprintln(w, "Timing")
	for _, pt := range sum.Phases {
		fmt.Fprintf(w, "\t%s: %.2f s (%.1f %%)", pt.Phase, pt.Seconds, pt.Percent)
		if pt.Skipped > 0 {
			fmt.Fprintf(w, ", %d interval(s) skipped", pt.Skipped)
		}
		fmt.Fprintln(w)
	}
	if sum.TotalKnown {
		fmt.Fprintf(w, "\tAverage Iteration Time: %.2f s\n", sum.AverageIteration)
	}
	// marker counts are raw: every marker line counts
	for _, row := range report.Categories {
		if row.Kind == scanner.KindTiming.String() {
			fmt.Fprintf(w, "\tTotal Number of %s: %s\n", row.Description, humanize.Comma(int64(row.Raw)))
		}
	}

	if report.Metadata.TimingDetails && len(sum.Cycles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "\t%6s %12s %12s %12s\n", "Cycle", "Assembly", "Solve", "Recovery")
		for _, c := range sum.Cycles {
			fmt.Fprintf(w, "\t%6d %12s %12s %12s\n", c.Number, span(c.Assembly), span(c.Solve), span(c.Recovery))
		}
	}
	fmt.Fprintln(w)
}

func span(s timing.Span) string {
	if !s.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", s.Seconds)
}

func (f *TextFormatter) formatTying(records []scanner.TyingRecord, w io.Writer) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintln(w, "Inserted Nodes and Hosts")
	for _, r := range records {
		fmt.Fprintf(w, "\t%s: %s\n", r.Inserted, strings.Join(r.Hosts, " "))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEnd(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, endBanner)
	fmt.Fprintln(w, rule)
}
