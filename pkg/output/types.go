// Package output provides the run report and its text and JSON renderings.
package output

import (
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/ccollicutt/outcheck/pkg/parser"
	"github.com/ccollicutt/outcheck/pkg/scanner"
	"github.com/ccollicutt/outcheck/pkg/timing"
)

// Report is the complete output of a check run.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary

	// Metadata echoes the run configuration.
	Metadata Metadata

	// Abort is the reason the run stopped early. Empty for a completed run.
	Abort string `json:",omitempty"`

	// Stats holds line-level counters.
	Stats scanner.LineStats

	// Banner is the job-parameter block echoed from the log.
	Banner []string `json:",omitempty"`

	// Domains lists the per-domain settings sections.
	Domains []*scanner.Domain `json:",omitempty"`

	// Progress reports how far the run got.
	Progress Progress

	// Categories lists every category with its counts, in id order.
	Categories []CategoryRow `json:",omitempty"`

	// Timing is the wall-time breakdown.
	Timing *timing.Summary `json:",omitempty"`

	// Tying lists the tying debug records.
	Tying []scanner.TyingRecord `json:",omitempty"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Diagnostics is the number of emittable categories with findings.
	Diagnostics int

	// Captures is the total number of raw captures.
	Captures int

	// Sets is the number of selection sets written to the script.
	Sets int

	// LinesProcessed is the number of non-blank lines scanned.
	LinesProcessed int

	Errors   int
	Warnings int
}

// Metadata echoes the run configuration.
type Metadata struct {
	LogFile string
	// Files lists the files read, in order. More than one for multi-domain runs.
	Files   []string
	Dialect string
	// Domains is the resolved domain count, 0 for a single log.
	Domains       int
	Script        string `json:",omitempty"`
	ScanOnly      bool
	TimingDetails bool

	// Fingerprint is the xxh3 hash of the scanned lines.
	Fingerprint string `json:",omitempty"`

	// InputBytes is the combined size of the input files.
	InputBytes int64

	// GeneratedAt is when the report was created.
	GeneratedAt time.Time
}

// Progress reports how far the solver run got.
type Progress struct {
	Increment string `json:",omitempty"`
	Proceeds  int
	TotalTime string `json:",omitempty"`
	Loadcases int
}

// CategoryRow is one category's counts.
type CategoryRow struct {
	ID          int
	Label       string
	Description string
	Kind        string
	Raw         int
	Unique      int
	Values      []string `json:",omitempty"`
}

// NewReport creates a Report from a finished scan.
func NewReport(res *scanner.Result, tim *timing.Summary, meta Metadata) *Report {
	agg := res.Categories

	report := &Report{
		Metadata: meta,
		Stats:    res.Stats,
		Banner:   res.Banner,
		Domains:  res.Domains,
		Progress: Progress{
			Increment: res.Increment,
			Proceeds:  res.Proceeds,
			TotalTime: res.TotalTime,
			Loadcases: res.Stats.Loadcases / max(meta.Domains, 1),
		},
		Timing: tim,
		Tying:  res.Tying,
		Summary: Summary{
			Diagnostics:    agg.Diagnostics(),
			Captures:       agg.Total(),
			LinesProcessed: res.Lines,
			Errors:         res.Stats.Errors,
			Warnings:       res.Stats.Warnings,
		},
	}

	for _, c := range scanner.Categories() {
		raw, unique := agg.Counts(c)
		row := CategoryRow{
			ID:          int(c),
			Label:       c.Label(),
			Description: c.Description(),
			Kind:        c.Kind().String(),
			Raw:         raw,
			Unique:      unique,
		}
		if c.Emittable() {
			row.Values = agg.Values(c)
		}
		report.Categories = append(report.Categories, row)
	}

	return report
}

// NewAbortReport creates the report of a run that stopped before scanning.
func NewAbortReport(reason string, meta Metadata) *Report {
	return &Report{
		Metadata: meta,
		Abort:    reason,
	}
}

// HasIssues returns true if any diagnostic category has findings.
func (r *Report) HasIssues() bool {
	return r.Summary.Diagnostics > 0
}

// Aborted reports whether the run stopped early.
func (r *Report) Aborted() bool {
	return r.Abort != ""
}

// Fingerprint returns the xxh3 hash of the scanned lines as hex.
func Fingerprint(lines []parser.LogLine) string {
	h := xxh3.New()
	for i := range lines {
		h.WriteString(lines[i].Content)
		h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
