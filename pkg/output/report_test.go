package output

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/outcheck/pkg/logging"
	"github.com/ccollicutt/outcheck/pkg/parser"
	"github.com/ccollicutt/outcheck/pkg/scanner"
	"github.com/ccollicutt/outcheck/pkg/timing"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

const testLog = ` version: Marc 2014.0.0, Build 282796
 node 149642 body 2 is separating from body 9 separation force 1.35764E-03
 node 149642 body 2 is separating from body 9 separation force 1.35764E-03
 *** error - element inside out at element 102460 integration point 1
 start of assembly   cycle number is 0
 wall time =     10.00
 start of matrix solution
 wall time =     15.00
 end of matrix solution
 wall time =     30.00
 total time: 100.00`

func testLines() []parser.LogLine {
	var lines []parser.LogLine
	for i, s := range strings.Split(testLog, "\n") {
		lines = append(lines, parser.LogLine{Content: s, Source: "job1.out", LineNum: i + 1, Index: i})
	}
	return lines
}

func createTestReport(t *testing.T) *Report {
	t.Helper()
	lines := testLines()
	res, err := scanner.New().Scan(context.Background(), lines)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	tim := timing.Analyze(timing.SamplesFrom(res), logging.Discard())
	report := NewReport(res, tim, Metadata{
		LogFile:     "job1.out",
		Files:       []string{"job1.out"},
		Dialect:     "mentat",
		Script:      "check_analysis.proc",
		Fingerprint: Fingerprint(lines),
		InputBytes:  2048,
		GeneratedAt: testTime,
	})
	report.Summary.Sets = 2
	return report
}

func TestNewReport(t *testing.T) {
	report := createTestReport(t)

	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true")
	}
	if report.Summary.Diagnostics != 2 {
		t.Errorf("Diagnostics = %d, want 2", report.Summary.Diagnostics)
	}
	if report.Summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", report.Summary.Errors)
	}
	if len(report.Categories) != int(scanner.NumCategories) {
		t.Fatalf("Categories = %d, want %d", len(report.Categories), scanner.NumCategories)
	}
	sep := report.Categories[scanner.Separating]
	if sep.Raw != 2 || sep.Unique != 1 {
		t.Errorf("separating row = %+v, want raw 2 unique 1", sep)
	}
	if report.Categories[scanner.MatrixStart].Values != nil {
		t.Error("timing rows should not carry values")
	}
	if report.Progress.TotalTime != "100.00" {
		t.Errorf("TotalTime = %q", report.Progress.TotalTime)
	}
}

func TestNewReport_LoadcasesPerDomain(t *testing.T) {
	agg := scanner.NewAggregator()
	agg.Finalize()
	res := &scanner.Result{Categories: agg, Stats: scanner.LineStats{Loadcases: 8}}

	report := NewReport(res, nil, Metadata{Domains: 4})
	if report.Progress.Loadcases != 2 {
		t.Errorf("Loadcases = %d, want 2", report.Progress.Loadcases)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(testLines())
	b := Fingerprint(testLines())
	if a != b {
		t.Errorf("Fingerprint not stable: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("Fingerprint = %q, want 16 hex digits", a)
	}
	other := Fingerprint(testLines()[1:])
	if other == a {
		t.Error("different input produced the same fingerprint")
	}
}

func TestNewAbortReport(t *testing.T) {
	report := NewAbortReport("no lines found", Metadata{LogFile: "empty.out", GeneratedAt: testTime})
	if !report.Aborted() {
		t.Error("Aborted() = false, want true")
	}
	if report.HasIssues() {
		t.Error("abort report should have no issues")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "json"} {
		if _, err := NewFormatter(name, FormatOptions{}); err != nil {
			t.Errorf("NewFormatter(%q) error = %v", name, err)
		}
	}
	if _, err := NewFormatter("xml", FormatOptions{}); err == nil {
		t.Error("NewFormatter(xml) expected error")
	}
}
