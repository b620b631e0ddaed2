// Package scanner classifies the diagnostic messages of a solver output log.
//
// The scanner makes a single pass over the buffered log. Every rule of the
// rule table is evaluated against every line; a line may feed several
// categories. Rules marked exclusive form a chain in which only the first
// matching rule fires for a given line.
package scanner

// Result is the outcome of scanning one logical log.
type Result struct {
	// Lines is the number of non-blank lines scanned.
	Lines int

	// Categories holds the captured values, finalized.
	Categories *Aggregator

	// Domains lists the per-domain sections in log order. A section numbered
	// 0 collects settings seen before the first solver header.
	Domains []*Domain

	// Stats holds line-level counters.
	Stats LineStats

	// Tying lists the tying debug records, one per captured inserted node.
	Tying []TyingRecord

	// Banner is the job-parameter block echoed from the first starred banner.
	Banner []string

	// TotalTime is the raw "total time:" token, empty when the run has not
	// finished.
	TotalTime string

	// Increment is the number of the last increment started.
	Increment string

	// Proceeds counts increments that continued without converging.
	Proceeds int
}

// Domain is one per-process section of the log.
type Domain struct {
	// Number is the 1-based domain number, 0 for text before the first header.
	Number int

	// Settings are the analysis parameters found in this domain, in log order.
	Settings []Setting

	// Memory tallies "memory increasing" messages.
	Memory MemoryStats

	projectionWarned bool
}

// Setting is one analysis parameter echoed from the log.
type Setting struct {
	Label string
	Value string
	// Block holds verbatim lines for multi-line settings.
	Block []string
}

// MemoryStats tallies workspace increases.
type MemoryStats struct {
	Increases int
	TotalMB   float64
}

// LineStats holds counters gathered from every line.
type LineStats struct {
	Errors    int
	Warnings  int
	Loadcases int
	// FailedWords holds the "words failed" warnings verbatim.
	FailedWords []string
}

// TyingRecord is one tying debug capture: an inserted node and the host
// nodes it is tied to.
type TyingRecord struct {
	Inserted string
	Hosts    []string
}

// Iterations returns the number of matrix solutions started.
func (r *Result) Iterations() int {
	raw, _ := r.Categories.Counts(MatrixStart)
	return raw
}
