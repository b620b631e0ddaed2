package detector

import "regexp"

// Marker is a line pattern that identifies part of a solver output log.
type Marker struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set in DefaultMarkers)
	PatternStr string         // Pattern string, first group captures the value
	// Header markers identify the log as solver output.
	Header bool
}

// DefaultMarkers returns the built-in solver log markers.
func DefaultMarkers() []*Marker {
	markers := []*Marker{
		{
			Name:       "Marc version",
			PatternStr: `^\s*version:\s+Marc\s+(\S+?),?\s`,
			Header:     true,
		},
		{
			Name:       "Machine type",
			PatternStr: `^\s*machine type:\s+(\S+)`,
			Header:     true,
		},
		{
			Name:       "Processors",
			PatternStr: `^\s*number of processors used\S*\s+(\d+)`,
		},
		{
			Name:       "Increment start",
			PatternStr: `^\s*s t a r t\s+o f\s+i n c r e m e n t\s+(\d+)`,
		},
		{
			Name:       "Assembly timing",
			PatternStr: `^\s*start of assembly()`,
		},
		{
			Name:       "Matrix solution timing",
			PatternStr: `^\s*(?:start|end) of matrix solution()`,
		},
		{
			Name:       "Wall time",
			PatternStr: `^\s*wall time\s*=\s*(\S+)`,
		},
		{
			Name:       "Total time",
			PatternStr: `^\s*total time:\s+(\S+)`,
		},
		{
			Name:       "Tying debug printout",
			PatternStr: `^\s*debug printout\s+\S+\s+tying()`,
		},
	}

	for _, m := range markers {
		m.Pattern = regexp.MustCompile(m.PatternStr)
	}

	return markers
}
