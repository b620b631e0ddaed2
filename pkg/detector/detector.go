// Package detector samples a log file to tell whether it is solver output
// and which timing markers it carries.
package detector

import (
	"bufio"
	"context"
	"os"
	"strings"
)

// DefaultSampleSize is the number of non-blank lines read from the head of a log.
const DefaultSampleSize = 5000

// DetectionResult holds the result of sampling a log file.
type DetectionResult struct {
	Matches      []MarkerMatch // Markers found, in marker order
	SampledLines int           // Number of lines sampled
}

// MarkerMatch is a marker found in the sample.
type MarkerMatch struct {
	Marker     *Marker
	MatchCount int    // Number of lines that matched
	Value      string // First captured value
	SampleLine string // First line that matched
}

// Detector samples log files for solver markers.
type Detector struct {
	markers    []*Marker
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 5000).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default markers.
func New(opts ...Option) *Detector {
	d := &Detector{
		markers:    DefaultMarkers(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file and returns the markers found.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines looks for markers in a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	found := make(map[*Marker]*MarkerMatch)
	for _, line := range lines {
		for _, m := range d.markers {
			sub := m.Pattern.FindStringSubmatch(line)
			if sub == nil {
				continue
			}
			mm := found[m]
			if mm == nil {
				mm = &MarkerMatch{Marker: m, SampleLine: strings.TrimSpace(line)}
				if len(sub) > 1 {
					mm.Value = sub[1]
				}
				found[m] = mm
			}
			mm.MatchCount++
		}
	}

	for _, m := range d.markers {
		if mm := found[m]; mm != nil {
			result.Matches = append(result.Matches, *mm)
		}
	}
	return result
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// Find returns the match for the named marker, or nil.
func (r *DetectionResult) Find(name string) *MarkerMatch {
	for i := range r.Matches {
		if r.Matches[i].Marker.Name == name {
			return &r.Matches[i]
		}
	}
	return nil
}

// IsSolverLog reports whether a header marker was found.
func (r *DetectionResult) IsSolverLog() bool {
	for _, m := range r.Matches {
		if m.Marker.Header {
			return true
		}
	}
	return false
}

// Version returns the solver version from the header, or "".
func (r *DetectionResult) Version() string {
	if m := r.Find("Marc version"); m != nil {
		return m.Value
	}
	return ""
}
