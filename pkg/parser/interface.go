package parser

import (
	"context"
	"errors"
)

// ErrNoLines is returned when a log contains no non-blank lines.
var ErrNoLines = errors.New("no lines found")

// LineSource provides an iterator over non-blank log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next non-blank line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}
