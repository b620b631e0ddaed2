// Package parser provides solver log reading and tokenizing.
package parser

// LogLine is one non-blank line of a solver output log.
type LogLine struct {
	// Content is the raw line text, without the trailing newline.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Index is the 0-based position of the line in the read buffer.
	// Blank lines are not counted.
	Index int
}
