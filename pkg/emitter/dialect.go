// Package emitter writes the selection scripts that recreate each diagnostic
// category as a named set in the pre/post-processor.
package emitter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/outcheck/pkg/scanner"
)

// ErrUnknownDialect is returned by NewDialect for unsupported names.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect renders selection sets in one tool's command language.
type Dialect interface {
	// Name returns the canonical dialect name.
	Name() string

	// Extension returns the conventional script file extension.
	Extension() string

	// Begin writes the script preamble.
	Begin(w io.Writer)

	// Set writes one named selection set.
	Set(w io.Writer, label string, kind scanner.Kind, ids []string)

	// End writes the script epilogue.
	End(w io.Writer)
}

// Dialects lists the supported dialect names.
func Dialects() []string {
	return []string{"mentat", "patran"}
}

// NewDialect resolves a dialect by name or numeric alias ("1" is mentat,
// "2" is patran).
func NewDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mentat", "1":
		return Mentat{}, nil
	case "patran", "2":
		return Patran{}, nil
	default:
		return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownDialect, name, strings.Join(Dialects(), ", "))
	}
}
