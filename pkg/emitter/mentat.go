package emitter

import (
	"fmt"
	"io"

	"github.com/ccollicutt/outcheck/pkg/scanner"
)

// Mentat writes procedure files for Marc Mentat.
type Mentat struct{}

// Name returns "mentat".
func (Mentat) Name() string { return "mentat" }

// Extension returns ".proc".
func (Mentat) Extension() string { return ".proc" }

// Begin opens a command group with procedure echo turned off.
func (Mentat) Begin(w io.Writer) {
	fmt.Fprintln(w, "*command_group_begin")
	fmt.Fprintln(w, "*set_proc_echo off")
	fmt.Fprintln(w, "*py_echo off")
}

// Set replaces the contents of the named set with the given ids. Node ids
// select the elements attached to them.
func (Mentat) Set(w io.Writer, label string, kind scanner.Kind, ids []string) {
	fmt.Fprintln(w, "*remove_set_entries")
	fmt.Fprintln(w, label)
	fmt.Fprintln(w, "all_existing")
	fmt.Fprintln(w, "*select_clear")

	store := "*store_elements"
	switch kind {
	case scanner.KindElement:
		fmt.Fprintln(w, "*select_elements")
	case scanner.KindFace:
		fmt.Fprintln(w, "*select_faces")
		store = "*store_faces"
	default:
		// node ids select the elements attached to them
		fmt.Fprintln(w, "*select_elements_nodes")
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	fmt.Fprintln(w, "# | End of List")
	fmt.Fprintf(w, "%s %s\n", store, label)
	fmt.Fprintln(w, "all_selected")
}

// End closes the command group.
func (Mentat) End(w io.Writer) {
	fmt.Fprintln(w, "*command_group_end")
}
