package emitter

import (
	"fmt"
	"io"

	"github.com/ccollicutt/outcheck/pkg/scanner"
)

// Patran writes session files for MSC Patran.
type Patran struct{}

// Name returns "patran".
func (Patran) Name() string { return "patran" }

// Extension returns ".ses".
func (Patran) Extension() string { return ".ses" }

// Begin fits the view so the groups are visible.
func (Patran) Begin(w io.Writer) {
	fmt.Fprintln(w, "gu_fit_view(  )")
}

// Set clears and recreates the named group. Node and face ids add the
// elements associated with those nodes.
func (Patran) Set(w io.Writer, label string, kind scanner.Kind, ids []string) {
	fmt.Fprintln(w, "sys_poll_option( 2 )")
	fmt.Fprintf(w, "bv_group_clear(\"%s\" )\n", label)
	fmt.Fprintln(w, "sys_poll_option( 0 )")

	if kind == scanner.KindElement {
		fmt.Fprintln(w, "sys_poll_option( 2 )")
		fmt.Fprintf(w, "ga_group_create( \"%s\" )\n", label)
		fmt.Fprintf(w, "ga_group_entity_add( \"%s\", @\n", label)
		fmt.Fprint(w, "\"Elm ")
		writeContinued(w, ids)
		fmt.Fprintln(w, "\") ")
		fmt.Fprintln(w, "sys_poll_option( 0 ) ")
		return
	}

	// node and face ids: group the elements associated with the nodes
	fmt.Fprintln(w, "STRING _elem_list[VIRTUAL]")
	fmt.Fprint(w, "list_create_elem_ass_node( 0, \"Node ")
	writeContinued(w, ids)
	fmt.Fprintln(w, "\", \"lista\", _elem_list )")
	fmt.Fprintln(w, "sys_poll_option( 0 ) ")
	fmt.Fprintln(w, "sys_poll_option( 2 )")
	fmt.Fprintf(w, "ga_group_create( \"%s\" )\n", label)
	fmt.Fprintf(w, "ga_group_entity_add( \"%s\", _elem_list) \n", label)
}

// End writes nothing; session files need no trailer.
func (Patran) End(io.Writer) {}

// writeContinued writes one id per line with the PCL continuation marker.
func writeContinued(w io.Writer, ids []string) {
	for _, id := range ids {
		fmt.Fprintf(w, "%s //@ \n", id)
	}
}
