package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	lev "github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/outcheck/pkg/scanner"
)

// maxSuggestDistance is the largest edit distance offered as a suggestion.
const maxSuggestDistance = 4

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [label|id]",
		Short: "List diagnostic categories",
		Long: `List the diagnostic categories outcheck recognizes, with their set labels
and entity kinds. Timing categories are reported but never become sets.

With an argument, show one category and the rules that feed it. The argument
is a category id (5) or label (_inside_out or inside_out).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listCategories(cmd.OutOrStdout())
			}
			return showCategory(cmd.OutOrStdout(), args[0])
		},
	}
}

func listCategories(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tKIND\tDESCRIPTION")
	for _, c := range scanner.Categories() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", int(c), c.Label(), c.Kind(), c.Description())
	}
	return tw.Flush()
}

func showCategory(w io.Writer, arg string) error {
	c, err := scanner.ParseCategory(arg)
	if err != nil {
		if errors.Is(err, scanner.ErrUnknownCategory) {
			if s := suggestCategories(arg); len(s) > 0 {
				return fmt.Errorf("%w\n\nDid you mean:\n  %s", err, strings.Join(s, "\n  "))
			}
		}
		return err
	}

	fmt.Fprintf(w, "Category %d: %s\n", int(c), c.Label())
	fmt.Fprintf(w, "  Description: %s\n", c.Description())
	fmt.Fprintf(w, "  Kind:        %s\n", c.Kind())
	if c.Emittable() {
		fmt.Fprintf(w, "  Selection:   written as set %s\n", c.Label())
	} else {
		fmt.Fprintf(w, "  Selection:   none (timing only)\n")
	}

	var rules []string
	for _, r := range scanner.New().Rules() {
		if r.Category != c {
			continue
		}
		name := r.Name
		if r.Exclusive {
			name += " (exclusive)"
		}
		rules = append(rules, name)
	}
	fmt.Fprintf(w, "  Rules:       %d\n", len(rules))
	for _, name := range rules {
		fmt.Fprintf(w, "    - %s\n", name)
	}
	return nil
}

// suggestCategories returns the labels closest to s by edit distance,
// nearest first.
func suggestCategories(s string) []string {
	want := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "_"))

	type candidate struct {
		label string
		dist  int
	}
	var found []candidate
	for _, c := range scanner.Categories() {
		label := strings.ToLower(strings.TrimPrefix(c.Label(), "_"))
		d := lev.ComputeDistance(want, label)
		if d <= maxSuggestDistance || (len(want) >= 3 && strings.Contains(label, want)) {
			found = append(found, candidate{label: c.Label(), dist: d})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dist < found[j].dist
	})

	out := make([]string, 0, min(len(found), 3))
	for i := 0; i < len(found) && i < 3; i++ {
		out = append(out, found[i].label)
	}
	return out
}
