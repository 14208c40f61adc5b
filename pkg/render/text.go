package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/joinery/pkg/groups"
	"github.com/matzehuels/joinery/pkg/hierarchy"
)

// IndentWidth is the number of spaces a child is indented past its parent.
const IndentWidth = 4

const rule = "--------------------------------------------------"

// Tree writes f as an indented listing, roots and children in sorted order:
//
//	- Frame (Frame)
//	    - Frame\Walls (Walls)
func Tree(w io.Writer, f *hierarchy.Forest) error {
	return f.Walk(func(n *hierarchy.Node, depth int) error {
		_, err := fmt.Fprintf(w, "%s- %s (%s)\n", strings.Repeat(" ", depth*IndentWidth), n.ID, n.Name)
		return err
	})
}

// Structure writes every group of idx with its name, parent, children and
// members.
func Structure(w io.Writer, idx *groups.Index) error {
	ew := &errWriter{w: w}
	ew.println("Universal Group Structure:")
	for _, g := range idx.Sorted() {
		ew.println(rule)
		ew.printf("Group: %s\n", g.Path)
		ew.printf("  Simple Name: %s\n", g.Name)
		ew.printf("  Parent: %s\n", orNone(g.Parent))
		ew.printf("  Children: %s\n", orNone(strings.Join(g.Children, ", ")))
		ew.printf("  Objects: %s\n", list(g.Members))
	}
	return ew.err
}

// Shared writes the groups that share members, one pair per line.
func Shared(w io.Writer, shared map[hierarchy.Pair][]string) error {
	ew := &errWriter{w: w}
	ew.println("Shared Elements Between Groups:")
	if len(shared) == 0 {
		ew.println("No shared elements found among groups.")
		return ew.err
	}
	for _, p := range hierarchy.SortedPairs(shared) {
		ew.printf("Groups: %s share objects: %s\n", p, list(shared[p]))
	}
	return ew.err
}

// Report writes the full group report: structure, shared members and the
// inferred tree.
func Report(w io.Writer, res *hierarchy.Result) error {
	if err := Structure(w, res.Index); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := Shared(w, res.Shared); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nHierarchical Group Tree (inferred based on object inclusion):"); err != nil {
		return err
	}
	return Tree(w, res.Inferred)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func list(ids []string) string {
	return "[" + strings.Join(ids, ", ") + "]"
}

// errWriter keeps the first write error so that reports can be written
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, args...)
	}
}

func (e *errWriter) println(s string) {
	e.printf("%s\n", s)
}
