package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/element"
	"github.com/matzehuels/joinery/pkg/hierarchy"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Elements
// =============================================================================

// elementTable renders one row per element snapshot.
func elementTable(snaps []*element.Snapshot) string {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			s.ID,
			orDash(s.Name),
			s.Type,
			orDash(s.Parent),
			indexText(s.Index),
			strconv.Itoa(len(s.Axes)),
			strconv.Itoa(len(s.Features)),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Type", "Parent", "Index", "Axes", "Features").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// printSnapshot prints every field of one element.
func printSnapshot(w io.Writer, s *element.Snapshot) {
	fmt.Fprintln(w, StyleTitle.Render(s.ID))
	printKeyValue(w, "marker", s.MarkerID)
	if s.Frame != nil {
		printKeyValue(w, "origin", fmt.Sprint(s.Frame.Origin))
		printKeyValue(w, "x axis", fmt.Sprint(s.Frame.XAxis))
		printKeyValue(w, "y axis", fmt.Sprint(s.Frame.YAxis))
	} else {
		printKeyValue(w, "frame", StyleWarning.Render("unset"))
	}
	printKeyValue(w, "name", orDash(s.Name))
	printKeyValue(w, "type", s.Type)
	printKeyValue(w, "parent", orDash(s.Parent))
	printKeyValue(w, "index", indexText(s.Index))
	printKeyValue(w, "neighbours", codec.EncodeInts(s.Neighbours))
	printKeyValue(w, "features", strconv.Itoa(len(s.Features)))
	printKeyValue(w, "axes", strconv.Itoa(len(s.Axes)))
	printKeyValue(w, "radii", codec.EncodeFloatLists(s.Radii))
	if s.Thickness != nil {
		printKeyValue(w, "thickness", codec.FormatFloat(*s.Thickness))
	} else {
		printKeyValue(w, "thickness", codec.Absent)
	}
	printKeyValue(w, "pairs", strconv.Itoa(len(s.PairPolylines)))
	printKeyValue(w, "joint types", codec.EncodeIntLists(s.JointTypes))
}

func indexText(i int) string {
	if i == element.NoIndex {
		return codec.Absent
	}
	return strconv.Itoa(i)
}

func orDash(s string) string {
	if s == "" {
		return codec.Absent
	}
	return s
}

// =============================================================================
// Group Tree
// =============================================================================

// groupTree renders f with one tree per root. Each node shows its simple
// name, its full path and the number of members.
func groupTree(f *hierarchy.Forest) string {
	roots := f.Roots()
	if len(roots) == 0 {
		return StyleDim.Render("(no groups)")
	}
	parts := make([]string, 0, len(roots))
	for _, id := range roots {
		t := subtree(f, id).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(StyleDim).
			RootStyle(StyleTitle)
		parts = append(parts, t.String())
	}
	return strings.Join(parts, "\n")
}

func subtree(f *hierarchy.Forest, id string) *tree.Tree {
	t := tree.Root(nodeLabel(f, id))
	for _, child := range f.Children(id) {
		if len(f.Children(child)) == 0 {
			t.Child(nodeLabel(f, child))
			continue
		}
		t.Child(subtree(f, child))
	}
	return t
}

func nodeLabel(f *hierarchy.Forest, id string) string {
	n, ok := f.Node(id)
	if !ok {
		return id
	}
	label := n.Name
	if n.ID != n.Name {
		label += " " + StyleDim.Render("("+n.ID+")")
	}
	if len(n.Members) > 0 {
		label += " " + StyleNumber.Render(fmt.Sprintf("[%d]", len(n.Members)))
	}
	return label
}
