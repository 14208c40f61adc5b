package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/joinery/pkg/element"
	"github.com/matzehuels/joinery/pkg/hierarchy"
)

func TestGroupTree(t *testing.T) {
	f := hierarchy.BuildTree(map[string]string{
		"Frame":         "",
		`Frame\Walls`:   "Frame",
		`Frame\Walls\N`: `Frame\Walls`,
		"Roof":          "",
	})

	out := groupTree(f)
	for _, want := range []string{"Frame", "Walls", `(Frame\Walls)`, "Roof"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Frame") > strings.Index(out, "Roof") {
		t.Errorf("roots out of order:\n%s", out)
	}

	if got := groupTree(hierarchy.NewForest()); !strings.Contains(got, "no groups") {
		t.Errorf("empty tree = %q", got)
	}
}

func TestElementTable(t *testing.T) {
	snaps := []*element.Snapshot{
		{ID: "a1", Name: "post", Type: element.TypeBeam, Index: element.NoIndex},
		{ID: "b2", Type: element.TypePlate, Index: 4},
	}
	out := elementTable(snaps)
	for _, want := range []string{"ID", "a1", "post", "b2", "plate", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSnapshotUnsetFrame(t *testing.T) {
	var buf bytes.Buffer
	printSnapshot(&buf, &element.Snapshot{ID: "a1", Type: element.TypeBeam, Index: element.NoIndex})
	if !strings.Contains(buf.String(), "unset") {
		t.Errorf("snapshot without frame should say unset:\n%s", buf.String())
	}
}
