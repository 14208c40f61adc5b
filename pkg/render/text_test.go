package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/matzehuels/joinery/pkg/groups"
	"github.com/matzehuels/joinery/pkg/hierarchy"
)

func testIndex() *groups.Index {
	return groups.Build([]groups.Tagged{
		{ID: "1", Tags: []string{`Frame\Walls`}},
		{ID: "2", Tags: []string{`Frame\Walls`, "Loose"}},
		{ID: "3", Tags: []string{`Frame\Roof`}},
	})
}

func TestTree(t *testing.T) {
	var buf bytes.Buffer
	if err := Tree(&buf, hierarchy.Explicit(testIndex())); err != nil {
		t.Fatal(err)
	}
	want := "- Frame (Frame)\n" +
		"    - Frame\\Roof (Roof)\n" +
		"    - Frame\\Walls (Walls)\n" +
		"- Loose (Loose)\n"
	if buf.String() != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestStructure(t *testing.T) {
	var buf bytes.Buffer
	if err := Structure(&buf, testIndex()); err != nil {
		t.Fatal(err)
	}
	want := "Universal Group Structure:\n" +
		rule + "\n" +
		"Group: Frame\n" +
		"  Simple Name: Frame\n" +
		"  Parent: None\n" +
		"  Children: Frame\\Roof, Frame\\Walls\n" +
		"  Objects: [1, 2, 3]\n" +
		rule + "\n" +
		"Group: Frame\\Roof\n" +
		"  Simple Name: Roof\n" +
		"  Parent: Frame\n" +
		"  Children: None\n" +
		"  Objects: [3]\n" +
		rule + "\n" +
		"Group: Frame\\Walls\n" +
		"  Simple Name: Walls\n" +
		"  Parent: Frame\n" +
		"  Children: None\n" +
		"  Objects: [1, 2]\n" +
		rule + "\n" +
		"Group: Loose\n" +
		"  Simple Name: Loose\n" +
		"  Parent: None\n" +
		"  Children: None\n" +
		"  Objects: [2]\n"
	if buf.String() != want {
		t.Errorf("Structure() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestShared(t *testing.T) {
	tests := []struct {
		name   string
		shared map[hierarchy.Pair][]string
		want   string
	}{
		{
			name:   "none",
			shared: nil,
			want:   "Shared Elements Between Groups:\nNo shared elements found among groups.\n",
		},
		{
			name: "pairs",
			shared: map[hierarchy.Pair][]string{
				hierarchy.NewPair("B", "A"): {"1", "2"},
				hierarchy.NewPair("A", "C"): {"2"},
			},
			want: "Shared Elements Between Groups:\n" +
				"Groups: A & B share objects: [1, 2]\n" +
				"Groups: A & C share objects: [2]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Shared(&buf, tt.shared); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("Shared() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestWriteErrors(t *testing.T) {
	idx := testIndex()
	if err := Structure(failingWriter{}, idx); !errors.Is(err, errWrite) {
		t.Errorf("Structure() = %v", err)
	}
	if err := Tree(failingWriter{}, hierarchy.Explicit(idx)); !errors.Is(err, errWrite) {
		t.Errorf("Tree() = %v", err)
	}
	res := &hierarchy.Result{Index: idx, Inferred: hierarchy.Infer(idx)}
	if err := Report(failingWriter{}, res); !errors.Is(err, errWrite) {
		t.Errorf("Report() = %v", err)
	}
}
