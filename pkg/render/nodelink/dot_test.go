package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/joinery/pkg/hierarchy"
)

func testForest() *hierarchy.Forest {
	f := hierarchy.BuildTree(map[string]string{"Walls": "Frame", "Roof": "Frame", "Frame": ""})
	if n, ok := f.Node("Walls"); ok {
		n.Members = []string{"1", "2"}
	}
	return f
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testForest(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"Frame" [label="Frame", penwidth=2];`,
		`"Walls" [label="Walls"];`,
		`"Frame" -> "Roof";`,
		`"Frame" -> "Walls";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in\n%s", want, dot)
		}
	}
	if strings.Index(dot, `"Frame" -> "Roof"`) > strings.Index(dot, `"Frame" -> "Walls"`) {
		t.Error("edges should be sorted")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testForest(), Options{Detailed: true})
	if !strings.Contains(dot, `label="Walls\nname: Walls\nmembers: 2"`) {
		t.Errorf("detailed label missing in\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "rewrites root tag",
			in:   `<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`,
		},
		{
			name: "no viewBox",
			in:   `<svg><g/></svg>`,
			want: `<svg><g/></svg>`,
		},
		{
			name: "zero size",
			in:   `<svg viewBox="0 0 0 0"></svg>`,
			want: `<svg viewBox="0 0 0 0"></svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.in))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testForest(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Walls")) {
		t.Errorf("RenderSVG() output is not an SVG of the forest: %.200s", svg)
	}
}
