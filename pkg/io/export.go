package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/joinery/pkg/element"
	"github.com/matzehuels/joinery/pkg/groups"
	"github.com/matzehuels/joinery/pkg/hierarchy"
)

type document struct {
	Groups   []*groups.Group  `json:"groups"`
	Inferred forest           `json:"inferred"`
	Explicit forest           `json:"explicit"`
	Shared   []shared         `json:"shared"`
	Skipped  []hierarchy.Skip `json:"skipped"`
}

type forest struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Members []string `json:"members,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type shared struct {
	A       string   `json:"a"`
	B       string   `json:"b"`
	Members []string `json:"members"`
}

func fromForest(f *hierarchy.Forest) forest {
	out := forest{Nodes: []node{}, Edges: []edge{}}
	if f == nil {
		return out
	}
	for _, n := range f.Nodes() {
		out.Nodes = append(out.Nodes, node{ID: n.ID, Name: n.Name, Members: n.Members})
		for _, c := range f.Children(n.ID) {
			out.Edges = append(out.Edges, edge{From: n.ID, To: c})
		}
	}
	return out
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSON encodes a hierarchy result as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(res *hierarchy.Result, w io.Writer) error {
	out := document{
		Groups:   []*groups.Group{},
		Inferred: fromForest(res.Inferred),
		Explicit: fromForest(res.Explicit),
		Shared:   []shared{},
		Skipped:  res.Skipped,
	}
	if out.Skipped == nil {
		out.Skipped = []hierarchy.Skip{}
	}
	if res.Index != nil {
		out.Groups = res.Index.Sorted()
	}
	for _, p := range hierarchy.SortedPairs(res.Shared) {
		out.Shared = append(out.Shared, shared{A: p.A, B: p.B, Members: res.Shared[p]})
	}
	return encode(w, out)
}

// ExportJSON writes a hierarchy result to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(res *hierarchy.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(res, f)
}

// WriteForestJSON encodes a single forest as {"nodes": [...], "edges": [...]}.
func WriteForestJSON(f *hierarchy.Forest, w io.Writer) error {
	return encode(w, fromForest(f))
}

// WriteSnapshots encodes element snapshots as a JSON array.
func WriteSnapshots(snaps []*element.Snapshot, w io.Writer) error {
	if snaps == nil {
		snaps = []*element.Snapshot{}
	}
	return encode(w, snaps)
}
