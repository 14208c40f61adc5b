package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/joinery/pkg/groups"
	"github.com/matzehuels/joinery/pkg/hierarchy"
)

// ReadJSON decodes a hierarchy result written by [WriteJSON].
//
// The group index is rebuilt from the group list, including entity
// memberships and signatures. Both forests are validated. ReadJSON returns
// an error if:
//   - The JSON is malformed
//   - A group or node appears twice
//   - An edge references an unknown node
//   - A forest contains a cycle
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*hierarchy.Result, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	idx, err := toIndex(data.Groups)
	if err != nil {
		return nil, err
	}
	inferred, err := toForest(data.Inferred)
	if err != nil {
		return nil, fmt.Errorf("inferred: %w", err)
	}
	explicit, err := toForest(data.Explicit)
	if err != nil {
		return nil, fmt.Errorf("explicit: %w", err)
	}

	parents := make(map[string]string, inferred.Len())
	for _, n := range inferred.Nodes() {
		parents[n.ID], _ = inferred.Parent(n.ID)
	}
	sh := make(map[hierarchy.Pair][]string, len(data.Shared))
	for _, s := range data.Shared {
		sh[hierarchy.NewPair(s.A, s.B)] = s.Members
	}
	return &hierarchy.Result{
		Index:    idx,
		Parents:  parents,
		Inferred: inferred,
		Explicit: explicit,
		Shared:   sh,
		Skipped:  data.Skipped,
	}, nil
}

// ReadForestJSON decodes a forest written by [WriteForestJSON].
func ReadForestJSON(r io.Reader) (*hierarchy.Forest, error) {
	var data forest
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return toForest(data)
}

func toForest(data forest) (*hierarchy.Forest, error) {
	f := hierarchy.NewForest()
	for _, n := range data.Nodes {
		if err := f.AddNode(hierarchy.Node{ID: n.ID, Name: n.Name, Members: n.Members}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := f.SetParent(e.To, e.From); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func toIndex(gs []*groups.Group) (*groups.Index, error) {
	idx := &groups.Index{
		Groups:       make(map[string]*groups.Group, len(gs)),
		EntityGroups: map[string][]string{},
		Signatures:   map[string][]string{},
	}
	for _, g := range gs {
		if _, dup := idx.Groups[g.Path]; dup {
			return nil, fmt.Errorf("group %s: duplicate path", g.Path)
		}
		idx.Groups[g.Path] = g
		for _, m := range g.Members {
			idx.EntityGroups[m] = append(idx.EntityGroups[m], g.Path)
		}
	}
	ids := make([]string, 0, len(idx.EntityGroups))
	for id, paths := range idx.EntityGroups {
		slices.Sort(paths)
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		sig := groups.Signature(idx.EntityGroups[id])
		idx.Signatures[sig] = append(idx.Signatures[sig], id)
	}
	return idx, nil
}

// ImportJSON reads a JSON file at path and returns the decoded result.
func ImportJSON(path string) (*hierarchy.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
