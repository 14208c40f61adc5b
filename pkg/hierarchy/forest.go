package hierarchy

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/joinery/pkg/groups"
)

var (
	// ErrInvalidNodeID is returned by [Forest.AddNode] when the node ID is
	// empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Forest.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Forest.SetParent] when either endpoint
	// does not exist, and by [Forest.Validate] when a parent link points to
	// a missing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrHasCycle is returned by [Forest.Validate] when following parent
	// links from some node returns to it.
	ErrHasCycle = errors.New("forest contains a cycle")
)

// Node is one group in a forest.
type Node struct {
	ID      string   // Group path
	Name    string   // Last path segment
	Members []string // Sorted entity IDs, if known
}

// Forest is a set of rooted trees over groups. Every node has at most one
// parent; nodes without a parent are roots.
//
// The zero value is not usable; use [NewForest].
type Forest struct {
	nodes    map[string]*Node
	parent   map[string]string   // nodeID -> parent ID
	children map[string][]string // nodeID -> sorted child IDs
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{
		nodes:    make(map[string]*Node),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
}

// AddNode adds a root node. A blank Name is derived from the last segment of
// the ID.
func (f *Forest) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := f.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Name == "" {
		segs := groups.SplitPath(n.ID)
		n.Name = segs[len(segs)-1]
	}
	f.nodes[n.ID] = &n
	return nil
}

// SetParent makes parent the parent of child, replacing any previous link.
// An empty parent turns child into a root.
func (f *Forest) SetParent(child, parent string) error {
	if _, ok := f.nodes[child]; !ok {
		return ErrUnknownNode
	}
	if parent != "" {
		if _, ok := f.nodes[parent]; !ok {
			return ErrUnknownNode
		}
	}
	if old, ok := f.parent[child]; ok {
		f.children[old] = slices.DeleteFunc(f.children[old], func(s string) bool { return s == child })
		delete(f.parent, child)
	}
	if parent == "" {
		return nil
	}
	f.parent[child] = parent
	kids := f.children[parent]
	i, _ := slices.BinarySearch(kids, child)
	f.children[parent] = slices.Insert(kids, i, child)
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not
// found.
func (f *Forest) Node(id string) (*Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Nodes returns all nodes ordered by ID.
func (f *Forest) Nodes() []*Node {
	ids := slices.Sorted(maps.Keys(f.nodes))
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = f.nodes[id]
	}
	return out
}

// Len returns the number of nodes.
func (f *Forest) Len() int { return len(f.nodes) }

// Roots returns the IDs of nodes without a parent, sorted.
func (f *Forest) Roots() []string {
	var roots []string
	for id := range f.nodes {
		if _, ok := f.parent[id]; !ok {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// Children returns the sorted child IDs of a node. The returned slice should
// not be modified.
func (f *Forest) Children(id string) []string { return f.children[id] }

// Parent returns the parent of a node and whether it has one.
func (f *Forest) Parent(id string) (string, bool) {
	p, ok := f.parent[id]
	return p, ok
}

// Parents returns a copy of the parent links, child ID to parent ID.
func (f *Forest) Parents() map[string]string { return maps.Clone(f.parent) }

// Depth returns the number of ancestors of a node: 0 for roots and -1 for
// unknown nodes or nodes on a cycle.
func (f *Forest) Depth(id string) int {
	if _, ok := f.nodes[id]; !ok {
		return -1
	}
	depth := 0
	for cur := id; ; depth++ {
		p, ok := f.parent[cur]
		if !ok {
			return depth
		}
		if depth > len(f.nodes) {
			return -1
		}
		cur = p
	}
}

// WalkFunc is called for every node visited by [Forest.Walk]. Returning a
// non-nil error stops the walk.
type WalkFunc func(n *Node, depth int) error

// Walk visits every node reachable from a root in depth-first pre-order,
// roots and children in ID order.
func (f *Forest) Walk(fn WalkFunc) error {
	var visit func(id string, depth int) error
	visit = func(id string, depth int) error {
		if err := fn(f.nodes[id], depth); err != nil {
			return err
		}
		for _, c := range f.children[id] {
			if err := visit(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range f.Roots() {
		if err := visit(r, 0); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that every parent link joins existing nodes and that no
// node is its own ancestor. Inferred forests are acyclic by construction;
// Validate is for forests assembled by hand or read from a file.
//
// Cycle detection runs in O(N) time using white/gray/black coloring.
func (f *Forest) Validate() error {
	for child, parent := range f.parent {
		if _, ok := f.nodes[child]; !ok {
			return ErrUnknownNode
		}
		if _, ok := f.nodes[parent]; !ok {
			return ErrUnknownNode
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(f.nodes))
	for id := range f.nodes {
		var path []string
		for cur := id; color[cur] == white; {
			color[cur] = gray
			path = append(path, cur)
			p, ok := f.parent[cur]
			if !ok {
				break
			}
			if color[p] == gray {
				return ErrHasCycle
			}
			cur = p
		}
		for _, p := range path {
			color[p] = black
		}
	}
	return nil
}
