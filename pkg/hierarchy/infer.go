package hierarchy

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/joinery/pkg/groups"
)

// Pair is an unordered pair of groups, stored with A < B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair returns the canonical pair of a and b.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) String() string { return p.A + " & " + p.B }

// SharedMembers returns, for every pair of groups that have an entity in
// common, the sorted IDs of the entities they share. Entities in fewer than
// two groups contribute nothing.
func SharedMembers(entityGroups map[string][]string) map[Pair][]string {
	shared := make(map[Pair][]string)
	for _, id := range slices.Sorted(maps.Keys(entityGroups)) {
		gs := slices.Compact(slices.Sorted(slices.Values(entityGroups[id])))
		for i := 0; i < len(gs); i++ {
			for j := i + 1; j < len(gs); j++ {
				p := Pair{A: gs[i], B: gs[j]}
				shared[p] = append(shared[p], id)
			}
		}
	}
	return shared
}

// SortedPairs returns the keys of a shared-member map in order.
func SortedPairs(shared map[Pair][]string) []Pair {
	pairs := slices.Collect(maps.Keys(shared))
	slices.SortFunc(pairs, func(x, y Pair) int {
		if c := strings.Compare(x.A, y.A); c != 0 {
			return c
		}
		return strings.Compare(x.B, y.B)
	})
	return pairs
}

// InferParents maps every group to its closest enclosing group: among the
// groups whose member set is a strict superset, the one with the fewest
// extra members. Ties go to the candidate that sorts first by name. Groups
// without a strict superset map to "" and become roots.
func InferParents(memberSets map[string][]string) map[string]string {
	names := slices.Sorted(maps.Keys(memberSets))
	sets := make(map[string]map[string]bool, len(names))
	for _, g := range names {
		set := make(map[string]bool, len(memberSets[g]))
		for _, m := range memberSets[g] {
			set[m] = true
		}
		sets[g] = set
	}

	parents := make(map[string]string, len(names))
	for _, g := range names {
		best, bestExtra := "", -1
		for _, h := range names {
			if h == g || !strictSuperset(sets[h], sets[g]) {
				continue
			}
			extra := len(sets[h]) - len(sets[g])
			if bestExtra < 0 || extra < bestExtra {
				best, bestExtra = h, extra
			}
		}
		parents[g] = best
	}
	return parents
}

func strictSuperset(super, sub map[string]bool) bool {
	if len(super) <= len(sub) {
		return false
	}
	for m := range sub {
		if !super[m] {
			return false
		}
	}
	return true
}

// BuildTree turns a parent map into a forest. Every key and every non-empty
// value becomes a node; keys mapped to "" are roots.
func BuildTree(parents map[string]string) *Forest {
	f := NewForest()
	for _, id := range slices.Sorted(maps.Keys(parents)) {
		_ = f.AddNode(Node{ID: id})
	}
	for _, id := range slices.Sorted(maps.Keys(parents)) {
		p := parents[id]
		if p == "" {
			continue
		}
		if _, ok := f.Node(p); !ok {
			_ = f.AddNode(Node{ID: p})
		}
		_ = f.SetParent(id, p)
	}
	return f
}

// Infer builds the inferred forest of an index, with members attached.
func Infer(idx *groups.Index) *Forest {
	f := BuildTree(InferParents(idx.MemberSets()))
	attach(f, idx)
	return f
}

// Explicit builds the forest given by the group paths of an index: the
// parent of `A\B` is `A`.
func Explicit(idx *groups.Index) *Forest {
	f := NewForest()
	for _, g := range idx.Sorted() {
		_ = f.AddNode(Node{ID: g.Path, Name: g.Name})
	}
	for _, g := range idx.Sorted() {
		if g.Parent != "" {
			_ = f.SetParent(g.Path, g.Parent)
		}
	}
	attach(f, idx)
	return f
}

func attach(f *Forest, idx *groups.Index) {
	for _, n := range f.Nodes() {
		if g, ok := idx.Groups[n.ID]; ok {
			n.Name = g.Name
			n.Members = g.Members
		}
	}
}
