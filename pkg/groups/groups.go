// Package groups indexes the group tags of document entities.
//
// Group tags are paths whose segments are joined by a backslash: an entity
// tagged `Frame\Walls` belongs to the group `Frame\Walls` and to every
// prefix of it, here `Frame`. [Build] materialises each prefix as a [Group]
// with parent and child links, records the groups of every entity, and
// groups entities by their exact membership pattern ([Signature]).
//
// Blank segments are named "(unnamed)" and entities without tags are placed
// in the synthetic group "Ungrouped".
package groups

import (
	"sort"
	"strings"
)

const (
	// Separator joins the segments of a group path.
	Separator = `\`

	// Unnamed replaces blank path segments.
	Unnamed = "(unnamed)"

	// Ungrouped is the group of entities without tags.
	Ungrouped = "Ungrouped"
)

// Tagged is an entity and its raw group tags.
type Tagged struct {
	ID   string
	Tags []string
}

// Group is one node of the explicit path hierarchy.
type Group struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`             // Last path segment
	Parent   string   `json:"parent,omitempty"` // Path of the enclosing group
	Children []string `json:"children"`         // Sorted child paths
	Members  []string `json:"members"`          // Sorted entity IDs
}

// Index is the result of Build.
type Index struct {
	Groups       map[string]*Group   `json:"groups"`
	EntityGroups map[string][]string `json:"entity_groups"` // Entity ID -> sorted group paths
	Signatures   map[string][]string `json:"signatures"`    // Signature -> entity IDs in input order
}

// SplitPath splits a tag into segments, naming blank segments Unnamed.
func SplitPath(tag string) []string {
	parts := strings.Split(tag, Separator)
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			parts[i] = Unnamed
		}
	}
	return parts
}

// JoinPath joins segments into a group path.
func JoinPath(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Signature returns the canonical key of a set of group paths: the paths
// sorted and joined by commas.
func Signature(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Build indexes entities by group. An entity listed twice contributes the
// union of its tags.
func Build(entities []Tagged) *Index {
	idx := &Index{
		Groups:       map[string]*Group{},
		EntityGroups: map[string][]string{},
		Signatures:   map[string][]string{},
	}
	members := map[string]map[string]bool{}  // group -> entity set
	children := map[string]map[string]bool{} // group -> child set
	entityGroups := map[string]map[string]bool{}
	var order []string

	add := func(path, name, parent, entity string) {
		g, ok := idx.Groups[path]
		if !ok {
			g = &Group{Path: path, Name: name}
			idx.Groups[path] = g
			members[path] = map[string]bool{}
			children[path] = map[string]bool{}
		}
		if g.Parent == "" && parent != "" {
			g.Parent = parent
		}
		if parent != "" {
			children[parent][path] = true
		}
		members[path][entity] = true
		entityGroups[entity][path] = true
	}

	for _, e := range entities {
		if _, seen := entityGroups[e.ID]; !seen {
			entityGroups[e.ID] = map[string]bool{}
			order = append(order, e.ID)
		}
		if len(e.Tags) == 0 {
			add(Ungrouped, Ungrouped, "", e.ID)
			continue
		}
		for _, tag := range e.Tags {
			parent := ""
			var chain []string
			for _, seg := range SplitPath(tag) {
				chain = append(chain, seg)
				path := JoinPath(chain...)
				add(path, seg, parent, e.ID)
				parent = path
			}
		}
	}

	for path, g := range idx.Groups {
		g.Members = sortedKeys(members[path])
		g.Children = sortedKeys(children[path])
	}
	for _, id := range order {
		paths := sortedKeys(entityGroups[id])
		idx.EntityGroups[id] = paths
		sig := Signature(paths)
		idx.Signatures[sig] = append(idx.Signatures[sig], id)
	}
	return idx
}

// Paths returns every group path in sorted order.
func (idx *Index) Paths() []string {
	paths := make([]string, 0, len(idx.Groups))
	for p := range idx.Groups {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Sorted returns every group ordered by path.
func (idx *Index) Sorted() []*Group {
	paths := idx.Paths()
	out := make([]*Group, len(paths))
	for i, p := range paths {
		out[i] = idx.Groups[p]
	}
	return out
}

// MemberSets returns the member set of every group.
func (idx *Index) MemberSets() map[string][]string {
	out := make(map[string][]string, len(idx.Groups))
	for p, g := range idx.Groups {
		out[p] = g.Members
	}
	return out
}

// SignatureKeys returns every signature in sorted order.
func (idx *Index) SignatureKeys() []string {
	return sortedKeys(idx.Signatures)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
