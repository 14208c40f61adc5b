package hierarchy_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/joinery/pkg/hierarchy"
)

func ExampleInferParents() {
	parents := hierarchy.InferParents(map[string][]string{
		"G1": {"1", "2"},
		"G2": {"1", "2", "3"},
		"G3": {"1", "2", "3", "4"},
	})
	forest := hierarchy.BuildTree(parents)

	_ = forest.Walk(func(n *hierarchy.Node, depth int) error {
		fmt.Println(strings.Repeat("  ", depth) + n.ID)
		return nil
	})
	// Output:
	// G3
	//   G2
	//     G1
}
