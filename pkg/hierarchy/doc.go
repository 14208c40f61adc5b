// Package hierarchy reconstructs a tree over groups from their member sets.
//
// # Overview
//
// Group tags in a document are often flat: nothing in the tag `Walls` says
// that it sits inside `Frame`. This package infers the nesting from
// membership alone. A group's parent is the closest enclosing group, the
// one whose member set is a strict superset with the fewest extra members:
//
//	G1 = {1, 2}        parent G2
//	G2 = {1, 2, 3}     parent G3
//	G3 = {1, 2, 3, 4}  root
//
// Groups without a strict superset are roots, so the result is a [Forest],
// not necessarily a single tree. Groups with equal member sets are never
// linked to each other.
//
// # Basic Usage
//
// [InferParents] maps each group to its parent, [BuildTree] turns that map
// into a [Forest], and [SharedMembers] reports which pairs of groups share
// entities. [Explicit] builds the forest given by the group paths
// themselves. A [Resolver] runs the whole pipeline over a document store:
//
//	r := &hierarchy.Resolver{Store: store, Logger: logger}
//	res, err := r.Resolve(ctx, nil)
//	res.Inferred.Walk(func(n *hierarchy.Node, depth int) error {
//	    fmt.Println(strings.Repeat("  ", depth), n.ID)
//	    return nil
//	})
//
// # Complexity
//
// Shared-member and superset computations compare every pair of groups and
// are O(G²) in the number of groups. Documents carry tens to low hundreds of
// groups, which keeps this well below a millisecond.
//
// # Concurrency
//
// Forest instances are not safe for concurrent mutation. A fully built
// forest may be read from several goroutines.
package hierarchy
