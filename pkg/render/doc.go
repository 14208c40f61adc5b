// Package render turns resolved group hierarchies into human-readable output.
//
// # Overview
//
// This package writes the plain-text reports used by the CLI:
//
//   - [Tree]: an indented listing of a [hierarchy.Forest], one `- path (name)`
//     line per group, children four spaces deeper than their parent
//   - [Structure]: every group with its name, parent, children and members
//   - [Shared]: the pairs of groups that have members in common
//
// Reports write to an io.Writer and are deterministic: groups and pairs are
// listed in sorted order.
//
//	res, _ := resolver.Resolve(ctx, nil)
//	render.Tree(os.Stdout, res.Inferred)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders a forest as a Graphviz diagram, either
// as DOT source or as SVG.
//
//	dot := nodelink.ToDOT(res.Inferred, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/joinery/pkg/render/nodelink
package render
