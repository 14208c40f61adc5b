// Package nodelink renders group forests as node-link diagrams.
//
// # Overview
//
// Groups appear as rounded boxes and every parent links to its children
// with an arrow. The diagram is laid out top to bottom, so roots sit at the
// top of the picture.
//
// # Usage
//
// Convert a forest to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(forest, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the simple name and member count
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
