// Package io provides JSON import and export for group hierarchies and
// element snapshots.
//
// # Overview
//
// This package serializes the result of a hierarchy resolution so that
// external tools can read it without access to the document store, and so
// that a resolution can be cached and reloaded.
//
// # JSON Format
//
//	{
//	  "groups": [
//	    {"path": "Frame", "name": "Frame", "children": ["Frame\\Walls"], "members": ["a", "b"]},
//	    {"path": "Frame\\Walls", "name": "Walls", "parent": "Frame", "children": [], "members": ["a"]}
//	  ],
//	  "inferred": {
//	    "nodes": [{"id": "Frame", "name": "Frame"}, {"id": "Frame\\Walls", "name": "Walls"}],
//	    "edges": [{"from": "Frame", "to": "Frame\\Walls"}]
//	  },
//	  "explicit": {"nodes": [...], "edges": [...]},
//	  "shared": [{"a": "Frame", "b": "Frame\\Walls", "members": ["a"]}],
//	  "skipped": []
//	}
//
// Edges point from parent to child. Nodes, edges and pairs are written in
// sorted order, so equal results give byte-identical files.
//
// # Import
//
// Use [ImportJSON] to read a result from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the forests: an edge to an unknown group
// or a cycle is an error.
//
//	res, err := io.ImportJSON("groups.json")
//
// # Export
//
// Use [ExportJSON] or [WriteJSON]. [WriteForestJSON] writes a single forest
// and [WriteSnapshots] writes element snapshots as a JSON array.
package io
