// Package element is a typed view over a fabrication element stored in a
// [docstore.Store].
//
// An element is two store objects: the shape, which carries every attribute,
// and a 3-point marker polyline that defines the element's local frame (see
// [geom.Resolve]). An [Element] holds only the store handle and the two IDs.
// Every getter re-reads the attribute map and every setter writes through in a
// single SetAttributes call, so the store is always the source of truth.
//
// # Fields
//
//	name, element_type, parent   plain strings
//	index                        integer, -1 when absent
//	neighbours                   integer list
//	feature_0 ... feature_n      serialised geometry, frame-local
//	axes                         polylines, frame-local
//	radii                        one float per axis segment
//	thickness                    float; absent is an error
//	pair_polyline                polyline pairs, frame-local ("volumes" is read too)
//	insertion                    directions per axis segment, frame-local
//	joint_types                  integer list per polyline pair
//
// Absent fields read as their default. Writers use "-" to mark a field as
// deliberately empty and "[]" for an empty collection.
//
// # Usage
//
//	e, err := element.Create(ctx, store, element.Spec{
//	    Shape: mesh,
//	    Name:  "rafter",
//	    Axes:  []geom.Polyline{{{}, {Z: 5}}},
//	})
//	axes, err := e.Axes(ctx)
package element
