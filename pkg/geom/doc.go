// Package geom provides the small amount of 3-D geometry joinery needs:
// points, vectors, polylines, affine transforms, a tagged [Geometry] value
// for document objects, and the [Frame] resolver.
//
// # Frames
//
// Every element carries a marker: a polyline with exactly three points. The
// middle point is the frame origin, the vectors to the first and last points
// are the X and Y directions:
//
//	f := geom.Resolve(geom.Polyline{{X: 1}, {}, {Y: 1}})
//	f.Origin // (0,0,0)
//
// A marker with any other point count, or one whose points are collinear,
// resolves to [Unset]. Resolution never fails loudly; callers check
// [Frame.IsSet].
//
// [Frame.Forward] maps local coordinates into world space and
// [Frame.Inverse] maps world coordinates back. The axes are orthonormalised
// the way CAD planes are: X is normalised, Z = X × Y, and Y is recomputed as
// Z × X, so the pair is always a rigid motion and
// Inverse·Forward is the identity up to floating-point error.
package geom
