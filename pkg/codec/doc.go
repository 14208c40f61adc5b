// Package codec converts typed values to and from the flat string attributes
// stored on document objects.
//
// Values are written as literal lists: numbers and nested lists in square
// brackets (or parentheses), comma separated, with an optional trailing
// comma. This is the only persisted format, so every encoder here has a
// decoder that accepts its output and the looser text other writers produce:
//
//	[1.0, 2.5, [3, 4],]
//	((0, 0, 0), (0, 0, 5))
//
// Coordinate-bearing values are stored in an element's local frame. The
// polyline and vector codecs take a [geom.Frame]; encoders apply its inverse
// transform and decoders its forward transform. Passing an unset frame is an
// error ([ErrUnsetFrame]).
//
// The string "-" ([Absent]) marks a whole field as intentionally empty.
// Encoders never produce it for empty collections, which encode as "[]".
//
// Each persisted key is described by a [Field] in [Fields], with its value
// kind and the schema version it first appeared in.
package codec
