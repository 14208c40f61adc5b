package element

import (
	"context"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// DefaultMarkerScale is the arm length of markers written by Create.
const DefaultMarkerScale = 0.1

// Spec describes an element to create. Only Shape is required; every other
// field has the default documented on it.
type Spec struct {
	Shape geom.Geometry

	// Frame places the marker. Default geom.WorldXY.
	Frame       geom.Frame
	MarkerScale float64 // Default DefaultMarkerScale

	Name       string // Default absent
	Type       string // Default TypeBeam
	Parent     string // Default absent
	Index      *int   // Default absent, read as NoIndex
	Neighbours []int  // Default absent

	Features []geom.Geometry // World space

	// Axes in world space. Default is one vertical axis from the frame
	// origin with the height of the shape's bounding box.
	Axes []geom.Polyline

	// Radii are matched to axis segments round-robin. Default is half the
	// bounding-box width.
	Radii []float64

	// Insertion directions in world space, matched to axis segments
	// round-robin for beams. Default is the frame X axis. Plates and other
	// types store them as absent.
	Insertion []geom.Vector3

	Thickness     *float64     // Default absent
	PairPolylines []codec.Pair // World space, default absent
	JointTypes    [][]int      // Default absent

	// Group tags both objects. Default is a fresh UUID.
	Group string
}

// Create stores a new element: the shape, a marker for spec.Frame, a group
// tag shared by both and the full attribute set, written in one call. If a
// step fails, the objects created so far are deleted again.
func Create(ctx context.Context, store docstore.Store, spec Spec, opts ...Option) (_ *Element, err error) {
	frame := spec.Frame
	if frame == (geom.Frame{}) {
		frame = geom.WorldXY
	}
	if !frame.IsSet() {
		return nil, errors.Wrap(errors.ErrCodeUnsetFrame, codec.ErrUnsetFrame, "create element")
	}
	scale := spec.MarkerScale
	if scale <= 0 {
		scale = DefaultMarkerScale
	}
	if spec.Type == "" {
		spec.Type = TypeBeam
	}
	group := spec.Group
	if group == "" {
		group = uuid.NewString()
	}

	var created []string
	defer func() {
		if err == nil {
			return
		}
		cleanup := context.WithoutCancel(ctx)
		for _, id := range created {
			_ = store.Delete(cleanup, id)
		}
	}()

	shapeID, err := store.Create(ctx, spec.Shape)
	if err != nil {
		return nil, err
	}
	created = append(created, shapeID)
	markerID, err := store.Create(ctx, geom.NewPolyline(geom.MarkerFor(frame, scale)))
	if err != nil {
		return nil, err
	}
	created = append(created, markerID)
	e := newElement(store, shapeID, markerID, opts...)

	attrs, err := e.initialAttributes(spec, frame)
	if err != nil {
		return nil, err
	}
	if err := store.SetAttributes(ctx, shapeID, attrs); err != nil {
		return nil, err
	}
	for _, id := range []string{shapeID, markerID} {
		if err := docstore.AddGroupTag(ctx, store, id, group); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Element) initialAttributes(spec Spec, frame geom.Frame) (map[string]string, error) {
	attrs := map[string]string{
		codec.KeySchema:       strconv.Itoa(codec.SchemaVersion),
		codec.KeyName:         orAbsent(spec.Name),
		codec.KeyElementType:  spec.Type,
		codec.KeyParent:       orAbsent(spec.Parent),
		codec.KeyIndex:        codec.Absent,
		codec.KeyNeighbours:   codec.Absent,
		codec.KeyThickness:    codec.Absent,
		codec.KeyPairPolyline: codec.Absent,
		codec.KeyJointTypes:   codec.Absent,
	}
	if spec.Index != nil {
		attrs[codec.KeyIndex] = codec.EncodeInt(*spec.Index)
	}
	if len(spec.Neighbours) > 0 {
		attrs[codec.KeyNeighbours] = codec.EncodeInts(spec.Neighbours)
	}
	if spec.Thickness != nil {
		if err := codec.CheckFinite(*spec.Thickness); err != nil {
			return nil, attrErr(e.shape, codec.KeyThickness, err)
		}
		attrs[codec.KeyThickness] = codec.EncodeFloat(*spec.Thickness)
	}
	if len(spec.JointTypes) > 0 {
		attrs[codec.KeyJointTypes] = codec.EncodeIntLists(spec.JointTypes)
	}

	for i, g := range spec.Features {
		key := codec.FeatureKey(i)
		text, err := codec.EncodeGeometry(g, frame, e.ser)
		if err != nil {
			return nil, attrErr(e.shape, key, err)
		}
		attrs[key] = text
	}

	if len(spec.PairPolylines) > 0 {
		text, err := codec.EncodePolylinePairs(spec.PairPolylines, frame)
		if err != nil {
			return nil, attrErr(e.shape, codec.KeyPairPolyline, err)
		}
		attrs[codec.KeyPairPolyline] = text
	}

	width, height := extents(spec.Shape)
	axes := spec.Axes
	if len(axes) == 0 {
		// The default axis is already frame-local.
		axes = []geom.Polyline{{{}, {Z: height}}}
		text, err := codec.EncodePolylines(axes, geom.WorldXY)
		if err != nil {
			return nil, attrErr(e.shape, codec.KeyAxes, err)
		}
		attrs[codec.KeyAxes] = text
	} else {
		text, err := codec.EncodePolylines(axes, frame)
		if err != nil {
			return nil, attrErr(e.shape, codec.KeyAxes, err)
		}
		attrs[codec.KeyAxes] = text
	}

	counts := make([]int, len(axes))
	for i, a := range axes {
		counts[i] = a.SegmentCount()
	}

	radii := [][]float64{{0.5 * width}}
	if len(spec.Radii) > 0 {
		if err := codec.CheckFinite(spec.Radii...); err != nil {
			return nil, attrErr(e.shape, codec.KeyRadii, err)
		}
		radii = codec.MatchCyclic(spec.Radii, counts)
	}
	if err := codec.CheckFiniteLists(radii); err != nil {
		return nil, attrErr(e.shape, codec.KeyRadii, err)
	}
	attrs[codec.KeyRadii] = codec.EncodeFloatLists(radii)

	switch {
	case len(spec.Insertion) == 0:
		attrs[codec.KeyInsertion] = codec.EncodeFloatLists([][]float64{{1, 0, 0}})
	case spec.Type == TypeBeam:
		text, err := codec.EncodeVectorLists(codec.MatchCyclic(spec.Insertion, counts), frame)
		if err != nil {
			return nil, attrErr(e.shape, codec.KeyInsertion, err)
		}
		attrs[codec.KeyInsertion] = text
	default:
		attrs[codec.KeyInsertion] = codec.Absent
	}
	return attrs, nil
}

// extents returns the X width and Z height of g's bounding box.
func extents(g geom.Geometry) (width, height float64) {
	min, max, ok := g.BoundingBox()
	if !ok {
		return 0, 0
	}
	return math.Abs(max.X - min.X), math.Abs(max.Z - min.Z)
}
