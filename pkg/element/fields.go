package element

import (
	"context"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

func orAbsent(s string) string {
	if s == "" {
		return codec.Absent
	}
	return s
}

// Name returns the element name, or "" if none was set.
func (e *Element) Name(ctx context.Context) (string, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return "", err
	}
	return v.str(codec.KeyName), nil
}

// SetName sets the element name. An empty name clears it.
func (e *Element) SetName(ctx context.Context, name string) error {
	return e.write(ctx, map[string]string{codec.KeyName: orAbsent(name)})
}

// Type returns the element type, TypeBeam if none was set.
func (e *Element) Type(ctx context.Context) (string, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return "", err
	}
	return v.elementType(), nil
}

// SetType sets the element type.
func (e *Element) SetType(ctx context.Context, t string) error {
	return e.write(ctx, map[string]string{codec.KeyElementType: orAbsent(t)})
}

// Parent returns the parent element name, or "" if none was set.
func (e *Element) Parent(ctx context.Context) (string, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return "", err
	}
	return v.str(codec.KeyParent), nil
}

// SetParent sets the parent element name. An empty name clears it.
func (e *Element) SetParent(ctx context.Context, parent string) error {
	return e.write(ctx, map[string]string{codec.KeyParent: orAbsent(parent)})
}

// Index returns the element index, NoIndex if none was set.
func (e *Element) Index(ctx context.Context) (int, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return NoIndex, err
	}
	return v.index()
}

// SetIndex sets the element index.
func (e *Element) SetIndex(ctx context.Context, index int) error {
	return e.write(ctx, map[string]string{codec.KeyIndex: codec.EncodeInt(index)})
}

// Neighbours returns the indices of adjacent elements.
func (e *Element) Neighbours(ctx context.Context) ([]int, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return nil, err
	}
	return v.neighbours()
}

// SetNeighbours sets the indices of adjacent elements.
func (e *Element) SetNeighbours(ctx context.Context, ns []int) error {
	return e.write(ctx, map[string]string{codec.KeyNeighbours: codec.EncodeInts(ns)})
}

// Features returns the stored feature geometry in world space, ordered by
// feature number.
func (e *Element) Features(ctx context.Context) ([]geom.Geometry, error) {
	v, err := e.read(ctx, true)
	if err != nil {
		return nil, err
	}
	return v.features()
}

// FeatureCount returns the number of stored features.
func (e *Element) FeatureCount(ctx context.Context) (int, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return 0, err
	}
	return v.featureCount(), nil
}

// AppendFeatures stores features after the existing ones. Existing feature
// keys are never overwritten. Appending nothing is a no-op.
func (e *Element) AppendFeatures(ctx context.Context, features []geom.Geometry) error {
	if len(features) == 0 {
		return nil
	}
	v, err := e.read(ctx, true)
	if err != nil {
		return err
	}
	next := v.nextFeature()
	if !v.frame.IsSet() {
		return errors.Attribute(errors.ErrCodeUnsetFrame, e.shape, codec.FeatureKey(next), codec.ErrUnsetFrame)
	}
	attrs := make(map[string]string, len(features))
	for i, g := range features {
		key := codec.FeatureKey(next + i)
		text, err := codec.EncodeGeometry(g, v.frame, e.ser)
		if err != nil {
			return attrErr(e.shape, key, err)
		}
		attrs[key] = text
	}
	return e.write(ctx, attrs)
}

// ClearFeatures removes every stored feature.
func (e *Element) ClearFeatures(ctx context.Context) error {
	v, err := e.read(ctx, false)
	if err != nil {
		return err
	}
	keys := v.featureKeys()
	if len(keys) == 0 {
		return nil
	}
	return e.store.DeleteAttributes(ctx, e.shape, keys...)
}

// Axes returns the element axes in world space.
func (e *Element) Axes(ctx context.Context) ([]geom.Polyline, error) {
	v, err := e.read(ctx, true)
	if err != nil {
		return nil, err
	}
	return v.axes()
}

// SetAxes stores axes given in world space.
func (e *Element) SetAxes(ctx context.Context, axes []geom.Polyline) error {
	f, err := e.frameFor(ctx, codec.KeyAxes)
	if err != nil {
		return err
	}
	text, err := codec.EncodePolylines(axes, f)
	if err != nil {
		return attrErr(e.shape, codec.KeyAxes, err)
	}
	return e.write(ctx, map[string]string{codec.KeyAxes: text})
}

// Radii returns one list of radii per axis, one radius per segment.
func (e *Element) Radii(ctx context.Context) ([][]float64, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return nil, err
	}
	return v.radii()
}

// SetRadii stores radii exactly as given.
func (e *Element) SetRadii(ctx context.Context, radii [][]float64) error {
	if err := codec.CheckFiniteLists(radii); err != nil {
		return attrErr(e.shape, codec.KeyRadii, err)
	}
	return e.write(ctx, map[string]string{codec.KeyRadii: codec.EncodeFloatLists(radii)})
}

// SetRadiiCyclic assigns radii to the segments of the stored axes, reusing
// the values round-robin when there are fewer values than segments.
func (e *Element) SetRadiiCyclic(ctx context.Context, radii []float64) error {
	if err := codec.CheckFinite(radii...); err != nil {
		return attrErr(e.shape, codec.KeyRadii, err)
	}
	counts, err := e.segmentCounts(ctx)
	if err != nil {
		return err
	}
	return e.SetRadii(ctx, codec.MatchCyclic(radii, counts))
}

func (e *Element) segmentCounts(ctx context.Context) ([]int, error) {
	axes, err := e.Axes(ctx)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(axes))
	for i, a := range axes {
		counts[i] = a.SegmentCount()
	}
	return counts, nil
}

// Thickness returns the plate thickness. It fails with an ABSENT_FIELD error
// if no thickness was stored, since no default is safe.
func (e *Element) Thickness(ctx context.Context) (float64, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return 0, err
	}
	return v.thickness()
}

// SetThickness stores the plate thickness. Zero is a valid thickness.
func (e *Element) SetThickness(ctx context.Context, t float64) error {
	if err := codec.CheckFinite(t); err != nil {
		return attrErr(e.shape, codec.KeyThickness, err)
	}
	return e.write(ctx, map[string]string{codec.KeyThickness: codec.EncodeFloat(t)})
}

// ClearThickness marks the thickness as absent.
func (e *Element) ClearThickness(ctx context.Context) error {
	return e.write(ctx, map[string]string{codec.KeyThickness: codec.Absent})
}

// PairPolylines returns the stored polyline pairs in world space.
func (e *Element) PairPolylines(ctx context.Context) ([]codec.Pair, error) {
	v, err := e.read(ctx, true)
	if err != nil {
		return nil, err
	}
	return v.pairPolylines()
}

// SetPairPolylines stores polyline pairs given in world space.
func (e *Element) SetPairPolylines(ctx context.Context, pairs []codec.Pair) error {
	f, err := e.frameFor(ctx, codec.KeyPairPolyline)
	if err != nil {
		return err
	}
	text, err := codec.EncodePolylinePairs(pairs, f)
	if err != nil {
		return attrErr(e.shape, codec.KeyPairPolyline, err)
	}
	return e.write(ctx, map[string]string{codec.KeyPairPolyline: text})
}

// Insertion returns the insertion directions in world space. Without stored
// directions it returns one empty list per polyline pair.
func (e *Element) Insertion(ctx context.Context) ([][]geom.Vector3, error) {
	v, err := e.read(ctx, true)
	if err != nil {
		return nil, err
	}
	return v.insertion()
}

// SetInsertion stores insertion directions given in world space.
func (e *Element) SetInsertion(ctx context.Context, vs [][]geom.Vector3) error {
	f, err := e.frameFor(ctx, codec.KeyInsertion)
	if err != nil {
		return err
	}
	text, err := codec.EncodeVectorLists(vs, f)
	if err != nil {
		return attrErr(e.shape, codec.KeyInsertion, err)
	}
	return e.write(ctx, map[string]string{codec.KeyInsertion: text})
}

// SetInsertionCyclic assigns directions to the segments of the stored axes,
// reusing them round-robin.
func (e *Element) SetInsertionCyclic(ctx context.Context, dirs []geom.Vector3) error {
	for _, d := range dirs {
		if err := codec.CheckFinite(d.X, d.Y, d.Z); err != nil {
			return attrErr(e.shape, codec.KeyInsertion, err)
		}
	}
	counts, err := e.segmentCounts(ctx)
	if err != nil {
		return err
	}
	return e.SetInsertion(ctx, codec.MatchCyclic(dirs, counts))
}

// ClearInsertion marks the insertion directions as absent.
func (e *Element) ClearInsertion(ctx context.Context) error {
	return e.write(ctx, map[string]string{codec.KeyInsertion: codec.Absent})
}

// JointTypes returns the joint types of each polyline pair. Without stored
// joint types it returns one empty list per polyline pair.
func (e *Element) JointTypes(ctx context.Context) ([][]int, error) {
	v, err := e.read(ctx, false)
	if err != nil {
		return nil, err
	}
	return v.jointTypes()
}

// SetJointTypes stores joint types, one list per polyline pair.
func (e *Element) SetJointTypes(ctx context.Context, jt [][]int) error {
	return e.write(ctx, map[string]string{codec.KeyJointTypes: codec.EncodeIntLists(jt)})
}

// ClearJointTypes marks the joint types as absent.
func (e *Element) ClearJointTypes(ctx context.Context) error {
	return e.write(ctx, map[string]string{codec.KeyJointTypes: codec.Absent})
}
