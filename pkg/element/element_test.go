package element

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/docstore/memstore"
	perrors "github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

var (
	worldMarker = geom.Polyline{{X: 1}, {}, {Y: 1}}
	movedMarker = geom.Polyline{{X: 11, Y: 5, Z: 2}, {X: 10, Y: 5, Z: 2}, {X: 10, Y: 6, Z: 2}}
	box         = geom.NewMesh([]geom.Point3{{}, {X: 2, Y: 1, Z: 4}}, nil)
)

// countingStore records how many SetAttributes calls reach the store.
type countingStore struct {
	docstore.Store
	sets int
}

func (s *countingStore) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	s.sets++
	return s.Store.SetAttributes(ctx, id, attrs)
}

func newTestElement(t *testing.T, marker geom.Polyline) (*Element, *countingStore) {
	t.Helper()
	ctx := context.Background()
	store := &countingStore{Store: memstore.New()}
	shape, err := store.Create(ctx, box)
	if err != nil {
		t.Fatal(err)
	}
	m, err := store.Create(ctx, geom.NewPolyline(marker))
	if err != nil {
		t.Fatal(err)
	}
	e, err := Open(ctx, store, shape, m)
	if err != nil {
		t.Fatal(err)
	}
	return e, store
}

func attr(t *testing.T, e *Element, key string) string {
	t.Helper()
	v, _, err := docstore.GetAttribute(context.Background(), e.store, e.ID(), key)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestOpenMissingObject(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	shape, _ := store.Create(ctx, box)
	if _, err := Open(ctx, store, shape, "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestAxesIdentityFrame(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)
	axis := geom.Polyline{{}, {Z: 5}}

	if err := e.SetAxes(ctx, []geom.Polyline{axis}); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyAxes); got != "[[0.0, 0.0, 0.0, 0.0, 0.0, 5.0]]" {
		t.Errorf("stored axes = %q", got)
	}

	axes, err := e.Axes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(axes) != 1 || !axes[0].Near(axis, geom.Tolerance) {
		t.Errorf("Axes() = %v, want [%v]", axes, axis)
	}
}

func TestAxesMovedFrame(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, movedMarker)
	axis := geom.Polyline{{X: 10, Y: 5, Z: 2}, {X: 10, Y: 5, Z: 7}, {X: 12, Y: 5, Z: 7}}

	if err := e.SetAxes(ctx, []geom.Polyline{axis}); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyAxes); got != "[[0.0, 0.0, 0.0, 0.0, 0.0, 5.0, 2.0, 0.0, 5.0]]" {
		t.Errorf("stored axes = %q, want frame-local coordinates", got)
	}
	axes, _ := e.Axes(ctx)
	if !axes[0].Near(axis, geom.Tolerance) {
		t.Errorf("Axes() = %v, want %v", axes[0], axis)
	}
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)

	if name, err := e.Name(ctx); err != nil || name != "" {
		t.Errorf("Name() = %q, %v", name, err)
	}
	if typ, _ := e.Type(ctx); typ != TypeBeam {
		t.Errorf("Type() = %q, want %q", typ, TypeBeam)
	}
	if idx, err := e.Index(ctx); err != nil || idx != NoIndex {
		t.Errorf("Index() = %d, %v; want -1", idx, err)
	}
	if ns, _ := e.Neighbours(ctx); len(ns) != 0 {
		t.Errorf("Neighbours() = %v", ns)
	}
	if axes, _ := e.Axes(ctx); len(axes) != 0 {
		t.Errorf("Axes() = %v", axes)
	}
	if n, _ := e.FeatureCount(ctx); n != 0 {
		t.Errorf("FeatureCount() = %d", n)
	}
}

func TestAbsentMarkerReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)
	_ = e.store.SetAttributes(ctx, e.ID(), map[string]string{
		codec.KeyName:       codec.Absent,
		codec.KeyIndex:      codec.Absent,
		codec.KeyNeighbours: codec.Absent,
		codec.KeyAxes:       codec.Absent,
	})

	if name, _ := e.Name(ctx); name != "" {
		t.Errorf("Name() = %q", name)
	}
	if idx, _ := e.Index(ctx); idx != NoIndex {
		t.Errorf("Index() = %d", idx)
	}
	if ns, err := e.Neighbours(ctx); err != nil || len(ns) != 0 {
		t.Errorf("Neighbours() = %v, %v", ns, err)
	}
	if axes, err := e.Axes(ctx); err != nil || len(axes) != 0 {
		t.Errorf("Axes() = %v, %v", axes, err)
	}
}

func TestScalarFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, store := newTestElement(t, worldMarker)

	if err := e.SetName(ctx, "rafter"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetType(ctx, TypePlate); err != nil {
		t.Fatal(err)
	}
	if err := e.SetParent(ctx, "roof"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetIndex(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if err := e.SetNeighbours(ctx, []int{1, 3}); err != nil {
		t.Fatal(err)
	}
	if store.sets != 5 {
		t.Errorf("SetAttributes calls = %d, want one per setter", store.sets)
	}

	if v, _ := e.Name(ctx); v != "rafter" {
		t.Errorf("Name() = %q", v)
	}
	if v, _ := e.Type(ctx); v != TypePlate {
		t.Errorf("Type() = %q", v)
	}
	if v, _ := e.Parent(ctx); v != "roof" {
		t.Errorf("Parent() = %q", v)
	}
	if v, _ := e.Index(ctx); v != 7 {
		t.Errorf("Index() = %d", v)
	}
	if v, _ := e.Neighbours(ctx); !reflect.DeepEqual(v, []int{1, 3}) {
		t.Errorf("Neighbours() = %v", v)
	}

	if err := e.SetName(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyName); got != codec.Absent {
		t.Errorf("cleared name stored as %q, want %q", got, codec.Absent)
	}
	if err := e.SetNeighbours(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyNeighbours); got != "[]" {
		t.Errorf("empty neighbours stored as %q, want []", got)
	}
}

func TestThickness(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)

	_, err := e.Thickness(ctx)
	var ae *perrors.AttributeError
	if !errors.As(err, &ae) || ae.Code != perrors.ErrCodeAbsentField {
		t.Fatalf("Thickness() of new element error = %v, want ABSENT_FIELD", err)
	}
	if ae.Entity != e.ID() || ae.Key != codec.KeyThickness {
		t.Errorf("error names entity %q key %q", ae.Entity, ae.Key)
	}

	if err := e.SetThickness(ctx, 0.0); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyThickness); got != "0.0" {
		t.Errorf("stored thickness = %q, want 0.0", got)
	}
	th, err := e.Thickness(ctx)
	if err != nil || th != 0 {
		t.Errorf("Thickness() = %v, %v; want 0", th, err)
	}

	if err := e.ClearThickness(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Thickness(ctx); !perrors.Is(err, perrors.ErrCodeAbsentField) {
		t.Errorf("Thickness() after clear error = %v", err)
	}
}

func TestFeatures(t *testing.T) {
	ctx := context.Background()
	e, store := newTestElement(t, movedMarker)
	cut := geom.NewMesh([]geom.Point3{{X: 10, Y: 5, Z: 2}, {X: 11, Y: 5, Z: 2}, {X: 10, Y: 6, Z: 2}}, [][]int{{0, 1, 2}})

	before := store.sets
	if err := e.AppendFeatures(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if n, _ := e.FeatureCount(ctx); n != 0 || store.sets != before {
		t.Errorf("empty append changed state: count %d, writes %d", n, store.sets-before)
	}

	if err := e.AppendFeatures(ctx, []geom.Geometry{cut}); err != nil {
		t.Fatal(err)
	}
	if err := e.AppendFeatures(ctx, []geom.Geometry{cut, cut}); err != nil {
		t.Fatal(err)
	}
	if err := e.AppendFeatures(ctx, []geom.Geometry{}); err != nil {
		t.Fatal(err)
	}

	keys, _ := docstore.AttributeKeys(ctx, e.store, e.ID())
	if got := codec.FeatureKeys(keys); !reflect.DeepEqual(got, []string{"feature_0", "feature_1", "feature_2"}) {
		t.Errorf("feature keys = %v", got)
	}
	if n, _ := e.FeatureCount(ctx); n != 3 {
		t.Errorf("FeatureCount() = %d, want 3", n)
	}

	features, err := e.Features(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(features) != 3 || !geom.Polyline(features[2].Points).Near(cut.Points, geom.Tolerance) {
		t.Errorf("Features() = %+v", features)
	}

	if err := e.ClearFeatures(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := e.FeatureCount(ctx); n != 0 {
		t.Errorf("FeatureCount() after clear = %d", n)
	}
}

func TestRadii(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)
	_ = e.SetAxes(ctx, []geom.Polyline{
		{{}, {Z: 1}, {Z: 2}, {Z: 3}},
		{{}, {X: 1}, {X: 2}},
	})

	if err := e.SetRadiiCyclic(ctx, []float64{0.5, 0.25}); err != nil {
		t.Fatal(err)
	}
	radii, err := e.Radii(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float64{{0.5, 0.25, 0.5}, {0.25, 0.5}}
	if !reflect.DeepEqual(radii, want) {
		t.Errorf("Radii() = %v, want %v", radii, want)
	}

	if err := e.SetRadii(ctx, [][]float64{{1}}); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyRadii); got != "[[1.0]]" {
		t.Errorf("stored radii = %q", got)
	}
}

func TestNonFiniteValuesRejected(t *testing.T) {
	ctx := context.Background()
	e, store := newTestElement(t, worldMarker)
	axis := []geom.Polyline{{{}, {Z: 1}}}
	if err := e.SetAxes(ctx, axis); err != nil {
		t.Fatal(err)
	}
	if err := e.SetThickness(ctx, 0.02); err != nil {
		t.Fatal(err)
	}
	if err := e.SetRadii(ctx, [][]float64{{0.1}}); err != nil {
		t.Fatal(err)
	}
	sets := store.sets

	inf := math.Inf(1)
	writes := map[string]error{
		"SetThickness(NaN)":  e.SetThickness(ctx, math.NaN()),
		"SetThickness(-Inf)": e.SetThickness(ctx, math.Inf(-1)),
		"SetRadii(+Inf)":     e.SetRadii(ctx, [][]float64{{inf}}),
		"SetRadiiCyclic":     e.SetRadiiCyclic(ctx, []float64{0.1, math.NaN()}),
		"SetInsertionCyclic": e.SetInsertionCyclic(ctx, []geom.Vector3{geom.XAxis, {Y: inf}}),
		"SetAxes":            e.SetAxes(ctx, []geom.Polyline{{{}, {Z: inf}}}),
		"SetInsertion":       e.SetInsertion(ctx, [][]geom.Vector3{{{X: math.NaN()}}}),
		"SetPairPolylines":   e.SetPairPolylines(ctx, []codec.Pair{{{{}, {X: inf}}, {{}, {X: 1}}}}),
	}
	for name, err := range writes {
		if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
			t.Errorf("%s error = %v, want INVALID_INPUT", name, err)
		}
	}
	if store.sets != sets {
		t.Errorf("rejected values reached the store %d times", store.sets-sets)
	}

	if th, err := e.Thickness(ctx); err != nil || th != 0.02 {
		t.Errorf("Thickness() = %v, %v; want 0.02", th, err)
	}
	if radii, err := e.Radii(ctx); err != nil || !reflect.DeepEqual(radii, [][]float64{{0.1}}) {
		t.Errorf("Radii() = %v, %v; want [[0.1]]", radii, err)
	}
	if axes, err := e.Axes(ctx); err != nil || len(axes) != 1 || !axes[0][1].Near(geom.Point3{Z: 1}, geom.Tolerance) {
		t.Errorf("Axes() = %v, %v", axes, err)
	}
}

func TestPairDependentDefaults(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, movedMarker)
	square := geom.Polyline{{X: 10, Y: 5, Z: 2}, {X: 11, Y: 5, Z: 2}, {X: 11, Y: 6, Z: 2}}
	lifted := square.Transform(geom.Translation(geom.Vector3{Z: 1}))

	if err := e.SetPairPolylines(ctx, []codec.Pair{{square, lifted}, {lifted, square}}); err != nil {
		t.Fatal(err)
	}

	ins, err := e.Insertion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 2 || len(ins[0]) != 0 || len(ins[1]) != 0 {
		t.Errorf("Insertion() = %v, want two empty lists", ins)
	}
	jt, err := e.JointTypes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(jt, [][]int{{}, {}}) {
		t.Errorf("JointTypes() = %v, want two empty lists", jt)
	}

	pairs, err := e.PairPolylines(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 || !pairs[0][1].Near(lifted, geom.Tolerance) {
		t.Errorf("PairPolylines() = %v", pairs)
	}

	if err := e.SetJointTypes(ctx, [][]int{{10, 20}, {30}}); err != nil {
		t.Fatal(err)
	}
	if jt, _ := e.JointTypes(ctx); !reflect.DeepEqual(jt, [][]int{{10, 20}, {30}}) {
		t.Errorf("JointTypes() = %v", jt)
	}
	if err := e.ClearJointTypes(ctx); err != nil {
		t.Fatal(err)
	}
	if jt, _ := e.JointTypes(ctx); len(jt) != 2 {
		t.Errorf("JointTypes() after clear = %v", jt)
	}
}

func TestInsertion(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, movedMarker)
	_ = e.SetAxes(ctx, []geom.Polyline{{{}, {Z: 1}, {Z: 2}}})

	if err := e.SetInsertionCyclic(ctx, []geom.Vector3{geom.YAxis}); err != nil {
		t.Fatal(err)
	}
	ins, err := e.Insertion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 1 || len(ins[0]) != 2 || !ins[0][1].Near(geom.YAxis, geom.Tolerance) {
		t.Errorf("Insertion() = %v", ins)
	}

	if err := e.ClearInsertion(ctx); err != nil {
		t.Fatal(err)
	}
	if got := attr(t, e, codec.KeyInsertion); got != codec.Absent {
		t.Errorf("cleared insertion stored as %q", got)
	}
}

func TestLegacyKeys(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)
	_ = e.store.SetAttributes(ctx, e.ID(), map[string]string{
		codec.KeyVolumes:    "[[[0,0,0,1,0,0],[0,0,1,1,0,1]]]",
		codec.KeyJointTypes: "[12]",
	})

	pairs, err := e.PairPolylines(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 1 || len(pairs[0][1]) != 2 {
		t.Errorf("PairPolylines() from volumes = %v", pairs)
	}
	jt, err := e.JointTypes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(jt, [][]int{{12}}) {
		t.Errorf("JointTypes() from flat list = %v", jt)
	}
}

func TestMalformedAttribute(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)
	_ = e.store.SetAttributes(ctx, e.ID(), map[string]string{codec.KeyAxes: "[[0, 0, 0, 1"})

	_, err := e.Axes(ctx)
	var ae *perrors.AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("Axes() error = %v, want *AttributeError", err)
	}
	if ae.Code != perrors.ErrCodeMalformedAttribute || ae.Key != codec.KeyAxes || ae.Entity != e.ID() {
		t.Errorf("error = %+v", ae)
	}
	if !errors.Is(err, codec.ErrMalformed) {
		t.Error("error should wrap codec.ErrMalformed")
	}
}

func TestUnsetFrame(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, geom.Polyline{{X: 1}, {}})

	f, err := e.Frame(ctx)
	if err != nil || f.IsSet() {
		t.Fatalf("Frame() = %v, %v; want Unset", f, err)
	}
	if axes, err := e.Axes(ctx); err != nil || len(axes) != 0 {
		t.Errorf("Axes() with no stored axes = %v, %v", axes, err)
	}
	if err := e.SetAxes(ctx, []geom.Polyline{{{}, {Z: 1}}}); !perrors.Is(err, perrors.ErrCodeUnsetFrame) {
		t.Errorf("SetAxes() error = %v, want UNSET_FRAME", err)
	}

	_ = e.store.SetAttributes(ctx, e.ID(), map[string]string{codec.KeyAxes: "[[0,0,0,0,0,1]]"})
	if _, err := e.Axes(ctx); !perrors.Is(err, perrors.ErrCodeUnsetFrame) {
		t.Errorf("Axes() error = %v, want UNSET_FRAME", err)
	}
	if err := e.AppendFeatures(ctx, []geom.Geometry{box}); !perrors.Is(err, perrors.ErrCodeUnsetFrame) {
		t.Errorf("AppendFeatures() error = %v, want UNSET_FRAME", err)
	}
}

func TestSetFrame(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, worldMarker)
	target := geom.Resolve(movedMarker)

	if err := e.SetFrame(ctx, target, 0.5); err != nil {
		t.Fatal(err)
	}
	f, _ := e.Frame(ctx)
	if f.Origin != target.Origin {
		t.Errorf("Frame().Origin = %v, want %v", f.Origin, target.Origin)
	}
	if err := e.SetFrame(ctx, geom.Unset, 1); !perrors.Is(err, perrors.ErrCodeUnsetFrame) {
		t.Errorf("SetFrame(Unset) error = %v", err)
	}
}
