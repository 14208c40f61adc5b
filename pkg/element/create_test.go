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

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	e, err := Create(ctx, store, Spec{Shape: box})
	if err != nil {
		t.Fatal(err)
	}

	attrs, _ := store.Attributes(ctx, e.ID())
	want := map[string]string{
		codec.KeySchema:       "1",
		codec.KeyName:         codec.Absent,
		codec.KeyElementType:  TypeBeam,
		codec.KeyIndex:        codec.Absent,
		codec.KeyAxes:         "[[0.0, 0.0, 0.0, 0.0, 0.0, 4.0]]",
		codec.KeyRadii:        "[[1.0]]",
		codec.KeyInsertion:    "[[1.0, 0.0, 0.0]]",
		codec.KeyThickness:    codec.Absent,
		codec.KeyPairPolyline: codec.Absent,
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, attrs[k], v)
		}
	}

	shapeTags, _ := store.GroupTags(ctx, e.ID())
	markerTags, _ := store.GroupTags(ctx, e.MarkerID())
	if len(shapeTags) != 1 || !reflect.DeepEqual(shapeTags, markerTags) {
		t.Errorf("group tags shape=%v marker=%v, want one shared tag", shapeTags, markerTags)
	}

	f, _ := e.Frame(ctx)
	if f.Origin != (geom.Point3{}) {
		t.Errorf("default frame origin = %v", f.Origin)
	}
}

func TestCreateWithSpec(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	frame := geom.Resolve(movedMarker)
	thickness := 0.04

	e, err := Create(ctx, store, Spec{
		Shape:      box,
		Frame:      frame,
		Type:       TypePlate,
		Name:       "deck",
		Neighbours: []int{2},
		Axes:       []geom.Polyline{{{X: 10, Y: 5, Z: 2}, {X: 10, Y: 5, Z: 3}, {X: 10, Y: 5, Z: 4}}},
		Radii:      []float64{0.1, 0.2, 0.3},
		Insertion:  []geom.Vector3{geom.ZAxis},
		Thickness:  &thickness,
		Group:      "deck-1",
	})
	if err != nil {
		t.Fatal(err)
	}

	snap, err := e.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Name != "deck" || snap.Type != TypePlate {
		t.Errorf("snapshot name/type = %q/%q", snap.Name, snap.Type)
	}
	if snap.Thickness == nil || *snap.Thickness != thickness {
		t.Errorf("snapshot thickness = %v", snap.Thickness)
	}
	if !reflect.DeepEqual(snap.Radii, [][]float64{{0.1, 0.2}}) {
		t.Errorf("snapshot radii = %v, want values matched to two segments", snap.Radii)
	}
	if got, _, _ := docstore.GetAttribute(ctx, store, e.ID(), codec.KeyInsertion); got != codec.Absent {
		t.Errorf("plate insertion stored as %q, want absent", got)
	}
	if snap.Frame == nil || len(snap.Axes) != 1 || !snap.Axes[0][2].Near(geom.Point3{X: 10, Y: 5, Z: 4}, geom.Tolerance) {
		t.Errorf("snapshot axes = %v", snap.Axes)
	}
	tags, _ := store.GroupTags(ctx, e.MarkerID())
	if !reflect.DeepEqual(tags, []string{"deck-1"}) {
		t.Errorf("marker tags = %v", tags)
	}
}

func TestCreateRejectsUnsetFrame(t *testing.T) {
	store := memstore.New()
	bad := geom.Frame{XAxis: geom.XAxis, YAxis: geom.XAxis}
	if _, err := Create(context.Background(), store, Spec{Shape: box, Frame: bad}); err == nil {
		t.Fatal("Create() with a degenerate frame should fail")
	}
	if ids, _ := store.List(context.Background()); len(ids) != 0 {
		t.Errorf("store holds %d objects after failed create", len(ids))
	}
}

func TestSnapshotUnsetFrame(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestElement(t, geom.Polyline{{}, {X: 1}})
	_ = e.SetName(ctx, "broken")
	_ = e.store.SetAttributes(ctx, e.ID(), map[string]string{codec.KeyAxes: "[[0,0,0,0,0,1]]"})

	snap, err := e.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Frame != nil || snap.Axes != nil {
		t.Errorf("snapshot frame=%v axes=%v, want both empty", snap.Frame, snap.Axes)
	}
	if snap.Name != "broken" || snap.Index != NoIndex {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	a, _ := Create(ctx, store, Spec{Shape: box, Group: "a"})
	b, _ := Create(ctx, store, Spec{Shape: box, Group: "b"})

	// A lone shape, a group of three and a pair of two shapes are ignored.
	lone, _ := store.Create(ctx, box)
	_ = store.SetGroupTags(ctx, lone, []string{"lone"})
	for i := 0; i < 3; i++ {
		id, _ := store.Create(ctx, box)
		_ = store.SetGroupTags(ctx, id, []string{"three"})
	}
	for i := 0; i < 2; i++ {
		id, _ := store.Create(ctx, box)
		_ = store.SetGroupTags(ctx, id, []string{"shapes"})
	}
	// Untagged objects never pair up.
	_, _ = store.Create(ctx, box)
	_, _ = store.Create(ctx, geom.NewPolyline(worldMarker))

	found, err := Discover(ctx, store, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, e := range found {
		got[e.ID()] = e.MarkerID()
	}
	want := map[string]string{a.ID(): a.MarkerID(), b.ID(): b.MarkerID()}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}

	// Restricting the candidates restricts the result.
	found, _ = Discover(ctx, store, []string{a.ID(), a.MarkerID()}, nil)
	if len(found) != 1 || found[0].ID() != a.ID() {
		t.Errorf("Discover(subset) = %v", found)
	}
}

func TestBatchReads(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a, _ := Create(ctx, store, Spec{Shape: box})
	b, _ := Create(ctx, store, Spec{Shape: box, Radii: []float64{0.3}})
	elements := []*Element{a, b}

	axes, err := FirstAxes(ctx, elements)
	if err != nil || len(axes) != 2 {
		t.Fatalf("FirstAxes() = %v, %v", axes, err)
	}
	radii, err := FirstRadii(ctx, elements)
	if err != nil || !reflect.DeepEqual(radii, [][]float64{{1}, {0.3}}) {
		t.Errorf("FirstRadii() = %v, %v", radii, err)
	}
	ins, err := AllInsertion(ctx, elements)
	if err != nil || len(ins) != 2 || !ins[0][0][0].Near(geom.XAxis, geom.Tolerance) {
		t.Errorf("AllInsertion() = %v, %v", ins, err)
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a, _ := Create(ctx, store, Spec{Shape: box, Group: `Frame\a`})
	_, _ = Create(ctx, store, Spec{Shape: box, Group: `Frame\b`})
	untagged, _ := store.Create(ctx, box)

	for _, id := range []string{a.ID(), a.MarkerID()} {
		e, err := Lookup(ctx, store, id)
		if err != nil {
			t.Fatalf("Lookup(%s) = %v", id, err)
		}
		if e.ID() != a.ID() || e.MarkerID() != a.MarkerID() {
			t.Errorf("Lookup(%s) = %s/%s", id, e.ID(), e.MarkerID())
		}
	}
	if _, err := Lookup(ctx, store, untagged); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Lookup(untagged) = %v, want ErrNotFound", err)
	}
	if _, err := Lookup(ctx, store, "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Lookup(missing) = %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsNonFiniteThickness(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	nan := math.NaN()
	_, err := Create(ctx, store, Spec{Shape: box, Thickness: &nan})
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Fatalf("Create() error = %v, want INVALID_INPUT", err)
	}
	if ids, _ := store.List(ctx); len(ids) != 0 {
		t.Errorf("store holds %v after failed create", ids)
	}
}

// failingStore fails the named step of Create.
type failingStore struct {
	docstore.Store
	failCreate int // Fail the n-th Create call, counting from 1
	failSet    bool
	failTags   bool
	creates    int
}

var errStoreDown = errors.New("store down")

func (s *failingStore) Create(ctx context.Context, g geom.Geometry) (string, error) {
	s.creates++
	if s.creates == s.failCreate {
		return "", errStoreDown
	}
	return s.Store.Create(ctx, g)
}

func (s *failingStore) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	if s.failSet {
		return errStoreDown
	}
	return s.Store.SetAttributes(ctx, id, attrs)
}

func (s *failingStore) SetGroupTags(ctx context.Context, id string, tags []string) error {
	if s.failTags {
		return errStoreDown
	}
	return s.Store.SetGroupTags(ctx, id, tags)
}

func TestCreateCleansUpOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		store *failingStore
	}{
		{"marker", &failingStore{failCreate: 2}},
		{"attributes", &failingStore{failSet: true}},
		{"group tags", &failingStore{failTags: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := memstore.New()
			tt.store.Store = mem

			if _, err := Create(ctx, tt.store, Spec{Shape: box}); !errors.Is(err, errStoreDown) {
				t.Fatalf("Create() error = %v, want %v", err, errStoreDown)
			}
			if ids, _ := mem.List(ctx); len(ids) != 0 {
				t.Errorf("store holds %v after failed create", ids)
			}
		})
	}
}
