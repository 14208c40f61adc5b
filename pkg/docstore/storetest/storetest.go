// Package storetest checks that a [docstore.Store] implementation honours the
// store contract. Backend packages call [Run] from their tests.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/matzehuels/joinery/pkg/docstore"
	perrors "github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// Run exercises a fresh store returned by newStore for every subtest.
// newStore is responsible for closing the store with t.Cleanup.
func Run(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s docstore.Store)
	}{
		{"CreateFind", testCreateFind},
		{"FindMissing", testFindMissing},
		{"Replace", testReplace},
		{"Delete", testDelete},
		{"List", testList},
		{"Attributes", testAttributes},
		{"AttributesMissingObject", testAttributesMissingObject},
		{"InvalidAttributeKey", testInvalidAttributeKey},
		{"GroupTags", testGroupTags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

var (
	marker = geom.NewPolyline(geom.Polyline{{X: 1}, {}, {Y: 1}})
	mesh   = geom.NewMesh([]geom.Point3{{}, {X: 1}, {Y: 1}}, [][]int{{0, 1, 2}})
)

func testCreateFind(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	id, err := s.Create(ctx, marker)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty ID")
	}

	obj, err := s.Find(ctx, id)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if obj == nil || obj.ID != id {
		t.Fatalf("Find() = %+v, want object %s", obj, id)
	}
	if !obj.Geometry.IsMarker() {
		t.Errorf("Find().Geometry = %+v, want marker", obj.Geometry)
	}
}

func testFindMissing(t *testing.T, s docstore.Store) {
	obj, err := s.Find(context.Background(), "missing")
	if err != nil || obj != nil {
		t.Errorf("Find(missing) = %v, %v; want nil, nil", obj, err)
	}
}

func testReplace(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	id, _ := s.Create(ctx, marker)
	if err := s.SetAttributes(ctx, id, map[string]string{"name": "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, id, mesh); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	obj, _ := s.Find(ctx, id)
	if obj.Geometry.Kind != geom.KindMesh {
		t.Errorf("Kind = %v, want mesh", obj.Geometry.Kind)
	}
	if v, _, _ := docstore.GetAttribute(ctx, s, id, "name"); v != "a" {
		t.Errorf("Replace() dropped attributes, name = %q", v)
	}

	if err := s.Replace(ctx, "missing", mesh); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Replace(missing) error = %v, want ErrNotFound", err)
	}
}

func testDelete(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	id, _ := s.Create(ctx, marker)
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if obj, _ := s.Find(ctx, id); obj != nil {
		t.Error("object still present after Delete()")
	}
	if _, err := s.Attributes(ctx, id); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Attributes() after Delete() error = %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func testList(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("List() on empty store = %v", ids)
	}

	var want []string
	for i := 0; i < 3; i++ {
		id, _ := s.Create(ctx, marker)
		want = append(want, id)
	}
	sort.Strings(want)

	got, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func testAttributes(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	id, _ := s.Create(ctx, mesh)

	attrs, err := s.Attributes(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if attrs == nil || len(attrs) != 0 {
		t.Errorf("Attributes() of new object = %v, want empty map", attrs)
	}

	if err := s.SetAttributes(ctx, id, map[string]string{"axes": "[]", "index": "3", "a.b": "dotted", "$x": "dollar"}); err != nil {
		t.Fatal(err)
	}
	if err := docstore.SetAttribute(ctx, s, id, "index", "4"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteAttributes(ctx, id, "axes", "never-set"); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Attributes(ctx, id)
	want := map[string]string{"index": "4", "a.b": "dotted", "$x": "dollar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Attributes() = %v, want %v", got, want)
	}

	got["index"] = "mutated"
	if v, _, _ := docstore.GetAttribute(ctx, s, id, "index"); v != "4" {
		t.Error("Attributes() must return a copy")
	}

	keys, _ := docstore.AttributeKeys(ctx, s, id)
	if !reflect.DeepEqual(keys, []string{"$x", "a.b", "index"}) {
		t.Errorf("AttributeKeys() = %v", keys)
	}

	if _, ok, _ := docstore.GetAttribute(ctx, s, id, "axes"); ok {
		t.Error("deleted attribute still reported as set")
	}
}

func testAttributesMissingObject(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	checks := map[string]error{}
	_, checks["Attributes"] = s.Attributes(ctx, "missing")
	checks["SetAttributes"] = s.SetAttributes(ctx, "missing", map[string]string{"k": "v"})
	checks["DeleteAttributes"] = s.DeleteAttributes(ctx, "missing", "k")
	_, checks["GroupTags"] = s.GroupTags(ctx, "missing")
	checks["SetGroupTags"] = s.SetGroupTags(ctx, "missing", []string{"A"})

	for op, err := range checks {
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("%s(missing) error = %v, want ErrNotFound", op, err)
		}
		if !perrors.Is(err, perrors.ErrCodeNotFound) {
			t.Errorf("%s(missing) code = %v", op, perrors.GetCode(err))
		}
	}
}

func testInvalidAttributeKey(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	id, _ := s.Create(ctx, mesh)
	err := s.SetAttributes(ctx, id, map[string]string{"bad key": "v"})
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("SetAttributes(bad key) error = %v, want INVALID_INPUT", err)
	}
}

func testGroupTags(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	id, _ := s.Create(ctx, mesh)

	tags, err := s.GroupTags(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 0 {
		t.Errorf("GroupTags() of new object = %v", tags)
	}

	if err := s.SetGroupTags(ctx, id, []string{`Frame\Walls`, "B"}); err != nil {
		t.Fatal(err)
	}
	if err := docstore.AddGroupTag(ctx, s, id, "B"); err != nil {
		t.Fatal(err)
	}
	if err := docstore.AddGroupTag(ctx, s, id, "C"); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GroupTags(ctx, id)
	want := []string{`Frame\Walls`, "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupTags() = %v, want %v", got, want)
	}

	if err := s.SetGroupTags(ctx, id, []string{"", `\`}); err != nil {
		t.Errorf("SetGroupTags(unnamed) error = %v", err)
	}
	if got, _ := s.GroupTags(ctx, id); !reflect.DeepEqual(got, []string{"", `\`}) {
		t.Errorf("GroupTags() = %q, want unnamed tags kept", got)
	}

	if err := s.SetGroupTags(ctx, id, []string{"A\nB"}); !perrors.Is(err, perrors.ErrCodeInvalidPath) {
		t.Errorf("SetGroupTags(newline) error = %v, want INVALID_PATH", err)
	}
}
