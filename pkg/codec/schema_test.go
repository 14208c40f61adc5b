package codec

import (
	"reflect"
	"testing"
)

func TestFeatureKeys(t *testing.T) {
	keys := []string{"axes", "feature_10", "feature_2", "feature_x", "feature_", "feature_0", "name"}
	want := []string{"feature_0", "feature_2", "feature_10"}
	if got := FeatureKeys(keys); !reflect.DeepEqual(got, want) {
		t.Errorf("FeatureKeys() = %v, want %v", got, want)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		key  string
		kind Kind
		ok   bool
	}{
		{KeyAxes, KindPolylines, true},
		{KeyThickness, KindFloat, true},
		{"feature_3", KindGeometry, true},
		{KeyVolumes, 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, ok := Lookup(tt.key)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			}
			if ok && f.Kind != tt.kind {
				t.Errorf("Lookup(%q).Kind = %v, want %v", tt.key, f.Kind, tt.kind)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindPolylinePairs.String() != "polyline-pairs" {
		t.Errorf("String() = %q", KindPolylinePairs.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("String() = %q", Kind(99).String())
	}
}
