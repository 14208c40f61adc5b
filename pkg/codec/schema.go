package codec

import (
	"sort"
	"strconv"
	"strings"
)

// SchemaVersion is the current attribute layout version, written under
// [KeySchema] whenever an element is created.
const SchemaVersion = 1

// Kind is the declared value type of a persisted field.
type Kind int

// Field kinds.
const (
	KindString Kind = iota
	KindInt
	KindInts
	KindFloat
	KindFloatLists
	KindPolylines
	KindPolylinePairs
	KindVectorLists
	KindIntLists
	KindGeometry
)

var kindNames = [...]string{
	KindString:        "string",
	KindInt:           "int",
	KindInts:          "ints",
	KindFloat:         "float",
	KindFloatLists:    "float-lists",
	KindPolylines:     "polylines",
	KindPolylinePairs: "polyline-pairs",
	KindVectorLists:   "vector-lists",
	KindIntLists:      "int-lists",
	KindGeometry:      "geometry",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Persisted attribute keys.
const (
	KeySchema       = "schema"
	KeyName         = "name"
	KeyElementType  = "element_type"
	KeyParent       = "parent"
	KeyIndex        = "index"
	KeyNeighbours   = "neighbours"
	KeyAxes         = "axes"
	KeyRadii        = "radii"
	KeyThickness    = "thickness"
	KeyPairPolyline = "pair_polyline"
	KeyInsertion    = "insertion"
	KeyJointTypes   = "joint_types"

	// KeyVolumes is the legacy name of KeyPairPolyline. It is read when
	// pair_polyline is missing and never written.
	KeyVolumes = "volumes"

	// FeaturePrefix starts every feature key: feature_0, feature_1, ...
	FeaturePrefix = "feature_"
)

// Field describes one persisted attribute.
type Field struct {
	Key     string
	Kind    Kind
	Version int // Schema version the field was introduced in
}

// Fields lists every fixed attribute key. Feature keys are numbered and are
// matched with [FeatureIndex] instead.
var Fields = []Field{
	{KeySchema, KindInt, 1},
	{KeyName, KindString, 1},
	{KeyElementType, KindString, 1},
	{KeyParent, KindString, 1},
	{KeyIndex, KindInt, 1},
	{KeyNeighbours, KindInts, 1},
	{KeyAxes, KindPolylines, 1},
	{KeyRadii, KindFloatLists, 1},
	{KeyThickness, KindFloat, 1},
	{KeyPairPolyline, KindPolylinePairs, 1},
	{KeyInsertion, KindVectorLists, 1},
	{KeyJointTypes, KindIntLists, 1},
}

// Lookup returns the field for key. Numbered feature keys resolve to a
// geometry field.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	if _, ok := FeatureIndex(key); ok {
		return Field{Key: key, Kind: KindGeometry, Version: 1}, true
	}
	return Field{}, false
}

// FeatureKey returns the attribute key of feature i.
func FeatureKey(i int) string {
	return FeaturePrefix + strconv.Itoa(i)
}

// FeatureIndex parses a feature key and returns its number.
func FeatureIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, FeaturePrefix)
	if !ok || rest == "" {
		return 0, false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FeatureKeys returns the feature keys among keys, ordered by number.
func FeatureKeys(keys []string) []string {
	type numbered struct {
		key string
		n   int
	}
	var found []numbered
	for _, k := range keys {
		if n, ok := FeatureIndex(k); ok {
			found = append(found, numbered{k, n})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.key
	}
	return out
}
