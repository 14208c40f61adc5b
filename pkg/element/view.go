package element

import (
	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// raw returns the text stored under key and false when the key is missing
// or holds the absent marker.
func (v *view) raw(key string) (string, bool) {
	text, ok := v.attrs[key]
	if !ok || codec.IsAbsent(text) {
		return "", false
	}
	return text, true
}

func (v *view) str(key string) string {
	text, _ := v.raw(key)
	return text
}

func (v *view) elementType() string {
	if t := v.str(codec.KeyElementType); t != "" {
		return t
	}
	return TypeBeam
}

func (v *view) index() (int, error) {
	text, ok := v.raw(codec.KeyIndex)
	if !ok {
		return NoIndex, nil
	}
	n, err := codec.DecodeInt(text)
	if err != nil {
		return NoIndex, attrErr(v.id, codec.KeyIndex, err)
	}
	return n, nil
}

func (v *view) neighbours() ([]int, error) {
	text, ok := v.raw(codec.KeyNeighbours)
	if !ok {
		return []int{}, nil
	}
	ns, err := codec.DecodeInts(text)
	return ns, attrErr(v.id, codec.KeyNeighbours, err)
}

func (v *view) featureKeys() []string {
	keys := make([]string, 0, len(v.attrs))
	for k := range v.attrs {
		keys = append(keys, k)
	}
	return codec.FeatureKeys(keys)
}

// nextFeature returns the number to give the next appended feature: one past
// the highest existing feature number, which equals the feature count when
// the keys are contiguous.
func (v *view) nextFeature() int {
	keys := v.featureKeys()
	if len(keys) == 0 {
		return 0
	}
	n, _ := codec.FeatureIndex(keys[len(keys)-1])
	return n + 1
}

func (v *view) featureCount() int {
	n := 0
	for _, k := range v.featureKeys() {
		if _, ok := v.raw(k); ok {
			n++
		}
	}
	return n
}

func (v *view) features() ([]geom.Geometry, error) {
	out := []geom.Geometry{}
	for _, k := range v.featureKeys() {
		text, ok := v.raw(k)
		if !ok {
			continue
		}
		g, err := codec.DecodeGeometry(text, v.frame, v.ser)
		if err != nil {
			return nil, attrErr(v.id, k, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (v *view) axes() ([]geom.Polyline, error) {
	text, ok := v.raw(codec.KeyAxes)
	if !ok {
		return []geom.Polyline{}, nil
	}
	ps, err := codec.DecodePolylines(text, v.frame)
	return ps, attrErr(v.id, codec.KeyAxes, err)
}

func (v *view) radii() ([][]float64, error) {
	text, ok := v.raw(codec.KeyRadii)
	if !ok {
		return [][]float64{}, nil
	}
	rs, err := codec.DecodeFloatLists(text)
	return rs, attrErr(v.id, codec.KeyRadii, err)
}

func (v *view) thickness() (float64, error) {
	text, ok := v.raw(codec.KeyThickness)
	if !ok {
		return 0, errors.Attribute(errors.ErrCodeAbsentField, v.id, codec.KeyThickness, nil)
	}
	f, err := codec.DecodeFloat(text)
	return f, attrErr(v.id, codec.KeyThickness, err)
}

// pairKey returns the key holding polyline pairs, preferring the current
// name over the legacy one.
func (v *view) pairKey() string {
	if _, ok := v.attrs[codec.KeyPairPolyline]; ok {
		return codec.KeyPairPolyline
	}
	if _, ok := v.attrs[codec.KeyVolumes]; ok {
		return codec.KeyVolumes
	}
	return codec.KeyPairPolyline
}

func (v *view) pairPolylines() ([]codec.Pair, error) {
	key := v.pairKey()
	text, ok := v.raw(key)
	if !ok {
		return []codec.Pair{}, nil
	}
	ps, err := codec.DecodePolylinePairs(text, v.frame)
	return ps, attrErr(v.id, key, err)
}

// pairCount counts stored polyline pairs without resolving the frame.
func (v *view) pairCount() (int, error) {
	key := v.pairKey()
	text, ok := v.raw(key)
	if !ok {
		return 0, nil
	}
	val, err := codec.Parse(text)
	if err != nil {
		return 0, attrErr(v.id, key, err)
	}
	items, err := val.Items()
	if err != nil {
		return 0, attrErr(v.id, key, err)
	}
	return len(items), nil
}

func (v *view) insertion() ([][]geom.Vector3, error) {
	text, ok := v.raw(codec.KeyInsertion)
	if !ok {
		n, err := v.pairCount()
		if err != nil {
			return nil, err
		}
		out := make([][]geom.Vector3, n)
		for i := range out {
			out[i] = []geom.Vector3{}
		}
		return out, nil
	}
	vs, err := codec.DecodeVectorLists(text, v.frame)
	return vs, attrErr(v.id, codec.KeyInsertion, err)
}

func (v *view) jointTypes() ([][]int, error) {
	text, ok := v.raw(codec.KeyJointTypes)
	if !ok {
		n, err := v.pairCount()
		if err != nil {
			return nil, err
		}
		out := make([][]int, n)
		for i := range out {
			out[i] = []int{}
		}
		return out, nil
	}
	val, err := codec.Parse(text)
	if err != nil {
		return nil, attrErr(v.id, codec.KeyJointTypes, err)
	}
	if flat, err := val.Ints(); err == nil {
		// Older documents store one joint type per pair as a flat list.
		out := make([][]int, len(flat))
		for i, n := range flat {
			out[i] = []int{n}
		}
		return out, nil
	}
	jt, err := codec.DecodeIntLists(text)
	return jt, attrErr(v.id, codec.KeyJointTypes, err)
}
