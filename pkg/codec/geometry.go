package codec

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/joinery/pkg/geom"
)

// GeometrySerializer turns geometry into the opaque text stored in feature
// attributes and back.
type GeometrySerializer interface {
	Marshal(g geom.Geometry) (string, error)
	Unmarshal(text string) (geom.Geometry, error)
}

// JSONSerializer stores geometry as its JSON document.
type JSONSerializer struct{}

var _ GeometrySerializer = JSONSerializer{}

// Marshal implements GeometrySerializer.
func (JSONSerializer) Marshal(g geom.Geometry) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Unmarshal implements GeometrySerializer.
func (JSONSerializer) Unmarshal(text string) (geom.Geometry, error) {
	var g geom.Geometry
	if err := json.Unmarshal([]byte(text), &g); err != nil {
		return geom.Geometry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch g.Kind {
	case geom.KindPolyline, geom.KindMesh, geom.KindBrep:
	default:
		return geom.Geometry{}, fmt.Errorf("%w: unknown geometry kind %q", ErrMalformed, g.Kind)
	}
	return g, nil
}

// EncodeGeometry moves g into frame-local coordinates and serialises it. A
// nil serializer means JSONSerializer.
func EncodeGeometry(g geom.Geometry, frame geom.Frame, ser GeometrySerializer) (string, error) {
	_, inv, err := transforms(frame)
	if err != nil {
		return "", err
	}
	if ser == nil {
		ser = JSONSerializer{}
	}
	return ser.Marshal(g.Transform(inv))
}

// DecodeGeometry deserialises text and moves the result into world space.
func DecodeGeometry(text string, frame geom.Frame, ser GeometrySerializer) (geom.Geometry, error) {
	fwd, _, err := transforms(frame)
	if err != nil {
		return geom.Geometry{}, err
	}
	if ser == nil {
		ser = JSONSerializer{}
	}
	g, err := ser.Unmarshal(text)
	if err != nil {
		return geom.Geometry{}, err
	}
	return g.Transform(fwd), nil
}
