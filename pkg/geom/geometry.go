package geom

import "math"

// Kind identifies the shape of a document object's geometry.
type Kind string

// Geometry kinds.
const (
	KindPolyline Kind = "polyline"
	KindMesh     Kind = "mesh"
	KindBrep     Kind = "brep"
)

// Geometry is the tagged value stored for a document object.
//
// Polylines and meshes keep their vertices in Points (meshes also list
// Faces as vertex indices). Boundary representations are opaque: Payload
// holds the host serialisation untouched and Placement accumulates every
// transform applied to it, so that a round trip through local space leaves
// Placement at the identity again.
type Geometry struct {
	Kind      Kind     `json:"kind" bson:"kind"`
	Points    []Point3 `json:"points,omitempty" bson:"points,omitempty"`
	Faces     [][]int  `json:"faces,omitempty" bson:"faces,omitempty"`
	Payload   []byte   `json:"payload,omitempty" bson:"payload,omitempty"`
	Placement *Xform   `json:"placement,omitempty" bson:"placement,omitempty"`
}

// NewPolyline returns polyline geometry for p.
func NewPolyline(p Polyline) Geometry {
	return Geometry{Kind: KindPolyline, Points: append([]Point3(nil), p...)}
}

// NewMesh returns mesh geometry with the given vertices and faces.
func NewMesh(vertices []Point3, faces [][]int) Geometry {
	return Geometry{Kind: KindMesh, Points: vertices, Faces: faces}
}

// Polyline returns the vertices of polyline geometry and false for any other
// kind.
func (g Geometry) Polyline() (Polyline, bool) {
	if g.Kind != KindPolyline {
		return nil, false
	}
	return Polyline(g.Points), true
}

// IsMarker reports whether g is a polyline with exactly three points.
func (g Geometry) IsMarker() bool {
	return g.Kind == KindPolyline && len(g.Points) == MarkerPointCount
}

// Transform returns a copy of g moved by x. Points are transformed directly;
// an opaque payload records x in Placement instead.
func (g Geometry) Transform(x Xform) Geometry {
	out := g
	if g.Points != nil {
		out.Points = Polyline(g.Points).Transform(x)
	}
	if len(g.Payload) > 0 {
		p := x
		if g.Placement != nil {
			p = x.Mul(*g.Placement)
		}
		if p.IsIdentity() {
			out.Placement = nil
		} else {
			out.Placement = &p
		}
	}
	return out
}

// BoundingBox returns the axis-aligned bounds of g's points and false when
// g has no points.
func (g Geometry) BoundingBox() (min, max Point3, ok bool) {
	if len(g.Points) == 0 {
		return Point3{}, Point3{}, false
	}
	min = Point3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = Point3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range g.Points {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return min, max, true
}
