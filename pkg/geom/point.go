package geom

import "math"

// Tolerance is the distance below which two points or vectors are treated as
// equal.
const Tolerance = 1e-9

// Point3 is a location in 3-D space.
type Point3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Vector3 is a direction and magnitude in 3-D space.
type Vector3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Common unit vectors.
var (
	XAxis = Vector3{X: 1}
	YAxis = Vector3{Y: 1}
	ZAxis = Vector3{Z: 1}
)

// Sub returns the vector from q to p.
func (p Point3) Sub(q Point3) Vector3 {
	return Vector3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Add returns p moved by v.
func (p Point3) Add(v Vector3) Point3 {
	return Point3{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point3) DistanceTo(q Point3) float64 {
	return p.Sub(q).Length()
}

// Near reports whether p and q are within tol of each other.
func (p Point3) Near(q Point3, tol float64) bool {
	return p.DistanceTo(q) <= tol
}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Scale returns v multiplied by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to length 1 and false if v is (nearly) zero.
func (v Vector3) Unit() (Vector3, bool) {
	l := v.Length()
	if l <= Tolerance {
		return Vector3{}, false
	}
	return v.Scale(1 / l), true
}

// Near reports whether v and w are within tol of each other.
func (v Vector3) Near(w Vector3, tol float64) bool {
	return Vector3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}.Length() <= tol
}

// Polyline is an ordered list of vertices.
type Polyline []Point3

// SegmentCount returns the number of segments, which is zero for polylines
// with fewer than two points.
func (p Polyline) SegmentCount() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// Transform returns a copy of p with every point transformed by x.
func (p Polyline) Transform(x Xform) Polyline {
	if p == nil {
		return nil
	}
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[i] = x.Apply(pt)
	}
	return out
}

// Near reports whether p and q have the same length and pairwise-near points.
func (p Polyline) Near(q Polyline, tol float64) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !p[i].Near(q[i], tol) {
			return false
		}
	}
	return true
}
