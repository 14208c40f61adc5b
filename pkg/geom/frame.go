package geom

// Frame is a local coordinate system derived from a 3-point marker.
// The zero value is [Unset].
type Frame struct {
	Origin Point3  `json:"origin" bson:"origin"`
	XAxis  Vector3 `json:"x_axis" bson:"x_axis"`
	YAxis  Vector3 `json:"y_axis" bson:"y_axis"`
}

// Unset is the frame returned for markers that do not define a plane.
var Unset = Frame{}

// WorldXY is the global frame: origin at (0,0,0), axes along X and Y.
var WorldXY = Frame{XAxis: XAxis, YAxis: YAxis}

// MarkerPointCount is the number of points a marker polyline must have.
const MarkerPointCount = 3

// Resolve derives a frame from a marker polyline: the origin is marker[1],
// the X axis points to marker[0] and the Y axis points to marker[2].
// It returns [Unset] if the marker does not have exactly three points or if
// the points are coincident or collinear.
func Resolve(marker Polyline) Frame {
	if len(marker) != MarkerPointCount {
		return Unset
	}
	f := Frame{
		Origin: marker[1],
		XAxis:  marker[0].Sub(marker[1]),
		YAxis:  marker[2].Sub(marker[1]),
	}
	if !f.IsSet() {
		return Unset
	}
	return f
}

// IsSet reports whether f spans a plane.
func (f Frame) IsSet() bool {
	_, _, _, ok := f.basis()
	return ok
}

// Marker returns the 3-point marker polyline for f with arms of the given
// length. Resolve(f.Marker(s)) has the same origin and axis directions as f.
func (f Frame) Marker(scale float64) Polyline {
	x, y, _, ok := f.basis()
	if !ok {
		return nil
	}
	return Polyline{
		f.Origin.Add(x.Scale(scale)),
		f.Origin,
		f.Origin.Add(y.Scale(scale)),
	}
}

// Normal returns the unit Z axis of f and false for an unset frame.
func (f Frame) Normal() (Vector3, bool) {
	_, _, z, ok := f.basis()
	return z, ok
}

// Forward returns the transform from f's local coordinates to world
// coordinates. It returns the identity and false for an unset frame.
func (f Frame) Forward() (Xform, bool) {
	x, y, z, ok := f.basis()
	if !ok {
		return Identity(), false
	}
	return Xform{
		{x.X, y.X, z.X, f.Origin.X},
		{x.Y, y.Y, z.Y, f.Origin.Y},
		{x.Z, y.Z, z.Z, f.Origin.Z},
		{0, 0, 0, 1},
	}, true
}

// Inverse returns the transform from world coordinates to f's local
// coordinates. It returns the identity and false for an unset frame.
func (f Frame) Inverse() (Xform, bool) {
	x, y, z, ok := f.basis()
	if !ok {
		return Identity(), false
	}
	o := Vector3{X: f.Origin.X, Y: f.Origin.Y, Z: f.Origin.Z}
	return Xform{
		{x.X, x.Y, x.Z, -x.Dot(o)},
		{y.X, y.Y, y.Z, -y.Dot(o)},
		{z.X, z.Y, z.Z, -z.Dot(o)},
		{0, 0, 0, 1},
	}, true
}

// basis returns the orthonormal axes of f.
func (f Frame) basis() (x, y, z Vector3, ok bool) {
	x, ok = f.XAxis.Unit()
	if !ok {
		return
	}
	z, ok = x.Cross(f.YAxis).Unit()
	if !ok {
		return
	}
	y = z.Cross(x)
	return x, y, z, true
}

// MarkerFor returns the marker polyline for f with arms of length scale, or
// nil if f is unset.
func MarkerFor(f Frame, scale float64) Polyline {
	return f.Marker(scale)
}
