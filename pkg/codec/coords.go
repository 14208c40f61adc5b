package codec

import (
	"fmt"
	"strings"

	"github.com/matzehuels/joinery/pkg/geom"
)

// Pair is two polylines stored together, such as the top and bottom outline
// of a plate.
type Pair [2]geom.Polyline

func transforms(frame geom.Frame) (fwd, inv geom.Xform, err error) {
	fwd, ok := frame.Forward()
	if !ok {
		return fwd, inv, ErrUnsetFrame
	}
	inv, _ = frame.Inverse()
	return fwd, inv, nil
}

func writePoints(b *strings.Builder, pts geom.Polyline) error {
	for i, p := range pts {
		if err := CheckFinite(p.X, p.Y, p.Z); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	b.WriteByte('[')
	for i, p := range pts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatFloat(p.X))
		b.WriteString(", ")
		b.WriteString(FormatFloat(p.Y))
		b.WriteString(", ")
		b.WriteString(FormatFloat(p.Z))
	}
	b.WriteByte(']')
	return nil
}

func pointsFrom(v Value, x geom.Xform) (geom.Polyline, error) {
	nums, err := v.Floats()
	if err != nil {
		return nil, err
	}
	if len(nums)%3 != 0 {
		return nil, fmt.Errorf("%w: %d coordinates is not a multiple of 3", ErrMalformed, len(nums))
	}
	out := make(geom.Polyline, 0, len(nums)/3)
	for i := 0; i < len(nums); i += 3 {
		out = append(out, x.Apply(geom.Point3{X: nums[i], Y: nums[i+1], Z: nums[i+2]}))
	}
	return out, nil
}

// EncodePolyline writes p in frame-local coordinates as a flat list
// [x, y, z, x, y, z, ...].
func EncodePolyline(p geom.Polyline, frame geom.Frame) (string, error) {
	_, inv, err := transforms(frame)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := writePoints(&b, p.Transform(inv)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DecodePolyline reads a flat coordinate list and maps it to world space.
func DecodePolyline(text string, frame geom.Frame) (geom.Polyline, error) {
	fwd, _, err := transforms(frame)
	if err != nil {
		return nil, err
	}
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return pointsFrom(v, fwd)
}

// EncodePolylines writes a list of polylines, one flat coordinate list each.
func EncodePolylines(ps []geom.Polyline, frame geom.Frame) (string, error) {
	_, inv, err := transforms(frame)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range ps {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writePoints(&b, p.Transform(inv)); err != nil {
			return "", fmt.Errorf("polyline %d: %w", i, err)
		}
	}
	b.WriteByte(']')
	return b.String(), nil
}

// DecodePolylines reads the output of EncodePolylines.
func DecodePolylines(text string, frame geom.Frame) ([]geom.Polyline, error) {
	fwd, _, err := transforms(frame)
	if err != nil {
		return nil, err
	}
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	items, err := v.Items()
	if err != nil {
		return nil, err
	}
	out := make([]geom.Polyline, len(items))
	for i, item := range items {
		if out[i], err = pointsFrom(item, fwd); err != nil {
			return nil, fmt.Errorf("polyline %d: %w", i, err)
		}
	}
	return out, nil
}

// EncodePolylinePairs writes a list of polyline pairs as
// [[[a...], [b...]], ...].
func EncodePolylinePairs(pairs []Pair, frame geom.Frame) (string, error) {
	_, inv, err := transforms(frame)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, pair := range pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for j, half := range pair {
			if j > 0 {
				b.WriteString(", ")
			}
			if err := writePoints(&b, half.Transform(inv)); err != nil {
				return "", fmt.Errorf("pair %d: %w", i, err)
			}
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String(), nil
}

// DecodePolylinePairs reads the output of EncodePolylinePairs.
func DecodePolylinePairs(text string, frame geom.Frame) ([]Pair, error) {
	fwd, _, err := transforms(frame)
	if err != nil {
		return nil, err
	}
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	items, err := v.Items()
	if err != nil {
		return nil, err
	}
	out := make([]Pair, len(items))
	for i, item := range items {
		halves, err := item.Items()
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		if len(halves) != 2 {
			return nil, fmt.Errorf("%w: pair %d has %d polylines", ErrMalformed, i, len(halves))
		}
		for j := range halves {
			if out[i][j], err = pointsFrom(halves[j], fwd); err != nil {
				return nil, fmt.Errorf("pair %d: %w", i, err)
			}
		}
	}
	return out, nil
}

// EncodeVectorLists writes lists of directions in frame-local coordinates.
// Only the rotation of the frame applies; vectors have no position.
func EncodeVectorLists(vs [][]geom.Vector3, frame geom.Frame) (string, error) {
	_, inv, err := transforms(frame)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		pts := make(geom.Polyline, len(row))
		for j, v := range row {
			l := inv.ApplyVector(v)
			pts[j] = geom.Point3{X: l.X, Y: l.Y, Z: l.Z}
		}
		if err := writePoints(&b, pts); err != nil {
			return "", fmt.Errorf("list %d: %w", i, err)
		}
	}
	b.WriteByte(']')
	return b.String(), nil
}

// DecodeVectorLists reads the output of EncodeVectorLists.
func DecodeVectorLists(text string, frame geom.Frame) ([][]geom.Vector3, error) {
	fwd, _, err := transforms(frame)
	if err != nil {
		return nil, err
	}
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	items, err := v.Items()
	if err != nil {
		return nil, err
	}
	out := make([][]geom.Vector3, len(items))
	for i, item := range items {
		pts, err := pointsFrom(item, geom.Identity())
		if err != nil {
			return nil, fmt.Errorf("vector list %d: %w", i, err)
		}
		row := make([]geom.Vector3, len(pts))
		for j, p := range pts {
			row[j] = fwd.ApplyVector(geom.Vector3{X: p.X, Y: p.Y, Z: p.Z})
		}
		out[i] = row
	}
	return out, nil
}
