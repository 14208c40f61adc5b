package element

import (
	"context"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// Snapshot is every field of an element read at once, in world space.
type Snapshot struct {
	ID            string            `json:"id"`
	MarkerID      string            `json:"marker_id"`
	Frame         *geom.Frame       `json:"frame,omitempty"` // nil when the marker is invalid
	Name          string            `json:"name,omitempty"`
	Type          string            `json:"element_type"`
	Parent        string            `json:"parent,omitempty"`
	Index         int               `json:"index"`
	Neighbours    []int             `json:"neighbours"`
	Features      []geom.Geometry   `json:"features"`
	Axes          []geom.Polyline   `json:"axes"`
	Radii         [][]float64       `json:"radii"`
	Thickness     *float64          `json:"thickness,omitempty"`
	PairPolylines []codec.Pair      `json:"pair_polylines"`
	Insertion     [][]geom.Vector3  `json:"insertion"`
	JointTypes    [][]int           `json:"joint_types"`
	Attributes    map[string]string `json:"-"`
}

// Snapshot reads the element with one attribute read and one marker read.
// With an unset frame, coordinate fields are left empty instead of failing,
// so that broken elements can still be listed.
func (e *Element) Snapshot(ctx context.Context) (*Snapshot, error) {
	v, err := e.read(ctx, true)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{
		ID:         e.shape,
		MarkerID:   e.marker,
		Name:       v.str(codec.KeyName),
		Type:       v.elementType(),
		Parent:     v.str(codec.KeyParent),
		Attributes: v.attrs,
	}
	if s.Index, err = v.index(); err != nil {
		return nil, err
	}
	if s.Neighbours, err = v.neighbours(); err != nil {
		return nil, err
	}
	if s.Radii, err = v.radii(); err != nil {
		return nil, err
	}
	if s.JointTypes, err = v.jointTypes(); err != nil {
		return nil, err
	}
	if t, err := v.thickness(); err == nil {
		s.Thickness = &t
	} else if !errors.Is(err, errors.ErrCodeAbsentField) {
		return nil, err
	}

	if !v.frame.IsSet() {
		return s, nil
	}
	f := v.frame
	s.Frame = &f
	if s.Features, err = v.features(); err != nil {
		return nil, err
	}
	if s.Axes, err = v.axes(); err != nil {
		return nil, err
	}
	if s.PairPolylines, err = v.pairPolylines(); err != nil {
		return nil, err
	}
	if s.Insertion, err = v.insertion(); err != nil {
		return nil, err
	}
	return s, nil
}

// FirstAxes returns the first axis of every element.
func FirstAxes(ctx context.Context, elements []*Element) ([]geom.Polyline, error) {
	out := make([]geom.Polyline, 0, len(elements))
	for _, e := range elements {
		axes, err := e.Axes(ctx)
		if err != nil {
			return nil, err
		}
		if len(axes) == 0 {
			return nil, errors.Attribute(errors.ErrCodeAbsentField, e.shape, codec.KeyAxes, nil)
		}
		out = append(out, axes[0])
	}
	return out, nil
}

// FirstRadii returns the radii of the first axis of every element.
func FirstRadii(ctx context.Context, elements []*Element) ([][]float64, error) {
	out := make([][]float64, 0, len(elements))
	for _, e := range elements {
		radii, err := e.Radii(ctx)
		if err != nil {
			return nil, err
		}
		if len(radii) == 0 {
			return nil, errors.Attribute(errors.ErrCodeAbsentField, e.shape, codec.KeyRadii, nil)
		}
		out = append(out, radii[0])
	}
	return out, nil
}

// AllInsertion returns the insertion directions of every element.
func AllInsertion(ctx context.Context, elements []*Element) ([][][]geom.Vector3, error) {
	out := make([][][]geom.Vector3, 0, len(elements))
	for _, e := range elements {
		ins, err := e.Insertion(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, nil
}
