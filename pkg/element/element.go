package element

import (
	"context"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// Element types written by Create.
const (
	TypeBeam  = "beam"
	TypePlate = "plate"
)

// NoIndex is the index of an element that was never numbered.
const NoIndex = -1

// Element is a shape and its marker in a document store.
type Element struct {
	store  docstore.Store
	shape  string
	marker string
	ser    codec.GeometrySerializer
}

// Option configures an Element.
type Option func(*Element)

// WithSerializer sets the serializer used for feature geometry. The default
// is codec.JSONSerializer.
func WithSerializer(s codec.GeometrySerializer) Option {
	return func(e *Element) {
		if s != nil {
			e.ser = s
		}
	}
}

// Open returns the element made of the given shape and marker objects. Both
// objects must exist; the marker need not define a valid frame.
func Open(ctx context.Context, store docstore.Store, shapeID, markerID string, opts ...Option) (*Element, error) {
	for _, id := range []string{shapeID, markerID} {
		obj, err := store.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, docstore.NotFound(id)
		}
	}
	return newElement(store, shapeID, markerID, opts...), nil
}

func newElement(store docstore.Store, shapeID, markerID string, opts ...Option) *Element {
	e := &Element{store: store, shape: shapeID, marker: markerID, ser: codec.JSONSerializer{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the shape object ID, which identifies the element.
func (e *Element) ID() string { return e.shape }

// MarkerID returns the marker object ID.
func (e *Element) MarkerID() string { return e.marker }

// Frame resolves the element's local frame from its marker. A missing or
// malformed marker gives geom.Unset, not an error.
func (e *Element) Frame(ctx context.Context) (geom.Frame, error) {
	obj, err := e.store.Find(ctx, e.marker)
	if err != nil {
		return geom.Unset, err
	}
	if obj == nil {
		return geom.Unset, nil
	}
	pts, ok := obj.Geometry.Polyline()
	if !ok {
		return geom.Unset, nil
	}
	return geom.Resolve(pts), nil
}

// SetFrame moves the marker so that it describes f. Stored coordinates are
// not rewritten, so world-space values move with the frame.
func (e *Element) SetFrame(ctx context.Context, f geom.Frame, scale float64) error {
	m := geom.MarkerFor(f, scale)
	if m == nil {
		return errors.Wrap(errors.ErrCodeUnsetFrame, codec.ErrUnsetFrame, "set frame of %s", e.shape)
	}
	return e.store.Replace(ctx, e.marker, geom.NewPolyline(m))
}

// view is one read of an element: its attributes and, when needed, its frame.
type view struct {
	id    string
	attrs map[string]string
	frame geom.Frame
	ser   codec.GeometrySerializer
}

func (e *Element) read(ctx context.Context, withFrame bool) (*view, error) {
	attrs, err := e.store.Attributes(ctx, e.shape)
	if err != nil {
		return nil, err
	}
	v := &view{id: e.shape, attrs: attrs, frame: geom.Unset, ser: e.ser}
	if withFrame {
		if v.frame, err = e.Frame(ctx); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (e *Element) write(ctx context.Context, attrs map[string]string) error {
	return e.store.SetAttributes(ctx, e.shape, attrs)
}

// frameFor returns the element's frame, failing if it is unset. Used by
// setters of coordinate fields.
func (e *Element) frameFor(ctx context.Context, key string) (geom.Frame, error) {
	f, err := e.Frame(ctx)
	if err != nil {
		return f, err
	}
	if !f.IsSet() {
		return f, errors.Attribute(errors.ErrCodeUnsetFrame, e.shape, key, codec.ErrUnsetFrame)
	}
	return f, nil
}

// attrErr attaches the element and key to a codec error.
func attrErr(id, key string, err error) error {
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeMalformedAttribute
	}
	return errors.Attribute(code, id, key, err)
}
