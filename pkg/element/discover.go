package element

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/groups"
)

// Discover finds the elements among ids: pairs of objects that share exactly
// the same group tags, where one is a 3-point marker polyline and the other
// is not a polyline. A nil ids slice means every object in the store.
// Rejected candidates are logged at debug level; logger may be nil.
func Discover(ctx context.Context, store docstore.Store, ids []string, logger *log.Logger, opts ...Option) ([]*Element, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if ids == nil {
		var err error
		if ids, err = store.List(ctx); err != nil {
			return nil, err
		}
	}

	tagged := make([]groups.Tagged, 0, len(ids))
	for _, id := range ids {
		tags, err := store.GroupTags(ctx, id)
		if err != nil {
			return nil, err
		}
		tagged = append(tagged, groups.Tagged{ID: id, Tags: tags})
	}
	idx := groups.Build(tagged)

	var found []*Element
	for _, sig := range idx.SignatureKeys() {
		if sig == groups.Ungrouped {
			continue
		}
		members := idx.Signatures[sig]
		if len(members) != 2 {
			logger.Debug("skipping group", "groups", sig, "objects", len(members))
			continue
		}
		shape, marker, err := splitPair(ctx, store, members)
		if err != nil {
			return nil, err
		}
		if shape == "" {
			logger.Debug("skipping group without a shape and a 3-point marker", "groups", sig)
			continue
		}
		found = append(found, newElement(store, shape, marker, opts...))
	}
	logger.Debug("discovered elements", "count", len(found), "objects", len(ids))
	return found, nil
}

// splitPair returns the shape and marker of a two-object group, or empty
// strings if the pair is not one polyline marker and one other object.
func splitPair(ctx context.Context, store docstore.Store, members []string) (shape, marker string, err error) {
	var polylines, others []string
	var markerOK bool
	for _, id := range members {
		obj, err := store.Find(ctx, id)
		if err != nil {
			return "", "", err
		}
		if obj == nil {
			return "", "", nil
		}
		if _, ok := obj.Geometry.Polyline(); ok {
			polylines = append(polylines, id)
			markerOK = obj.Geometry.IsMarker()
		} else {
			others = append(others, id)
		}
	}
	if len(polylines) != 1 || len(others) != 1 || !markerOK {
		return "", "", nil
	}
	return others[0], polylines[0], nil
}

// Lookup returns the element whose shape or marker has the given ID. It
// fails with docstore.ErrNotFound if no discovered element uses id.
func Lookup(ctx context.Context, store docstore.Store, id string, opts ...Option) (*Element, error) {
	tags, err := store.GroupTags(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, docstore.NotFound(id)
	}
	ids, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	// Only objects with the same tags can pair with id.
	sig := groups.Signature(tags)
	var candidates []string
	for _, other := range ids {
		t, err := store.GroupTags(ctx, other)
		if err != nil {
			return nil, err
		}
		if groups.Signature(t) == sig {
			candidates = append(candidates, other)
		}
	}
	found, err := Discover(ctx, store, candidates, nil, opts...)
	if err != nil {
		return nil, err
	}
	for _, e := range found {
		if e.ID() == id || e.MarkerID() == id {
			return e, nil
		}
	}
	return nil, docstore.NotFound(id)
}
