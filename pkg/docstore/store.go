// Package docstore defines the document store that elements and groups live
// in.
//
// A store holds objects: a [geom.Geometry] value plus a flat map of string
// attributes and a list of group tags. It is the only persisted state; the
// element and hierarchy packages read and write through it on every call and
// keep nothing between calls.
//
// # Backends
//
//   - memstore: in-process maps, used by tests and the CLI's scratch mode
//   - filestore: a single JSON document guarded by a lock file
//   - redisstore: one hash and one list per object
//   - mongostore: one document per object
//
// All backends satisfy the same contract: [Store.Find] returns nil and no
// error for a missing object, while every other operation on a missing
// object fails with an error wrapping [ErrNotFound].
//
// # Instrumentation
//
// [Instrument] wraps any store and reports operations to the hooks
// registered with the observability package.
package docstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// ErrNotFound is returned when an operation names an object that does not
// exist.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "object not found")

// Object is a stored geometry value and its identifier.
type Object struct {
	ID       string        `json:"id" bson:"_id"`
	Geometry geom.Geometry `json:"geometry" bson:"geometry"`
}

// Store is a document store.
type Store interface {
	// Create stores g as a new object and returns its ID.
	Create(ctx context.Context, g geom.Geometry) (string, error)

	// Find returns the object with the given ID, or nil if there is none.
	Find(ctx context.Context, id string) (*Object, error)

	// Replace swaps an object's geometry, keeping attributes and groups.
	Replace(ctx context.Context, id string, g geom.Geometry) error

	// Delete removes an object with its attributes and group tags.
	Delete(ctx context.Context, id string) error

	// List returns every object ID in ascending order.
	List(ctx context.Context) ([]string, error)

	// Attributes returns a copy of an object's attribute map.
	Attributes(ctx context.Context, id string) (map[string]string, error)

	// SetAttributes writes every entry of attrs in one operation. Keys not
	// in attrs are left unchanged.
	SetAttributes(ctx context.Context, id string, attrs map[string]string) error

	// DeleteAttributes removes the given keys. Missing keys are ignored.
	DeleteAttributes(ctx context.Context, id string, keys ...string) error

	// GroupTags returns an object's group tags in the order they were set.
	GroupTags(ctx context.Context, id string) ([]string, error)

	// SetGroupTags replaces an object's group tags.
	SetGroupTags(ctx context.Context, id string, tags []string) error

	// Close releases resources held by the store.
	Close() error
}

// NotFound returns an error wrapping ErrNotFound for id.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ValidateAttributes checks every key in attrs.
func ValidateAttributes(attrs map[string]string) error {
	for k := range attrs {
		if err := errors.ValidateAttributeKey(k); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGroupTags checks every tag in tags.
func ValidateGroupTags(tags []string) error {
	for _, t := range tags {
		if err := errors.ValidateGroupPath(t); err != nil {
			return err
		}
	}
	return nil
}

// GetAttribute returns one attribute of an object and whether it is set.
func GetAttribute(ctx context.Context, s Store, id, key string) (string, bool, error) {
	attrs, err := s.Attributes(ctx, id)
	if err != nil {
		return "", false, err
	}
	v, ok := attrs[key]
	return v, ok, nil
}

// SetAttribute writes one attribute of an object.
func SetAttribute(ctx context.Context, s Store, id, key, value string) error {
	return s.SetAttributes(ctx, id, map[string]string{key: value})
}

// AttributeKeys returns the sorted attribute keys of an object.
func AttributeKeys(ctx context.Context, s Store, id string) ([]string, error) {
	attrs, err := s.Attributes(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// AddGroupTag appends tag to an object's group tags unless it is already
// present.
func AddGroupTag(ctx context.Context, s Store, id, tag string) error {
	tags, err := s.GroupTags(ctx, id)
	if err != nil {
		return err
	}
	for _, t := range tags {
		if t == tag {
			return nil
		}
	}
	return s.SetGroupTags(ctx, id, append(tags, tag))
}

// CopyAttributes returns a copy of attrs that is never nil.
func CopyAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
