// Package memstore is an in-process [docstore.Store].
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/geom"
)

type record struct {
	geometry geom.Geometry
	attrs    map[string]string
	tags     []string
}

// Store keeps objects in memory. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	objects map[string]*record
}

// New returns an empty store.
func New() *Store {
	return &Store{objects: make(map[string]*record)}
}

func (s *Store) get(id string) (*record, error) {
	r, ok := s.objects[id]
	if !ok {
		return nil, docstore.NotFound(id)
	}
	return r, nil
}

// Create implements docstore.Store.
func (s *Store) Create(ctx context.Context, g geom.Geometry) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = &record{geometry: g, attrs: map[string]string{}}
	return id, nil
}

// Find implements docstore.Store.
func (s *Store) Find(ctx context.Context, id string) (*docstore.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.objects[id]
	if !ok {
		return nil, nil
	}
	return &docstore.Object{ID: id, Geometry: r.geometry}, nil
}

// Replace implements docstore.Store.
func (s *Store) Replace(ctx context.Context, id string, g geom.Geometry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return err
	}
	r.geometry = g
	return nil
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.objects, id)
	return nil
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Attributes implements docstore.Store.
func (s *Store) Attributes(ctx context.Context, id string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return docstore.CopyAttributes(r.attrs), nil
}

// SetAttributes implements docstore.Store.
func (s *Store) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	if err := docstore.ValidateAttributes(attrs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return err
	}
	for k, v := range attrs {
		r.attrs[k] = v
	}
	return nil
}

// DeleteAttributes implements docstore.Store.
func (s *Store) DeleteAttributes(ctx context.Context, id string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(r.attrs, k)
	}
	return nil
}

// GroupTags implements docstore.Store.
func (s *Store) GroupTags(ctx context.Context, id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), r.tags...), nil
}

// SetGroupTags implements docstore.Store.
func (s *Store) SetGroupTags(ctx context.Context, id string, tags []string) error {
	if err := docstore.ValidateGroupTags(tags); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return err
	}
	r.tags = append([]string(nil), tags...)
	return nil
}

// Close does nothing for the memory store.
func (s *Store) Close() error {
	return nil
}

// Ensure Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)
