package docstore

import (
	"context"
	"time"

	"github.com/matzehuels/joinery/pkg/geom"
	"github.com/matzehuels/joinery/pkg/observability"
)

// Instrument wraps s so that every operation is reported to the store hooks
// registered with the observability package at call time.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

type instrumented struct {
	next Store
}

func (s *instrumented) read(ctx context.Context, op, id string, start time.Time, err error) {
	if err != nil {
		observability.Store().OnError(ctx, op, id, err)
		return
	}
	observability.Store().OnRead(ctx, op, id, time.Since(start))
}

func (s *instrumented) write(ctx context.Context, op, id string, keys int, start time.Time, err error) {
	if err != nil {
		observability.Store().OnError(ctx, op, id, err)
		return
	}
	observability.Store().OnWrite(ctx, op, id, keys, time.Since(start))
}

func (s *instrumented) Create(ctx context.Context, g geom.Geometry) (string, error) {
	start := time.Now()
	id, err := s.next.Create(ctx, g)
	s.write(ctx, "create", id, 0, start, err)
	return id, err
}

func (s *instrumented) Find(ctx context.Context, id string) (*Object, error) {
	start := time.Now()
	obj, err := s.next.Find(ctx, id)
	s.read(ctx, "find", id, start, err)
	return obj, err
}

func (s *instrumented) Replace(ctx context.Context, id string, g geom.Geometry) error {
	start := time.Now()
	err := s.next.Replace(ctx, id, g)
	s.write(ctx, "replace", id, 0, start, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.write(ctx, "delete", id, 0, start, err)
	return err
}

func (s *instrumented) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.next.List(ctx)
	s.read(ctx, "list", "", start, err)
	return ids, err
}

func (s *instrumented) Attributes(ctx context.Context, id string) (map[string]string, error) {
	start := time.Now()
	attrs, err := s.next.Attributes(ctx, id)
	s.read(ctx, "attributes", id, start, err)
	return attrs, err
}

func (s *instrumented) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	start := time.Now()
	err := s.next.SetAttributes(ctx, id, attrs)
	s.write(ctx, "set_attributes", id, len(attrs), start, err)
	return err
}

func (s *instrumented) DeleteAttributes(ctx context.Context, id string, keys ...string) error {
	start := time.Now()
	err := s.next.DeleteAttributes(ctx, id, keys...)
	s.write(ctx, "delete_attributes", id, len(keys), start, err)
	return err
}

func (s *instrumented) GroupTags(ctx context.Context, id string) ([]string, error) {
	start := time.Now()
	tags, err := s.next.GroupTags(ctx, id)
	s.read(ctx, "group_tags", id, start, err)
	return tags, err
}

func (s *instrumented) SetGroupTags(ctx context.Context, id string, tags []string) error {
	start := time.Now()
	err := s.next.SetGroupTags(ctx, id, tags)
	s.write(ctx, "set_group_tags", id, len(tags), start, err)
	return err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}

var _ Store = (*instrumented)(nil)
