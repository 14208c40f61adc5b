// Package redisstore is a [docstore.Store] backed by Redis.
//
// Key layout, with a configurable prefix:
//
//	<prefix>objects              set of object IDs
//	<prefix>obj:<id>:geom        geometry as JSON
//	<prefix>obj:<id>:attrs       hash of attributes
//	<prefix>obj:<id>:groups      list of group tags
package redisstore

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// DefaultPrefix is used when Options.Prefix is empty.
const DefaultPrefix = "joinery:"

// Options configures a Redis store.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed document store.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "connect to redis at %s", opts.Addr)
	}
	return New(client, opts.Prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) objectsKey() string       { return s.prefix + "objects" }
func (s *Store) geomKey(id string) string  { return s.prefix + "obj:" + id + ":geom" }
func (s *Store) attrsKey(id string) string { return s.prefix + "obj:" + id + ":attrs" }
func (s *Store) tagsKey(id string) string  { return s.prefix + "obj:" + id + ":groups" }

func storeErr(err error, op string) error {
	return errors.Wrap(errors.ErrCodeStoreError, err, "redis %s", op)
}

func (s *Store) exists(ctx context.Context, id string) error {
	ok, err := s.client.SIsMember(ctx, s.objectsKey(), id).Result()
	if err != nil {
		return storeErr(err, "lookup")
	}
	if !ok {
		return docstore.NotFound(id)
	}
	return nil
}

// Create implements docstore.Store.
func (s *Store) Create(ctx context.Context, g geom.Geometry) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode geometry")
	}
	id := uuid.NewString()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.geomKey(id), data, 0)
		pipe.SAdd(ctx, s.objectsKey(), id)
		return nil
	})
	if err != nil {
		return "", storeErr(err, "create")
	}
	return id, nil
}

// Find implements docstore.Store.
func (s *Store) Find(ctx context.Context, id string) (*docstore.Object, error) {
	data, err := s.client.Get(ctx, s.geomKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "find")
	}
	var g geom.Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "decode geometry of %s", id)
	}
	return &docstore.Object{ID: id, Geometry: g}, nil
}

// Replace implements docstore.Store.
func (s *Store) Replace(ctx context.Context, id string, g geom.Geometry) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode geometry")
	}
	if err := s.client.Set(ctx, s.geomKey(id), data, 0).Err(); err != nil {
		return storeErr(err, "replace")
	}
	return nil
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.geomKey(id), s.attrsKey(id), s.tagsKey(id))
		pipe.SRem(ctx, s.objectsKey(), id)
		return nil
	})
	if err != nil {
		return storeErr(err, "delete")
	}
	return nil
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.objectsKey()).Result()
	if err != nil {
		return nil, storeErr(err, "list")
	}
	sort.Strings(ids)
	return ids, nil
}

// Attributes implements docstore.Store.
func (s *Store) Attributes(ctx context.Context, id string) (map[string]string, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	attrs, err := s.client.HGetAll(ctx, s.attrsKey(id)).Result()
	if err != nil {
		return nil, storeErr(err, "attributes")
	}
	return docstore.CopyAttributes(attrs), nil
}

// SetAttributes implements docstore.Store.
func (s *Store) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	if err := docstore.ValidateAttributes(attrs); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		values[k] = v
	}
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.attrsKey(id), values)
		return nil
	})
	if err != nil {
		return storeErr(err, "set attributes")
	}
	return nil
}

// DeleteAttributes implements docstore.Store.
func (s *Store) DeleteAttributes(ctx context.Context, id string, keys ...string) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.attrsKey(id), keys...).Err(); err != nil {
		return storeErr(err, "delete attributes")
	}
	return nil
}

// GroupTags implements docstore.Store.
func (s *Store) GroupTags(ctx context.Context, id string) ([]string, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	tags, err := s.client.LRange(ctx, s.tagsKey(id), 0, -1).Result()
	if err != nil {
		return nil, storeErr(err, "group tags")
	}
	return tags, nil
}

// SetGroupTags implements docstore.Store.
func (s *Store) SetGroupTags(ctx context.Context, id string, tags []string) error {
	if err := docstore.ValidateGroupTags(tags); err != nil {
		return err
	}
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.tagsKey(id))
		if len(tags) > 0 {
			values := make([]interface{}, len(tags))
			for i, t := range tags {
				values[i] = t
			}
			pipe.RPush(ctx, s.tagsKey(id), values...)
		}
		return nil
	})
	if err != nil {
		return storeErr(err, "set group tags")
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)
