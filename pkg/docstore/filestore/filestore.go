// Package filestore is a [docstore.Store] kept in a single JSON file.
//
// Every operation takes an exclusive lock on "<path>.lock", reads the whole
// file, applies its change and writes the file back through a temporary file
// and rename. Nothing is cached between calls, so several processes can share
// one document.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// FormatVersion is written into every document file.
const FormatVersion = 1

const (
	lockTimeout   = 3 * time.Second
	retryInterval = 50 * time.Millisecond
)

type fileObject struct {
	Geometry   geom.Geometry     `json:"geometry"`
	Attributes map[string]string `json:"attributes"`
	Groups     []string          `json:"groups"`
}

type document struct {
	Version int                    `json:"version"`
	Objects map[string]*fileObject `json:"objects"`
}

// Store is a file-backed document store.
type Store struct {
	path string
	lock *flock.Flock
}

// Open returns a store for the document at path. The file is created on the
// first write; its directory must exist or be creatable.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "create store directory")
	}
	return &Store{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// withDocument runs fn on the current document under the file lock. If fn
// returns write=true the document is saved afterwards.
func (s *Store) withDocument(ctx context.Context, fn func(doc *document) (write bool, err error)) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, retryInterval)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreError, err, "acquire lock on %s", s.path)
	}
	if !locked {
		return errors.New(errors.ErrCodeStoreError, "could not acquire lock on %s", s.path)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	write, err := fn(doc)
	if err != nil || !write {
		return err
	}
	return s.save(doc)
}

func (s *Store) load() (*document, error) {
	doc := &document{Version: FormatVersion, Objects: map[string]*fileObject{}}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "read %s", s.path)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "parse %s", s.path)
	}
	if doc.Version > FormatVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s has format version %d, newest supported is %d", s.path, doc.Version, FormatVersion)
	}
	if doc.Objects == nil {
		doc.Objects = map[string]*fileObject{}
	}
	for _, obj := range doc.Objects {
		if obj.Attributes == nil {
			obj.Attributes = map[string]string{}
		}
	}
	return doc, nil
}

func (s *Store) save(doc *document) error {
	doc.Version = FormatVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreError, err, "create temp file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeStoreError, err, "write %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeStoreError, err, "close %s", tmpPath)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeStoreError, err, "replace %s", s.path)
	}
	return nil
}

func lookup(doc *document, id string) (*fileObject, error) {
	obj, ok := doc.Objects[id]
	if !ok {
		return nil, docstore.NotFound(id)
	}
	return obj, nil
}

// Create implements docstore.Store.
func (s *Store) Create(ctx context.Context, g geom.Geometry) (string, error) {
	id := uuid.NewString()
	err := s.withDocument(ctx, func(doc *document) (bool, error) {
		doc.Objects[id] = &fileObject{Geometry: g, Attributes: map[string]string{}}
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Find implements docstore.Store.
func (s *Store) Find(ctx context.Context, id string) (*docstore.Object, error) {
	var found *docstore.Object
	err := s.withDocument(ctx, func(doc *document) (bool, error) {
		if obj, ok := doc.Objects[id]; ok {
			found = &docstore.Object{ID: id, Geometry: obj.Geometry}
		}
		return false, nil
	})
	return found, err
}

// Replace implements docstore.Store.
func (s *Store) Replace(ctx context.Context, id string, g geom.Geometry) error {
	return s.withDocument(ctx, func(doc *document) (bool, error) {
		obj, err := lookup(doc, id)
		if err != nil {
			return false, err
		}
		obj.Geometry = g
		return true, nil
	})
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withDocument(ctx, func(doc *document) (bool, error) {
		if _, err := lookup(doc, id); err != nil {
			return false, err
		}
		delete(doc.Objects, id)
		return true, nil
	})
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.withDocument(ctx, func(doc *document) (bool, error) {
		ids = make([]string, 0, len(doc.Objects))
		for id := range doc.Objects {
			ids = append(ids, id)
		}
		return false, nil
	})
	sort.Strings(ids)
	return ids, err
}

// Attributes implements docstore.Store.
func (s *Store) Attributes(ctx context.Context, id string) (map[string]string, error) {
	var attrs map[string]string
	err := s.withDocument(ctx, func(doc *document) (bool, error) {
		obj, err := lookup(doc, id)
		if err != nil {
			return false, err
		}
		attrs = docstore.CopyAttributes(obj.Attributes)
		return false, nil
	})
	return attrs, err
}

// SetAttributes implements docstore.Store.
func (s *Store) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	if err := docstore.ValidateAttributes(attrs); err != nil {
		return err
	}
	return s.withDocument(ctx, func(doc *document) (bool, error) {
		obj, err := lookup(doc, id)
		if err != nil {
			return false, err
		}
		for k, v := range attrs {
			obj.Attributes[k] = v
		}
		return true, nil
	})
}

// DeleteAttributes implements docstore.Store.
func (s *Store) DeleteAttributes(ctx context.Context, id string, keys ...string) error {
	return s.withDocument(ctx, func(doc *document) (bool, error) {
		obj, err := lookup(doc, id)
		if err != nil {
			return false, err
		}
		for _, k := range keys {
			delete(obj.Attributes, k)
		}
		return len(keys) > 0, nil
	})
}

// GroupTags implements docstore.Store.
func (s *Store) GroupTags(ctx context.Context, id string) ([]string, error) {
	var tags []string
	err := s.withDocument(ctx, func(doc *document) (bool, error) {
		obj, err := lookup(doc, id)
		if err != nil {
			return false, err
		}
		tags = append([]string(nil), obj.Groups...)
		return false, nil
	})
	return tags, err
}

// SetGroupTags implements docstore.Store.
func (s *Store) SetGroupTags(ctx context.Context, id string, tags []string) error {
	if err := docstore.ValidateGroupTags(tags); err != nil {
		return err
	}
	return s.withDocument(ctx, func(doc *document) (bool, error) {
		obj, err := lookup(doc, id)
		if err != nil {
			return false, err
		}
		obj.Groups = append([]string(nil), tags...)
		return true, nil
	})
}

// Close releases the lock file handle.
func (s *Store) Close() error {
	return s.lock.Close()
}

// String implements fmt.Stringer.
func (s *Store) String() string {
	return fmt.Sprintf("file:%s", s.path)
}

// Ensure Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)
