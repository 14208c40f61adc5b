// Package mongostore is a [docstore.Store] backed by MongoDB.
//
// Each object is one document:
//
//	{_id, geometry, attributes: {key: value, ...}, groups: [tag, ...]}
//
// Attribute keys are escaped so that "." and "$" can be used in keys without
// being read as field paths or operators.
package mongostore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/geom"
)

// Defaults for Options.
const (
	DefaultDatabase   = "joinery"
	DefaultCollection = "objects"
)

// Options configures a Mongo store.
type Options struct {
	URI        string
	Database   string
	Collection string
}

type mongoObject struct {
	ID         string            `bson:"_id"`
	Geometry   geom.Geometry     `bson:"geometry"`
	Attributes map[string]string `bson:"attributes"`
	Groups     []string          `bson:"groups"`
}

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client // nil when the collection was supplied by the caller
	coll   *mongo.Collection
}

// Open connects to MongoDB and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreError, err, "ping mongo")
	}
	return &Store{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// New wraps an existing collection. Close does not disconnect its client.
func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

var keyEscaper = strings.NewReplacer("%", "%25", ".", "%2E", "$", "%24")
var keyUnescaper = strings.NewReplacer("%2E", ".", "%24", "$", "%25", "%")

// EscapeKey makes key safe for use as a MongoDB field name.
func EscapeKey(key string) string {
	return keyEscaper.Replace(key)
}

// UnescapeKey reverses EscapeKey.
func UnescapeKey(key string) string {
	return keyUnescaper.Replace(key)
}

func storeErr(err error, op string) error {
	return errors.Wrap(errors.ErrCodeStoreError, err, "mongo %s", op)
}

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

// update applies an update document to one object and reports ErrNotFound if
// it does not exist.
func (s *Store) update(ctx context.Context, id, op string, update bson.M) error {
	res, err := s.coll.UpdateOne(ctx, byID(id), update)
	if err != nil {
		return storeErr(err, op)
	}
	if res.MatchedCount == 0 {
		return docstore.NotFound(id)
	}
	return nil
}

func (s *Store) load(ctx context.Context, id string, projection bson.M) (*mongoObject, error) {
	var obj mongoObject
	err := s.coll.FindOne(ctx, byID(id), options.FindOne().SetProjection(projection)).Decode(&obj)
	if err == mongo.ErrNoDocuments {
		return nil, docstore.NotFound(id)
	}
	if err != nil {
		return nil, storeErr(err, "find")
	}
	return &obj, nil
}

// Create implements docstore.Store.
func (s *Store) Create(ctx context.Context, g geom.Geometry) (string, error) {
	obj := mongoObject{
		ID:         uuid.NewString(),
		Geometry:   g,
		Attributes: map[string]string{},
		Groups:     []string{},
	}
	if _, err := s.coll.InsertOne(ctx, obj); err != nil {
		return "", storeErr(err, "create")
	}
	return obj.ID, nil
}

// Find implements docstore.Store.
func (s *Store) Find(ctx context.Context, id string) (*docstore.Object, error) {
	obj, err := s.load(ctx, id, bson.M{"geometry": 1})
	if errors.Is(err, errors.ErrCodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &docstore.Object{ID: obj.ID, Geometry: obj.Geometry}, nil
}

// Replace implements docstore.Store.
func (s *Store) Replace(ctx context.Context, id string, g geom.Geometry) error {
	return s.update(ctx, id, "replace", bson.M{"$set": bson.M{"geometry": g}})
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return storeErr(err, "delete")
	}
	if res.DeletedCount == 0 {
		return docstore.NotFound(id)
	}
	return nil
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr(err, "list")
	}
	defer cur.Close(ctx)

	ids := []string{}
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, storeErr(err, "list")
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr(err, "list")
	}
	return ids, nil
}

// Attributes implements docstore.Store.
func (s *Store) Attributes(ctx context.Context, id string) (map[string]string, error) {
	obj, err := s.load(ctx, id, bson.M{"attributes": 1})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(obj.Attributes))
	for k, v := range obj.Attributes {
		out[UnescapeKey(k)] = v
	}
	return out, nil
}

// SetAttributes implements docstore.Store.
func (s *Store) SetAttributes(ctx context.Context, id string, attrs map[string]string) error {
	if err := docstore.ValidateAttributes(attrs); err != nil {
		return err
	}
	set := bson.M{}
	for k, v := range attrs {
		set["attributes."+EscapeKey(k)] = v
	}
	if len(set) == 0 {
		_, err := s.load(ctx, id, bson.M{"_id": 1})
		return err
	}
	return s.update(ctx, id, "set attributes", bson.M{"$set": set})
}

// DeleteAttributes implements docstore.Store.
func (s *Store) DeleteAttributes(ctx context.Context, id string, keys ...string) error {
	if len(keys) == 0 {
		_, err := s.load(ctx, id, bson.M{"_id": 1})
		return err
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["attributes."+EscapeKey(k)] = ""
	}
	return s.update(ctx, id, "delete attributes", bson.M{"$unset": unset})
}

// GroupTags implements docstore.Store.
func (s *Store) GroupTags(ctx context.Context, id string) ([]string, error) {
	obj, err := s.load(ctx, id, bson.M{"groups": 1})
	if err != nil {
		return nil, err
	}
	return obj.Groups, nil
}

// SetGroupTags implements docstore.Store.
func (s *Store) SetGroupTags(ctx context.Context, id string, tags []string) error {
	if err := docstore.ValidateGroupTags(tags); err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return s.update(ctx, id, "set group tags", bson.M{"$set": bson.M{"groups": tags}})
}

// Close disconnects the client opened by Open.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// Ensure Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)
