// Package mongo implements store.Store on a MongoDB collection.
//
// Each artifact is one document {_id: key, data: <binary>}.
package mongo

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/crafttable/pkg/store"
)

const (
	// DefaultDatabase is used when the URI names no database.
	DefaultDatabase = "crafttable"
	// Collection holds the artifacts.
	Collection = "artifacts"
)

type document struct {
	Key  string `bson:"_id"`
	Data []byte `bson:"data"`
}

// Store is a MongoDB-backed artifact store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri ("mongodb://host:27017/dbname") and pings the
// primary, retrying while it is unreachable. The database is taken from the
// URI path.
func Open(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := store.Connect(ctx, ping); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	coll := client.Database(databaseName(uri)).Collection(Collection)
	return &Store{client: client, coll: coll}, nil
}

// Write upserts data under key.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		document{Key: key, Data: data},
		options.Replace().SetUpsert(true))
	return err
}

// Read returns the data under key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Keys returns every document id, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.Key
	}
	return keys, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// databaseName extracts the database from a connection URI.
func databaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultDatabase
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return DefaultDatabase
}

var _ store.Store = (*Store)(nil)
