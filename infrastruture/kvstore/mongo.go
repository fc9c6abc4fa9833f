package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document is the stored shape of one key.
type document struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps one document per key. Update is an optimistic
// compare-and-swap on the document version.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore uses collectionName in dbName of an existing client.
func NewMongoStore(client *mongo.Client, dbName, collectionName string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
}

func (s *MongoStore) get(ctx context.Context, key string) (*document, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, i.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

func (s *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	update := bson.M{
		"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		doc, err := s.get(ctx, key)
		if err != nil && !errors.Is(err, i.ErrNotFound) {
			return err
		}

		var current []byte
		if doc != nil {
			current = doc.Value
		}
		next, err := fn(current)
		if err != nil || next == nil {
			return err
		}

		if doc == nil {
			_, err = s.collection.InsertOne(ctx, document{Key: key, Value: next, Version: 1, UpdatedAt: time.Now().UTC()})
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return err
		}

		res, err := s.collection.UpdateOne(ctx,
			bson.M{"_id": key, "version": doc.Version},
			bson.M{"$set": bson.M{"value": next, "version": doc.Version + 1, "updatedAt": time.Now().UTC()}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return errors.New("update " + key + ": too many concurrent writers")
}

// Close disconnects the underlying client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
