package repo

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/identity"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPlayerRepo handles the persistence of players in a mongo collection.
type MongoPlayerRepo struct {
	collection *mongo.Collection
}

// NewMongoPlayerRepo creates a repo over collectionName in dbName. It ensures
// a unique index on username.
func NewMongoPlayerRepo(ctx context.Context, client *mongo.Client, dbName, collectionName string) (*MongoPlayerRepo, error) {
	collection := client.Database(dbName).Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoPlayerRepo{collection: collection}, nil
}

// Save inserts a player.
func (r *MongoPlayerRepo) Save(player *identity.Player) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, player)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameConflict
		}
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByID retrieves a player by their ID.
func (r *MongoPlayerRepo) ByID(id uuid.UUID) (*identity.Player, error) {
	return r.findOne(bson.M{"_id": id})
}

// ByUsername retrieves a player by their username.
func (r *MongoPlayerRepo) ByUsername(username string) (*identity.Player, error) {
	return r.findOne(bson.M{"username": username})
}

func (r *MongoPlayerRepo) findOne(filter bson.M) (*identity.Player, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var player identity.Player
	if err := r.collection.FindOne(ctx, filter).Decode(&player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &player, nil
}
