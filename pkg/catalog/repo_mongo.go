package catalog

import (
	"campusalert/pkg/common"
	"campusalert/pkg/user"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrEmptyCatalog = errors.New("catalog: collection is empty")

// MongoLoader reads the reference data from MongoDB. It is used once at
// start-up; the resulting Catalog lives in memory.
type MongoLoader struct {
	categories common.CollectionHelper
	users      common.CollectionHelper
}

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func NewMongoLoader(db *mongo.Database, categoriesCollection, usersCollection string) *MongoLoader {
	return &MongoLoader{
		categories: &common.MongoCollection{Collection: db.Collection(categoriesCollection)},
		users:      &common.MongoCollection{Collection: db.Collection(usersCollection)},
	}
}

func (l *MongoLoader) Load(ctx context.Context) (*Catalog, error) {
	var categories []*Category
	err := findAll(ctx, l.categories, &categories)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("load categories: %w", ErrEmptyCatalog)
	}

	var users []*user.User
	err = findAll(ctx, l.users, &users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("load users: %w", ErrEmptyCatalog)
	}

	for _, u := range users {
		if !u.Role.Valid() {
			return nil, fmt.Errorf("load users: user %s has unknown role %q", u.ID, u.Role)
		}
	}

	return New(categories, users), nil
}

func findAll(ctx context.Context, collection common.CollectionHelper, results interface{}) error {
	cur, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}

	defer cur.Close(ctx)

	return cur.All(ctx, results)
}
