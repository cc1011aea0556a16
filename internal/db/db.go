package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect builds the process-wide Mongo client. The driver dials lazily,
// so this only fails on an unusable URI; use Ping to find out whether the
// deployment is actually reachable.
func Connect(uri, dbName string) (*mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetTimeout(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	client, err := mongo.Connect(ctx, opts)

	if err != nil {
		return nil, err
	}

	return client.Database(dbName), nil
}

func Ping(database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

	defer cancel()

	return database.Client().Ping(ctx, readpref.Primary())
}
