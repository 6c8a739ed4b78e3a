// Package store owns the MongoDB connection and the index bootstrap shared by
// all repositories.
package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollUsers    = "users"
	CollProducts = "products"
	CollOrders   = "orders"
	CollSliders  = "sliders"
	CollOTPs     = "otps"
	CollCounters = "counters"
)

// Connect opens a client, pings the deployment and returns the database handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	log.Printf("[mongo] connected db=%s", dbName)
	return client.Database(dbName), nil
}

// EnsureIndexes creates the uniqueness and TTL indexes the application relies
// on. Order id uniqueness in particular backs the conflict-retry path of
// order placement.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	type idx struct {
		coll  string
		model mongo.IndexModel
	}
	indexes := []idx{
		{CollUsers, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{CollProducts, mongo.IndexModel{Keys: bson.D{{Key: "productId", Value: 1}}, Options: unique}},
		{CollSliders, mongo.IndexModel{Keys: bson.D{{Key: "sliderId", Value: 1}}, Options: unique}},
		{CollOrders, mongo.IndexModel{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: unique}},
		{CollOrders, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		// OTP codes expire five minutes after creation.
		{CollOTPs, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(300),
		}},
	}
	for _, ix := range indexes {
		if _, err := db.Collection(ix.coll).Indexes().CreateOne(ctx, ix.model); err != nil {
			return err
		}
	}
	return nil
}
