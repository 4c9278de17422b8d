package results

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// documentInserter is the subset of *mongo.Collection used by MongoSink.
type documentInserter interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

// MongoSink stores one document per record.
type MongoSink struct {
	coll       documentInserter
	disconnect func(context.Context) error
}

// MongoConfig selects the target collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// OpenMongo connects to cfg.URI and writes into cfg.Database.cfg.Collection.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return &MongoSink{coll: coll, disconnect: client.Disconnect}, nil
}

func (s *MongoSink) Write(ctx context.Context, rec Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *MongoSink) Close() error {
	if s.disconnect == nil {
		return nil
	}
	return s.disconnect(context.Background())
}
