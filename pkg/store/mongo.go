package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/bundlescope/pkg/cache"
	"github.com/matzehuels/bundlescope/pkg/errors"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// Defaults for [MongoConfig].
const (
	DefaultDatabase   = "bundlescope"
	DefaultCollection = "snapshots"
)

// MongoConfig locates the snapshot collection.
type MongoConfig struct {
	URI        string // mongodb:// or mongodb+srv:// connection string
	Database   string
	Collection string
}

// MongoStore stores snapshots as documents keyed by report id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// summaryProjection drops the bulky fields from List results.
var summaryProjection = bson.D{
	{Key: "application", Value: 0},
	{Key: "library", Value: 0},
	{Key: "depths", Value: 0},
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures the
// listing index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if err := errors.ValidateURL(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	s := NewMongoStoreFromClient(client, cfg.Database, cfg.Collection)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "bundle", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create snapshot index")
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, r *report.Report) (string, error) {
	prepare(r)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "save snapshot")
	}
	return r.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*report.Report, error) {
	var r report.Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get snapshot %s", id)
	}
	return &r, nil
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*report.Report, error) {
	filter := bson.M{}
	if opts.Bundle != "" {
		filter["bundle"] = opts.Bundle
	}
	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.limit())).
		SetProjection(summaryProjection)

	cur, err := s.coll.Find(ctx, filter, find)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list snapshots")
	}
	out := []*report.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode snapshots")
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
