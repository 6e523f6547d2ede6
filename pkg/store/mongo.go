package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/depwalk/depwalk/pkg/report"
)

const (
	mongoConnectTimeout = 10 * time.Second
	reportsCollection   = "reports"
)

// MongoStore persists reports in a MongoDB collection, keyed by report ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and uses the reports collection
// of the named database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(reportsCollection),
	}, nil
}

// Save upserts a report by ID.
func (s *MongoStore) Save(ctx context.Context, r report.Report) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": r.ID}, r,
		options.Replace().SetUpsert(true))
	return err
}

// Get retrieves a report by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (report.Report, error) {
	var r report.Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return report.Report{}, ErrNotFound
	}
	if err != nil {
		return report.Report{}, err
	}
	return r, nil
}

// List returns up to limit reports for pkg, newest first.
func (s *MongoStore) List(ctx context.Context, pkg string, limit int) ([]report.Report, error) {
	filter := bson.M{}
	if pkg != "" {
		filter["package"] = pkg
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []report.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
