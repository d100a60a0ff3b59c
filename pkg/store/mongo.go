// Package store archives trial reports in MongoDB.
//
// The archive is optional: the CLI and the HTTP API only open it when a
// MongoDB URI is configured. Reports are stored one document per run, keyed by
// run ID and indexed by group set fingerprint so runs on the same input can be
// compared over time.
package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/necklace/pkg/cache"
	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/trial"
)

// Default names used when the configuration leaves them empty.
const (
	DefaultDatabase   = "necklace"
	DefaultCollection = "reports"
)

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

// document is the stored form of a report. The full report is kept as JSON so
// the document schema does not need to track every report field.
type document struct {
	RunID       string    `bson:"_id"`
	Fingerprint string    `bson:"fingerprint"`
	Groups      string    `bson:"groups"`
	Trials      int       `bson:"trials"`
	Valid       int       `bson:"valid"`
	Cycles      int       `bson:"cycles"`
	Distinct    int       `bson:"distinct"`
	CreatedAt   time.Time `bson:"created_at"`
	Report      []byte    `bson:"report"`
}

// MongoArchive implements [trial.Archive] on a MongoDB collection.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ trial.Archive = (*MongoArchive)(nil)

// NewMongoArchive connects to uri and ensures the fingerprint index exists.
// Empty database or collection names fall back to the defaults.
func NewMongoArchive(ctx context.Context, uri, database, collection string) (*MongoArchive, error) {
	if err := errors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, readpref.Primary()))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "fingerprint", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create index")
	}

	return &MongoArchive{client: client, coll: coll}, nil
}

// Save stores r. Saving the same run twice replaces the earlier document.
func (a *MongoArchive) Save(ctx context.Context, r *trial.Report) error {
	data, err := trial.MarshalReport(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal report")
	}
	doc := document{
		RunID:       r.RunID,
		Fingerprint: r.Fingerprint,
		Groups:      r.Groups,
		Trials:      r.Trials,
		Valid:       r.Valid,
		Cycles:      r.Cycles,
		Distinct:    r.Distinct(),
		CreatedAt:   r.CreatedAt,
		Report:      data,
	}
	_, err = a.coll.ReplaceOne(ctx, bson.M{"_id": r.RunID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save report %s", r.RunID)
	}
	return nil
}

// Get loads the report of one run.
func (a *MongoArchive) Get(ctx context.Context, runID string) (*trial.Report, error) {
	var doc document
	err := a.coll.FindOne(ctx, bson.M{"_id": runID}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "report %s not found", runID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load report %s", runID)
	}
	return decode(doc)
}

// Recent returns up to limit reports for a fingerprint, newest first.
func (a *MongoArchive) Recent(ctx context.Context, fingerprint string, limit int) ([]*trial.Report, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := a.coll.Find(ctx, bson.M{"fingerprint": fingerprint}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "query reports")
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read reports")
	}
	out := make([]*trial.Report, 0, len(docs))
	for _, d := range docs {
		r, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func decode(d document) (*trial.Report, error) {
	r, err := trial.UnmarshalReport(d.Report)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode report %s", d.RunID)
	}
	return r, nil
}
