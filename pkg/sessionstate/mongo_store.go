package sessionstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoExpireAtField holds the expiration metadata of every session document.
// A TTL index on it lets the server drop expired sessions in the background.
const MongoExpireAtField = "expireAt"

// mongoDocument is the on-disk shape of a session record.
type mongoDocument struct {
	ID       string     `bson:"_id"`
	Record   `bson:",inline"`
	ExpireAt *time.Time `bson:"expireAt,omitempty"`
	ETag     string     `bson:"etag"`
}

// MongoDocumentStore keeps session records in a single MongoDB collection,
// keyed by record key.
type MongoDocumentStore struct {
	coll       *mongo.Collection
	strict     *mongo.Collection
	ownsClient bool
}

var _ DocumentStore = (*MongoDocumentStore)(nil)

// NewMongoDocumentStore wraps coll. Closing the store does not disconnect the
// client, which stays owned by the caller.
func NewMongoDocumentStore(coll *mongo.Collection) *MongoDocumentStore {
	strict := coll.Database().Collection(coll.Name(),
		options.Collection().
			SetReadConcern(readconcern.Majority()).
			SetReadPreference(readpref.Primary()),
	)
	return &MongoDocumentStore{coll: coll, strict: strict}
}

// OpenSession starts a unit of work backed by a causally consistent client
// session. With NoStaleReads, reads use majority read concern against the
// primary.
func (s *MongoDocumentStore) OpenSession(ctx context.Context, opts SessionOptions) (DocumentSession, error) {
	coll := s.coll
	if opts.NoStaleReads {
		coll = s.strict
	}

	sess, err := s.coll.Database().Client().StartSession(
		options.Session().SetCausalConsistency(true),
	)
	if err != nil {
		return nil, err
	}
	return newUnitOfWork(&mongoDriver{coll: coll, session: sess}, opts), nil
}

// Close disconnects the client if the store created it.
func (s *MongoDocumentStore) Close(ctx context.Context) error {
	if !s.ownsClient {
		return nil
	}
	return s.coll.Database().Client().Disconnect(ctx)
}

type mongoDriver struct {
	coll    *mongo.Collection
	session *mongo.Session
}

func (d *mongoDriver) ctx(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, d.session)
}

func (d *mongoDriver) get(ctx context.Context, key string) (*storedDocument, error) {
	var doc mongoDocument
	err := d.coll.FindOne(d.ctx(ctx), bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stored := &storedDocument{record: &doc.Record, etag: doc.ETag}
	if doc.ExpireAt != nil {
		stored.expireAt = *doc.ExpireAt
	}
	return stored, nil
}

func (d *mongoDriver) put(ctx context.Context, key string, doc *storedDocument, ifMatch string) error {
	replacement := mongoDocument{
		ID:     key,
		Record: *doc.record,
		ETag:   doc.etag,
	}
	if !doc.expireAt.IsZero() {
		at := doc.expireAt
		replacement.ExpireAt = &at
	}

	filter := bson.D{{Key: "_id", Value: key}}
	if ifMatch != "" {
		filter = append(filter, bson.E{Key: "etag", Value: ifMatch})
	}

	res, err := d.coll.ReplaceOne(d.ctx(ctx), filter, replacement,
		options.Replace().SetUpsert(ifMatch == ""),
	)
	if err != nil {
		return err
	}
	if ifMatch != "" && res.MatchedCount == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

func (d *mongoDriver) remove(ctx context.Context, key string, ifMatch string) error {
	filter := bson.D{{Key: "_id", Value: key}}
	if ifMatch != "" {
		filter = append(filter, bson.E{Key: "etag", Value: ifMatch})
	}

	res, err := d.coll.DeleteOne(d.ctx(ctx), filter)
	if err != nil {
		return err
	}
	if ifMatch != "" && res.DeletedCount == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

func (d *mongoDriver) close(ctx context.Context) error {
	d.session.EndSession(ctx)
	return nil
}
