package sessionstate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces session documents in a shared Redis.
const DefaultRedisKeyPrefix = "sessionstate:"

type redisDocument struct {
	Record   Record    `json:"record"`
	ETag     string    `json:"etag"`
	ExpireAt time.Time `json:"expire_at,omitzero"`
}

// RedisDocumentStore keeps each session record as a JSON string under
// prefix+key. Expiration metadata becomes the key's absolute expiry, so Redis
// evicts expired sessions on its own.
//
// Redis has a single primary per key, so NoStaleReads holds as long as the
// client talks to the primary.
type RedisDocumentStore struct {
	client     redis.UniversalClient
	prefix     string
	ownsClient bool
}

var _ DocumentStore = (*RedisDocumentStore)(nil)

// NewRedisDocumentStore wraps client. An empty prefix selects
// DefaultRedisKeyPrefix. Closing the store leaves client open.
func NewRedisDocumentStore(client redis.UniversalClient, prefix string) *RedisDocumentStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisDocumentStore{client: client, prefix: prefix}
}

// OpenSession starts a unit of work. Conditional writes run in WATCH/MULTI/EXEC.
func (s *RedisDocumentStore) OpenSession(ctx context.Context, opts SessionOptions) (DocumentSession, error) {
	return newUnitOfWork(&redisDriver{store: s}, opts), nil
}

// Close closes the client if the store created it.
func (s *RedisDocumentStore) Close(ctx context.Context) error {
	if !s.ownsClient {
		return nil
	}
	return s.client.Close()
}

type redisDriver struct {
	store *RedisDocumentStore
}

func (d *redisDriver) key(key string) string {
	return d.store.prefix + key
}

func (d *redisDriver) get(ctx context.Context, key string) (*storedDocument, error) {
	return readRedisDocument(ctx, d.store.client, d.key(key))
}

func readRedisDocument(ctx context.Context, c redis.Cmdable, key string) (*storedDocument, error) {
	val, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc redisDocument
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, err
	}
	return &storedDocument{record: &doc.Record, etag: doc.ETag, expireAt: doc.ExpireAt}, nil
}

func (d *redisDriver) put(ctx context.Context, key string, doc *storedDocument, ifMatch string) error {
	val, err := json.Marshal(redisDocument{
		Record:   *doc.record,
		ETag:     doc.etag,
		ExpireAt: doc.expireAt,
	})
	if err != nil {
		return err
	}

	set := func(ctx context.Context, c redis.Cmdable) error {
		if doc.expireAt.IsZero() {
			return c.Set(ctx, d.key(key), val, 0).Err()
		}
		return c.SetArgs(ctx, d.key(key), val, redis.SetArgs{ExpireAt: doc.expireAt}).Err()
	}

	if ifMatch == "" {
		return set(ctx, d.store.client)
	}
	return d.conditional(ctx, key, ifMatch, func(pipe redis.Pipeliner) error {
		return set(ctx, pipe)
	})
}

func (d *redisDriver) remove(ctx context.Context, key string, ifMatch string) error {
	if ifMatch == "" {
		return d.store.client.Del(ctx, d.key(key)).Err()
	}
	return d.conditional(ctx, key, ifMatch, func(pipe redis.Pipeliner) error {
		return pipe.Del(ctx, d.key(key)).Err()
	})
}

// conditional runs fn inside MULTI/EXEC if the stored etag still equals
// ifMatch. A concurrent write between WATCH and EXEC is reported as a conflict.
func (d *redisDriver) conditional(ctx context.Context, key, ifMatch string, fn func(redis.Pipeliner) error) error {
	err := d.store.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readRedisDocument(ctx, tx, d.key(key))
		if err != nil {
			return err
		}
		if cur == nil || cur.etag != ifMatch {
			return ErrConcurrencyConflict
		}

		_, err = tx.TxPipelined(ctx, fn)
		return err
	}, d.key(key))

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConcurrencyConflict
	}
	return err
}

func (d *redisDriver) close(context.Context) error {
	return nil
}
