package sessionstate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionOptions configure a single DocumentSession.
type SessionOptions struct {
	// NoStaleReads requires loads to observe every write acknowledged before
	// the session was opened.
	NoStaleReads bool

	// OptimisticConcurrency makes SaveChanges fail with ErrConcurrencyConflict
	// when a loaded document was modified by someone else in the meantime.
	OptimisticConcurrency bool
}

// DocumentStore is a process-wide handle to the backing database. It is opened
// once and closed at shutdown.
type DocumentStore interface {
	// OpenSession starts a short-lived unit of work.
	OpenSession(ctx context.Context, opts SessionOptions) (DocumentSession, error)
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// DocumentSession is a unit of work: records are loaded, modified in memory
// and written back together by SaveChanges. A session must not be shared
// between operations.
type DocumentSession interface {
	// Load returns the record stored under key, or nil when there is none.
	// Loading the same key twice returns the same *Record.
	Load(ctx context.Context, key string) (*Record, error)
	// Store schedules an unconditional write of a new record.
	Store(rec *Record)
	// Delete schedules removal of rec.
	Delete(rec *Record)
	// SetExpiration sets the store-specific expiration metadata of a tracked
	// record. The metadata is consumed by the database's own expiration
	// mechanism and is never read back.
	SetExpiration(rec *Record, at time.Time)
	// SaveChanges writes every pending change: stored records, modified loaded
	// records and deletions.
	SaveChanges(ctx context.Context) error
	// Close ends the session. Pending changes are discarded.
	Close(ctx context.Context) error
}

// storedDocument is a record as held by a backend, with its metadata.
type storedDocument struct {
	record   *Record
	etag     string
	expireAt time.Time
}

// documentDriver is the backend half of a unit of work. An empty ifMatch makes
// a write unconditional; otherwise the write must fail with
// ErrConcurrencyConflict unless the stored etag equals ifMatch.
type documentDriver interface {
	get(ctx context.Context, key string) (*storedDocument, error)
	put(ctx context.Context, key string, doc *storedDocument, ifMatch string) error
	remove(ctx context.Context, key string, ifMatch string) error
	close(ctx context.Context) error
}

type trackState int

const (
	trackLoaded trackState = iota
	trackAdded
	trackDeleted
)

type tracked struct {
	rec      *Record
	snapshot *Record
	etag     string
	expireAt time.Time
	expDirty bool
	state    trackState
}

// unitOfWork implements DocumentSession on top of a documentDriver.
type unitOfWork struct {
	driver  documentDriver
	opts    SessionOptions
	entries map[string]*tracked
	order   []string
	closed  bool
}

func newUnitOfWork(driver documentDriver, opts SessionOptions) *unitOfWork {
	return &unitOfWork{
		driver:  driver,
		opts:    opts,
		entries: make(map[string]*tracked),
	}
}

func (u *unitOfWork) track(key string, e *tracked) {
	if _, ok := u.entries[key]; !ok {
		u.order = append(u.order, key)
	}
	u.entries[key] = e
}

func (u *unitOfWork) Load(ctx context.Context, key string) (*Record, error) {
	if u.closed {
		return nil, ErrSessionClosed
	}
	if e, ok := u.entries[key]; ok {
		if e.state == trackDeleted {
			return nil, nil
		}
		return e.rec, nil
	}

	doc, err := u.driver.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	u.track(key, &tracked{
		rec:      doc.record,
		snapshot: doc.record.clone(),
		etag:     doc.etag,
		expireAt: doc.expireAt,
		state:    trackLoaded,
	})
	return doc.record, nil
}

func (u *unitOfWork) Store(rec *Record) {
	if u.closed || rec == nil {
		return
	}
	key := rec.Key()
	if e, ok := u.entries[key]; ok && e.rec == rec && e.state != trackDeleted {
		return
	}
	u.track(key, &tracked{rec: rec, state: trackAdded})
}

func (u *unitOfWork) Delete(rec *Record) {
	if u.closed || rec == nil {
		return
	}
	key := rec.Key()
	if e, ok := u.entries[key]; ok {
		if e.state == trackAdded && e.snapshot == nil {
			// never persisted in this session
			delete(u.entries, key)
			return
		}
		e.state = trackDeleted
		return
	}
	u.track(key, &tracked{rec: rec, state: trackDeleted})
}

func (u *unitOfWork) SetExpiration(rec *Record, at time.Time) {
	if u.closed || rec == nil {
		return
	}
	if e, ok := u.entries[rec.Key()]; ok && e.rec == rec {
		if !e.expireAt.Equal(at) {
			e.expireAt = at
			e.expDirty = true
		}
	}
}

func (u *unitOfWork) SaveChanges(ctx context.Context) error {
	if u.closed {
		return ErrSessionClosed
	}

	for _, key := range u.order {
		e, ok := u.entries[key]
		if !ok {
			continue
		}

		switch e.state {
		case trackDeleted:
			if err := u.driver.remove(ctx, key, u.ifMatch(e)); err != nil {
				return err
			}
			delete(u.entries, key)

		case trackAdded:
			if err := u.write(ctx, key, e, ""); err != nil {
				return err
			}

		case trackLoaded:
			if !e.expDirty && e.rec.equal(e.snapshot) {
				continue
			}
			if err := u.write(ctx, key, e, u.ifMatch(e)); err != nil {
				return err
			}
		}
	}

	order := u.order[:0]
	for _, key := range u.order {
		if _, ok := u.entries[key]; ok {
			order = append(order, key)
		}
	}
	u.order = order
	return nil
}

func (u *unitOfWork) write(ctx context.Context, key string, e *tracked, ifMatch string) error {
	doc := &storedDocument{
		record:   e.rec,
		etag:     uuid.NewString(),
		expireAt: e.expireAt,
	}
	if err := u.driver.put(ctx, key, doc, ifMatch); err != nil {
		return err
	}
	e.etag = doc.etag
	e.snapshot = e.rec.clone()
	e.expDirty = false
	e.state = trackLoaded
	return nil
}

func (u *unitOfWork) ifMatch(e *tracked) string {
	if !u.opts.OptimisticConcurrency {
		return ""
	}
	return e.etag
}

func (u *unitOfWork) Close(ctx context.Context) error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.entries = nil
	u.order = nil
	return u.driver.close(ctx)
}
