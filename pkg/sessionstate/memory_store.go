package sessionstate

import (
	"context"
	"sync"
	"time"
)

// MemoryDocumentStore is an in-process DocumentStore for tests and local
// development. Reads are always fresh, so NoStaleReads needs no extra work.
// Expiration metadata is recorded but never acted upon.
type MemoryDocumentStore struct {
	mu      sync.RWMutex
	docs    map[string]storedDocument
	writes  int
	deletes int
	closed  bool
}

// MemoryStats counts persisted changes since the store was created.
type MemoryStats struct {
	Documents int
	Writes    int
	Deletes   int
}

var _ DocumentStore = (*MemoryDocumentStore)(nil)

// NewMemoryDocumentStore creates an empty in-memory document store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		docs: make(map[string]storedDocument),
	}
}

// OpenSession starts a unit of work against the in-memory documents.
func (m *MemoryDocumentStore) OpenSession(ctx context.Context, opts SessionOptions) (DocumentSession, error) {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return nil, ErrStoreClosed
	}
	return newUnitOfWork(memoryDriver{store: m}, opts), nil
}

// Close marks the store closed. Existing documents are kept.
func (m *MemoryDocumentStore) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Stats returns document and change counters.
func (m *MemoryDocumentStore) Stats() MemoryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MemoryStats{
		Documents: len(m.docs),
		Writes:    m.writes,
		Deletes:   m.deletes,
	}
}

// Get returns a copy of the record stored under key.
func (m *MemoryDocumentStore) Get(key string) (*Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, false
	}
	return doc.record.clone(), true
}

// Expiration returns the expiration metadata stored with key.
func (m *MemoryDocumentStore) Expiration(key string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok || doc.expireAt.IsZero() {
		return time.Time{}, false
	}
	return doc.expireAt, true
}

type memoryDriver struct {
	store *MemoryDocumentStore
}

func (d memoryDriver) get(ctx context.Context, key string) (*storedDocument, error) {
	m := d.store
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	return &storedDocument{
		record:   doc.record.clone(),
		etag:     doc.etag,
		expireAt: doc.expireAt,
	}, nil
}

func (d memoryDriver) put(ctx context.Context, key string, doc *storedDocument, ifMatch string) error {
	m := d.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if ifMatch != "" {
		cur, ok := m.docs[key]
		if !ok || cur.etag != ifMatch {
			return ErrConcurrencyConflict
		}
	}

	m.docs[key] = storedDocument{
		record:   doc.record.clone(),
		etag:     doc.etag,
		expireAt: doc.expireAt,
	}
	m.writes++
	return nil
}

func (d memoryDriver) remove(ctx context.Context, key string, ifMatch string) error {
	m := d.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	cur, ok := m.docs[key]
	if ifMatch != "" && (!ok || cur.etag != ifMatch) {
		return ErrConcurrencyConflict
	}
	if ok {
		delete(m.docs, key)
		m.deletes++
	}
	return nil
}

func (memoryDriver) close(context.Context) error {
	return nil
}
