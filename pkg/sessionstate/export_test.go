package sessionstate

import "time"

// Seed places rec under key regardless of its own identity fields.
func (m *MemoryDocumentStore) Seed(key string, rec *Record, expireAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = storedDocument{record: rec.clone(), etag: "seed", expireAt: expireAt}
}
