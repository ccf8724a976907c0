package sessionstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := &Record{Expiry: now}

	assert.False(t, expired(rec, now.Add(-time.Second)))
	assert.False(t, expired(rec, now), "expiry instant is still live")
	assert.True(t, expired(rec, now.Add(time.Nanosecond)))
}

func TestLockAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 90*time.Second, lockAge(&Record{LockDate: now.Add(-90 * time.Second)}, now))
	assert.Equal(t, -time.Second, lockAge(&Record{LockDate: now.Add(time.Second)}, now), "not clamped")
}

func TestAcquireLock(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := &Record{LockID: 41}

	acquireLock(rec, now)
	assert.True(t, rec.Locked)
	assert.Equal(t, int64(42), rec.LockID)
	assert.Equal(t, now, rec.LockDate)

	acquireLock(rec, now.Add(time.Minute))
	assert.Equal(t, int64(43), rec.LockID)
}

func TestHoldsLock(t *testing.T) {
	t.Parallel()

	rec := &Record{SessionID: "sid", ApplicationName: "app", LockID: 3}

	assert.True(t, holdsLock(rec, "sid", "app", 3))
	assert.False(t, holdsLock(nil, "sid", "app", 3))
	assert.False(t, holdsLock(rec, "sid", "app", 2))
	assert.False(t, holdsLock(rec, "sid", "other", 3))
	assert.False(t, holdsLock(rec, "SID", "app", 3))
}

func TestRecord_CloneAndEqual(t *testing.T) {
	t.Parallel()

	rec := &Record{SessionID: "sid", ApplicationName: "app", Payload: []byte("cart"), LockID: 1}
	c := rec.clone()
	assert.True(t, rec.equal(c))

	c.Payload[0] = 'X'
	assert.Equal(t, []byte("cart"), rec.Payload)
	assert.False(t, rec.equal(c))

	var nilRec *Record
	assert.Nil(t, nilRec.clone())
}
