package sessionstate

import "time"

// expired reports whether rec is past its expiry. A record whose expiry equals
// now is still live.
func expired(rec *Record, now time.Time) bool {
	return now.After(rec.Expiry)
}

// lockAge is the time elapsed since the lock was taken. It is not clamped.
func lockAge(rec *Record, now time.Time) time.Duration {
	return now.Sub(rec.LockDate)
}

// acquireLock takes the exclusive lock and advances the fencing token.
func acquireLock(rec *Record, now time.Time) {
	rec.Locked = true
	rec.LockID++
	rec.LockDate = now
}

// holdsLock is the fencing check shared by release, update and remove: the
// record exists and was locked under lockID for this session and application.
func holdsLock(rec *Record, sessionID, applicationName string, lockID int64) bool {
	return rec != nil &&
		rec.LockID == lockID &&
		rec.ApplicationName == applicationName &&
		rec.SessionID == sessionID
}

func expiryFrom(now time.Time, timeout time.Duration) time.Time {
	return now.Add(timeout)
}
