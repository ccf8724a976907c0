package sessionstate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstate/pkg/logger"
)

// Data is the session payload handed to and from the host. The payload is
// opaque to the store.
type Data struct {
	Payload []byte
	Timeout time.Duration
}

// FetchResult is the outcome of FetchShared and FetchExclusive.
//
// Data is nil when the session is absent, expired or locked by another
// request. When Locked is true, LockAge and LockID describe the holder.
type FetchResult struct {
	Data    *Data
	Locked  bool
	LockAge time.Duration
	LockID  int64
	Actions ActionFlags
}

// CreateUninitializedItem stores an empty record flagged ActionInitializeItem
// that expires after timeout. Hosts call it when issuing a new cookie-less
// session id.
func (s *Store) CreateUninitializedItem(ctx context.Context, sessionID string, timeout time.Duration) error {
	const op = "create_uninitialized_item"
	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID))
	log.DebugContext(ctx, "beginning", slog.Duration("timeout", timeout))

	rec := NewRecord(sessionID, s.app)
	rec.Expiry = expiryFrom(s.clock.Now(), timeout)
	rec.Flags = ActionInitializeItem

	err := s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
		sess.Store(rec)
		sess.SetExpiration(rec, rec.Expiry)
		return sess.SaveChanges(ctx)
	})
	if err != nil {
		return s.storageError(ctx, op, err, logger.SessionID(sessionID))
	}

	log.DebugContext(ctx, "completed", logger.Expiry(rec.Expiry))
	return nil
}

// FetchShared reads a session without locking it. The host must be in
// read-only mode.
//
// A record locked by another request is reported with Locked set and no data.
// An expired record is deleted on a best-effort basis and reported absent.
// In cookie-less mode with expired id regeneration, an ActionInitializeItem
// flag is returned once and cleared in storage.
func (s *Store) FetchShared(ctx context.Context, sessionID string) (*FetchResult, error) {
	const op = "fetch_shared"
	if err := s.requireMode(ctx, op, func(m Mode) bool { return m == ModeReadOnly }, ErrModeNotReadOnly); err != nil {
		return nil, err
	}
	cookieless, err := cookielessActive(s.host)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, ErrNoHostSettings, err)
	}

	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID))
	log.DebugContext(ctx, "beginning")

	res := &FetchResult{}
	err = s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
		rec, err := s.load(ctx, sess, sessionID, res)
		if err != nil || rec == nil {
			return err
		}

		if cookieless && rec.Flags == ActionInitializeItem {
			res.Actions = rec.Flags
			rec.Flags = ActionNone
			if err := sess.SaveChanges(ctx); err != nil {
				return err
			}
			log.DebugContext(ctx, "cleared initialize item flag")
		}
		return nil
	})
	if err != nil {
		return nil, s.storageError(ctx, op, err, logger.SessionID(sessionID))
	}

	log.DebugContext(ctx, "completed",
		slog.Bool("locked", res.Locked),
		logger.LockAge(res.LockAge),
		logger.LockID(res.LockID),
		slog.String("actions", res.Actions.String()),
	)
	return res, nil
}

// FetchExclusive reads a session and locks it for the calling request. The
// host must be in read-write mode.
//
// On success the record is locked with a fresh lock id (reported in LockID)
// and, in a second write, its expiry is extended by the configured timeout.
// Locked is true only when another request already holds the lock.
func (s *Store) FetchExclusive(ctx context.Context, sessionID string) (*FetchResult, error) {
	const op = "fetch_exclusive"
	if err := s.requireMode(ctx, op, func(m Mode) bool { return m == ModeReadWrite }, ErrModeNotReadWrite); err != nil {
		return nil, err
	}

	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID))
	log.DebugContext(ctx, "beginning")

	res := &FetchResult{}
	acquired := false
	err := s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
		rec, err := s.load(ctx, sess, sessionID, res)
		if err != nil || rec == nil {
			return err
		}

		acquireLock(rec, s.clock.Now())
		if err := sess.SaveChanges(ctx); err != nil {
			return err
		}
		res.LockID = rec.LockID
		acquired = true
		return nil
	})
	if err == nil && acquired {
		err = s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
			rec, err := sess.Load(ctx, RecordKey(s.app, sessionID))
			if err != nil || rec == nil {
				return err
			}
			setExpiry(sess, rec, s.clock.Now(), s.timeout)
			return sess.SaveChanges(ctx)
		})
	}
	if err != nil {
		return nil, s.storageError(ctx, op, err, logger.SessionID(sessionID))
	}

	log.DebugContext(ctx, "completed",
		slog.Bool("locked", res.Locked),
		logger.LockAge(res.LockAge),
		logger.LockID(res.LockID),
	)
	return res, nil
}

// load runs the read steps shared by both fetches. It returns the record only
// when it is present, unlocked and live; otherwise res is filled in and nil is
// returned.
func (s *Store) load(ctx context.Context, sess DocumentSession, sessionID string, res *FetchResult) (*Record, error) {
	log := s.logger.With(logger.SessionID(sessionID))

	rec, err := sess.Load(ctx, RecordKey(s.app, sessionID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		log.DebugContext(ctx, "session not found")
		return nil, nil
	}

	now := s.clock.Now()
	if rec.Locked {
		log.DebugContext(ctx, "session is locked", logger.LockID(rec.LockID))
		res.Locked = true
		res.LockAge = lockAge(rec, now)
		res.LockID = rec.LockID
		return nil, nil
	}

	if expired(rec, now) {
		log.DebugContext(ctx, "session has expired", logger.Expiry(rec.Expiry))
		sess.Delete(rec)
		if err := sess.SaveChanges(ctx); err != nil {
			log.DebugContext(ctx, "failed to remove expired session", logger.Error(err))
		}
		return nil, nil
	}

	res.LockID = rec.LockID
	res.Data = &Data{Timeout: s.timeout}
	if rec.Flags != ActionInitializeItem {
		res.Data.Payload = bytes.Clone(rec.Payload)
	}
	return rec, nil
}

// ReleaseExclusive unlocks a session held under lockID and extends its
// expiry. It does nothing if the record is gone or the lock id does not match.
func (s *Store) ReleaseExclusive(ctx context.Context, sessionID string, lockID int64) error {
	const op = "release_exclusive"
	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID), logger.LockID(lockID))
	log.DebugContext(ctx, "beginning")

	err := s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
		rec, err := sess.Load(ctx, RecordKey(s.app, sessionID))
		if err != nil {
			return err
		}
		if !holdsLock(rec, sessionID, s.app, lockID) {
			log.DebugContext(ctx, "session not present or lock id does not match")
			return nil
		}

		rec.Locked = false
		setExpiry(sess, rec, s.clock.Now(), s.timeout)
		return sess.SaveChanges(ctx)
	})
	if err != nil {
		return s.storageError(ctx, op, err, logger.SessionID(sessionID), logger.LockID(lockID))
	}

	log.DebugContext(ctx, "completed")
	return nil
}

// SetAndReleaseExclusive writes data and unlocks the session. With isNew a
// fresh record is stored unconditionally; otherwise the record must still be
// held under lockID or the call does nothing. The host must be in read-write
// mode.
//
// The new expiry is data.Timeout from now, or the configured timeout when
// data.Timeout is not positive.
func (s *Store) SetAndReleaseExclusive(ctx context.Context, sessionID string, data *Data, lockID int64, isNew bool) error {
	const op = "set_and_release_exclusive"
	if err := s.requireMode(ctx, op, func(m Mode) bool { return m == ModeReadWrite }, ErrModeNotReadWrite); err != nil {
		return err
	}
	if data == nil {
		return errors.Join(ErrInvalidArgument, ErrNilData)
	}

	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID), logger.LockID(lockID))
	log.DebugContext(ctx, "beginning", slog.Bool("new", isNew))

	timeout := data.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}

	err := s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
		var rec *Record
		if isNew {
			rec = NewRecord(sessionID, s.app)
			sess.Store(rec)
		} else {
			var err error
			if rec, err = sess.Load(ctx, RecordKey(s.app, sessionID)); err != nil {
				return err
			}
			if !holdsLock(rec, sessionID, s.app, lockID) {
				log.DebugContext(ctx, "session not present or lock id does not match, data not modified")
				return nil
			}
		}

		rec.Payload = bytes.Clone(data.Payload)
		rec.Locked = false
		setExpiry(sess, rec, s.clock.Now(), timeout)
		return sess.SaveChanges(ctx)
	})
	if err != nil {
		return s.storageError(ctx, op, err, logger.SessionID(sessionID), logger.LockID(lockID))
	}

	log.DebugContext(ctx, "completed")
	return nil
}

// RemoveItem deletes a session held under lockID. It does nothing if the
// record is gone or the lock id does not match.
func (s *Store) RemoveItem(ctx context.Context, sessionID string, lockID int64) error {
	const op = "remove_item"
	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID), logger.LockID(lockID))
	log.DebugContext(ctx, "beginning")

	err := s.withSession(ctx, SessionOptions{}, func(sess DocumentSession) error {
		rec, err := sess.Load(ctx, RecordKey(s.app, sessionID))
		if err != nil {
			return err
		}
		if !holdsLock(rec, sessionID, s.app, lockID) {
			log.DebugContext(ctx, "session not present or lock id does not match")
			return nil
		}

		sess.Delete(rec)
		return sess.SaveChanges(ctx)
	})
	if err != nil {
		return s.storageError(ctx, op, err, logger.SessionID(sessionID), logger.LockID(lockID))
	}

	log.DebugContext(ctx, "completed")
	return nil
}

// TouchItem extends a session's expiry by the configured timeout without
// touching its data. The write is optimistic: if someone else modified the
// record since it was read, the touch is dropped. The host must not be in
// read-only mode.
func (s *Store) TouchItem(ctx context.Context, sessionID string) error {
	const op = "touch_item"
	if err := s.requireMode(ctx, op, func(m Mode) bool { return m != ModeReadOnly }, ErrModeReadOnly); err != nil {
		return err
	}

	log := s.logger.With(logger.Operation(op), logger.SessionID(sessionID))
	log.DebugContext(ctx, "beginning")

	err := s.withSession(ctx, SessionOptions{OptimisticConcurrency: true}, func(sess DocumentSession) error {
		rec, err := sess.Load(ctx, RecordKey(s.app, sessionID))
		if err != nil || rec == nil {
			return err
		}
		setExpiry(sess, rec, s.clock.Now(), s.timeout)
		return sess.SaveChanges(ctx)
	})
	if errors.Is(err, ErrConcurrencyConflict) {
		log.DebugContext(ctx, "session modified concurrently, touch dropped")
		return nil
	}
	if err != nil {
		return s.storageError(ctx, op, err, logger.SessionID(sessionID))
	}

	log.DebugContext(ctx, "completed")
	return nil
}

// ResetItemTimeout is TouchItem.
func (s *Store) ResetItemTimeout(ctx context.Context, sessionID string) error {
	return s.TouchItem(ctx, sessionID)
}
