// Package sessionstate is a session state store provider backed by a document
// database. It gives a host framework create, read, lock, update and delete
// operations over per-user session data, with expiration and mutual exclusion
// between concurrent requests for the same session.
//
// Payloads are opaque byte slices; serializing session items is the host's job.
//
// # Records
//
// Each session is one Record stored under RecordKey(applicationName,
// sessionID). Exclusive access is coordinated only through the persisted
// Locked, LockID and LockDate fields: there is no in-process mutex. LockID is
// a fencing token that grows by one on every lock acquisition, and release,
// update and remove calls are ignored unless they present the current one.
//
// A record is dead once the clock passes its Expiry. Fetches delete dead
// records on the spot on a best-effort basis. The backend's own expiration
// (a MongoDB TTL index, a Redis key expiry) removes the rest.
//
// # Document stores
//
// The store talks to the database through DocumentStore, a unit-of-work API:
// every operation opens a DocumentSession, loads records, changes them in
// memory and persists them with SaveChanges. Three implementations ship with
// the package:
//
//   - MemoryDocumentStore for tests and local development
//   - MongoDocumentStore, one document per session in a collection
//   - RedisDocumentStore, one JSON value per session
//
// # Usage
//
//	var cfg sessionstate.Config
//	config.MustLoad(&cfg)
//
//	store, err := sessionstate.New(ctx, cfg,
//		sessionstate.WithLogger(log),
//		sessionstate.WithHostSettings(host),
//	)
//	if err != nil {
//		return err
//	}
//	defer store.Close(ctx)
//
//	res, err := store.FetchExclusive(ctx, sessionID)
//	if err != nil {
//		return err
//	}
//	if res.Locked {
//		// another request holds the session; retry after res.LockAge
//	}
//	// ... modify res.Data.Payload ...
//	err = store.SetAndReleaseExclusive(ctx, sessionID, res.Data, res.LockID, false)
//
// # Configuration
//
// Config is read from the environment (SESSION_STATE_* variables), see
// Config for the full list. SESSION_STATE_CONNECTION_STRINGS holds named URLs
// separated by semicolons and SESSION_STATE_CONNECTION_STRING_NAME picks one:
//
//	SESSION_STATE_CONNECTION_STRINGS="main=mongodb://localhost:27017/app"
//	SESSION_STATE_CONNECTION_STRING_NAME=main
//
// # Errors
//
// Every returned error matches one category with errors.Is: ErrConfiguration
// (missing settings, wrong session mode), ErrInvalidArgument or ErrStorage.
// Lock id mismatches are not errors. Concurrent modification during
// TouchItem is ignored.
package sessionstate
