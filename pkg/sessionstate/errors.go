package sessionstate

import "errors"

// Error categories. Every error returned by Store matches exactly one of them
// with errors.Is.
var (
	// ErrConfiguration indicates a missing setting or an operation invoked in a
	// session mode that does not permit it.
	ErrConfiguration = errors.New("sessionstate.configuration")

	// ErrInvalidArgument indicates a nil or invalid required argument.
	ErrInvalidArgument = errors.New("sessionstate.invalid_argument")

	// ErrStorage wraps failures of the backing document store.
	ErrStorage = errors.New("sessionstate.storage")
)

// Configuration errors.
var (
	ErrModeNotReadOnly             = errors.New("sessionstate.session_mode_must_be_read_only")
	ErrModeNotReadWrite            = errors.New("sessionstate.session_mode_must_be_read_write")
	ErrModeReadOnly                = errors.New("sessionstate.session_mode_must_not_be_read_only")
	ErrNoHostSettings              = errors.New("sessionstate.host_settings_unavailable")
	ErrMissingConnectionString     = errors.New("sessionstate.connection_string_required")
	ErrUnsupportedConnectionString = errors.New("sessionstate.connection_string_unsupported")
	ErrInvalidMode                 = errors.New("sessionstate.invalid_session_mode")
	ErrInvalidCookieMode           = errors.New("sessionstate.invalid_cookie_mode")
)

// Argument errors.
var (
	ErrNilData          = errors.New("sessionstate.nil_data")
	ErrNilDocumentStore = errors.New("sessionstate.nil_document_store")
)

// Document store errors.
var (
	// ErrConcurrencyConflict is returned by DocumentSession.SaveChanges when an
	// optimistic write finds the document changed since it was loaded.
	ErrConcurrencyConflict = errors.New("sessionstate.concurrency_conflict")

	// ErrSessionClosed is returned when a DocumentSession is used after Close.
	ErrSessionClosed = errors.New("sessionstate.document_session_closed")

	// ErrStoreClosed is returned when opening a session on a closed DocumentStore.
	ErrStoreClosed = errors.New("sessionstate.document_store_closed")
)
