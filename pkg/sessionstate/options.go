package sessionstate

import (
	"log/slog"

	"github.com/dmitrymomot/sessionstate/pkg/clock"
)

// Option configures a Store.
type Option func(*Store)

// WithDocumentStore injects the backing document store. The connection string
// settings are then ignored. The Store closes the injected store on Close.
func WithDocumentStore(ds DocumentStore) Option {
	return func(s *Store) {
		s.docs = ds
	}
}

// WithClock sets the time source of every lifecycle operation.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger. Output is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHostSettings sets the source of session mode and cookie settings.
func WithHostSettings(h HostSettings) Option {
	return func(s *Store) {
		s.host = h
	}
}

// WithHostingEnvironment sets the environment used to default the
// application name.
func WithHostingEnvironment(env HostingEnvironment) Option {
	return func(s *Store) {
		s.env = env
	}
}
