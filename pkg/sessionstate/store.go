package sessionstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"

	"github.com/dmitrymomot/sessionstate/pkg/clock"
	"github.com/dmitrymomot/sessionstate/pkg/logger"
	mongoclient "github.com/dmitrymomot/sessionstate/pkg/mongo"
	redisclient "github.com/dmitrymomot/sessionstate/pkg/redis"
)

// defaultDatabase is used when neither the config nor the MongoDB URL names one.
const defaultDatabase = "session_state"

// Store is the session state store. It owns every read and write of session
// records and keeps no cached copy between calls. Each lifecycle operation
// runs in its own DocumentSession; concurrent requests for the same session
// are coordinated only through the persisted lock fields.
type Store struct {
	name        string
	app         string
	timeout     time.Duration
	docs        DocumentStore
	clock       clock.Clock
	logger      *slog.Logger
	host        HostSettings
	env         HostingEnvironment
	healthcheck func(context.Context) error
}

// New initializes a Store. Unless WithDocumentStore is given, the backend is
// opened from cfg.ConnectionStrings[cfg.ConnectionStringName]: mongodb:// and
// mongodb+srv:// select MongoDB, redis:// and rediss:// select Redis.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{
		name:    cfg.Name,
		timeout: cfg.Timeout,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if strings.TrimSpace(s.name) == "" {
		s.name = DefaultName
	}
	if s.timeout <= 0 {
		s.timeout = DefaultConfig().Timeout
	}
	if s.clock == nil {
		s.clock = clock.Default()
	}
	static := NewStaticHost(cfg)
	if s.host == nil {
		s.host = static
	}
	if s.env == nil {
		s.env = static
	}
	s.app = resolveApplicationName(cfg.ApplicationName, s.env)
	s.logger = s.logger.With(
		logger.Component("sessionstate"),
		slog.String("store", s.name),
		logger.Application(s.app),
	)

	s.logger.DebugContext(ctx, "initializing session state store",
		slog.String("connection_string_name", cfg.ConnectionStringName),
		slog.Duration("timeout", s.timeout),
	)

	if s.docs == nil {
		if err := s.open(ctx, cfg); err != nil {
			s.logger.ErrorContext(ctx, "failed to initialize session state store", logger.Error(err))
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "session state store initialized")
	return s, nil
}

func (s *Store) open(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.ConnectionStringName) == "" {
		return errors.Join(ErrConfiguration, ErrMissingConnectionString)
	}
	url, ok := cfg.ConnectionStrings[cfg.ConnectionStringName]
	if !ok || strings.TrimSpace(url) == "" {
		return errors.Join(ErrConfiguration, ErrMissingConnectionString,
			fmt.Errorf("no connection string named %q", cfg.ConnectionStringName))
	}

	scheme, _, _ := strings.Cut(url, "://")
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return s.openMongo(ctx, cfg, url)
	case "redis", "rediss":
		return s.openRedis(ctx, cfg, url)
	default:
		return errors.Join(ErrConfiguration, ErrUnsupportedConnectionString,
			fmt.Errorf("scheme %q", scheme))
	}
}

func (s *Store) openMongo(ctx context.Context, cfg Config, url string) error {
	database := cfg.Database
	if database == "" {
		cs, err := connstring.ParseAndValidate(url)
		if err != nil {
			return errors.Join(ErrConfiguration, ErrUnsupportedConnectionString, err)
		}
		database = cs.Database
	}
	if database == "" {
		database = defaultDatabase
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultConfig().Collection
	}

	client, err := mongoclient.NewFromURL(ctx, url)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}

	coll := client.Database(database).Collection(collection)
	if err := mongoclient.EnsureTTLIndex(ctx, coll, MongoExpireAtField); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return errors.Join(ErrStorage, err)
	}

	ds := NewMongoDocumentStore(coll)
	ds.ownsClient = true
	s.docs = ds
	s.healthcheck = mongoclient.Healthcheck(client)
	return nil
}

func (s *Store) openRedis(ctx context.Context, cfg Config, url string) error {
	client, err := redisclient.ConnectURL(ctx, url)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}

	ds := NewRedisDocumentStore(client, cfg.KeyPrefix)
	ds.ownsClient = true
	s.docs = ds
	s.healthcheck = redisclient.Healthcheck(client)
	return nil
}

// Close releases the document store. Errors are logged and dropped.
func (s *Store) Close(ctx context.Context) {
	if s.docs == nil {
		return
	}
	if err := s.docs.Close(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to close document store", logger.Error(err))
	}
}

// Name returns the store name.
func (s *Store) Name() string { return s.name }

// ApplicationName returns the application every record key is namespaced by.
func (s *Store) ApplicationName() string { return s.app }

// Timeout returns the configured session lifetime.
func (s *Store) Timeout() time.Duration { return s.timeout }

// DocumentStore returns the backing document store.
func (s *Store) DocumentStore() DocumentStore { return s.docs }

// NewData returns empty session data with the given timeout.
func (s *Store) NewData(timeout time.Duration) *Data {
	return &Data{Timeout: timeout}
}

// SupportsExpireCallback reports whether the store can notify the host when a
// session expires. It cannot: expired records are dropped silently.
func (s *Store) SupportsExpireCallback() bool { return false }

// Healthcheck returns a readiness probe for the backend. For an injected
// document store it opens and closes a session.
func (s *Store) Healthcheck() func(context.Context) error {
	if s.healthcheck != nil {
		return s.healthcheck
	}
	return func(ctx context.Context) error {
		sess, err := s.docs.OpenSession(ctx, SessionOptions{NoStaleReads: true})
		if err != nil {
			return errors.Join(ErrStorage, err)
		}
		return sess.Close(ctx)
	}
}

// withSession runs fn in a fresh document session with stale reads disabled.
// The session is closed on every path, even if ctx was canceled.
func (s *Store) withSession(ctx context.Context, opts SessionOptions, fn func(DocumentSession) error) error {
	opts.NoStaleReads = true

	sess, err := s.docs.OpenSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(context.WithoutCancel(ctx)); err != nil {
			s.logger.DebugContext(ctx, "failed to close document session", logger.Error(err))
		}
	}()

	return fn(sess)
}

// requireMode checks the host's session mode before any storage call.
func (s *Store) requireMode(ctx context.Context, op string, allowed func(Mode) bool, violation error) error {
	mode, err := s.host.SessionMode()
	if err != nil {
		return errors.Join(ErrConfiguration, ErrNoHostSettings, err)
	}
	if !allowed(mode) {
		s.logger.DebugContext(ctx, "session mode does not permit operation",
			logger.Operation(op),
			slog.String("mode", mode.String()),
		)
		return errors.Join(ErrConfiguration, violation)
	}
	return nil
}

// storageError logs a failed primary operation and wraps err in ErrStorage.
func (s *Store) storageError(ctx context.Context, op string, err error, attrs ...slog.Attr) error {
	args := make([]any, 0, len(attrs)+2)
	args = append(args, logger.Operation(op), logger.Error(err))
	for _, a := range attrs {
		args = append(args, a)
	}
	s.logger.ErrorContext(ctx, "session state operation failed", args...)

	if errors.Is(err, ErrStorage) {
		return err
	}
	return errors.Join(ErrStorage, err)
}

// setExpiry extends rec to now+timeout and mirrors the new expiry into the
// store's expiration metadata.
func setExpiry(sess DocumentSession, rec *Record, now time.Time, timeout time.Duration) {
	rec.Expiry = expiryFrom(now, timeout)
	sess.SetExpiration(rec, rec.Expiry)
}
