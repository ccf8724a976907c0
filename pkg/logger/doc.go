// Package logger builds *slog.Logger instances with functional options,
// context-driven attribute injection and a set of attribute helpers that keep
// key names consistent across the module.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler according to the
// configured Format and wraps it in LogHandlerDecorator, which runs the
// registered ContextExtractor callbacks before delegating each record.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionstate/pkg/logger"
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "session-state"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//
//	log.DebugContext(ctx, "lock acquired",
//	    logger.SessionID(id),
//	    logger.LockID(lockID),
//	)
//
// Components that accept an optional logger default to Discard.
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("done", logger.Error(err))
//
// needs no nil check.
package logger
