package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString is returned when the connection URL is malformed.
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	// ErrRedisNotReady is returned when no PING succeeded within the retry budget.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")
	// ErrEmptyConnectionURL is returned by Connect when no URL is configured.
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")
	// ErrHealthcheckFailed wraps the PING error reported by Healthcheck.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
