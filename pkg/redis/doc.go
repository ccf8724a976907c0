// Package redis provides helpers for connecting to a Redis server used as a
// session state document store.
//
// Connect retries the connection according to Config and verifies it with a
// PING; Healthcheck turns a client into a readiness probe. Config fields are
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  time.Second,
//	    ConnectTimeout: 10 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	health := redis.Healthcheck(client)
//
// # Error Handling
//
// Errors are joined with ErrFailedToParseRedisConnString, ErrRedisNotReady,
// ErrEmptyConnectionURL or ErrHealthcheckFailed; match them with errors.Is.
package redis
