// Package mongo provides MongoDB connection management for the session state
// document store.
//
// New connects with retries and verifies the connection with a ping before
// returning. Configuration is environment-driven through Config's `env` tags;
// DefaultConfig mirrors the tag defaults for callers that only hold a
// connection URL (see NewFromURL).
//
// # Usage
//
//	cfg := mongo.Config{ConnectionURL: "mongodb://localhost:27017"}
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	coll := client.Database("app").Collection("session_state")
//	if err := mongo.EnsureTTLIndex(ctx, coll, "expireAt"); err != nil {
//		return err
//	}
//
//	health := mongo.Healthcheck(client)
//
// # Error Handling
//
// Failures are joined with ErrFailedToConnectToMongo, ErrEmptyConnectionURL,
// ErrHealthcheckFailed or ErrFailedToCreateIndex; match them with errors.Is.
//
// # See Also
//
// Documentation for the official driver: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2.
package mongo
