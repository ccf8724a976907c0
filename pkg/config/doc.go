// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv (reading .env files) and
// github.com/caarlos0/env/v11 (parsing the environment into tagged structs).
// Each configuration type is parsed once and cached for the lifetime of the
// process; ResetCache drops the cache, which is mostly useful in tests.
//
// # Usage
//
//	import (
//		"github.com/dmitrymomot/sessionstate/pkg/config"
//		"github.com/dmitrymomot/sessionstate/pkg/sessionstate"
//	)
//
//	func main() {
//		var cfg sessionstate.Config
//		config.MustLoad(&cfg)
//
//		store, err := sessionstate.New(ctx, cfg)
//		...
//	}
//
// Additional env files can be read explicitly before the first Load:
//
//	if err := config.LoadEnv(".env.local", ".env"); err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Failures are joined with the package sentinels ErrParsingConfig,
// ErrLoadingEnvFile and ErrNilPointer; match them with errors.Is.
package config
