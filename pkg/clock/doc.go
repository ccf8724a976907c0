// Package clock provides an injectable time source.
//
// Components that compute expiry or lock age take a Clock instead of calling
// time.Now directly, which lets tests pin or advance time deterministically.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionstate/pkg/clock"
//
//	fixed := clock.NewFixed(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
//	store, _ := sessionstate.New(ctx, cfg, sessionstate.WithClock(fixed))
//
//	fixed.Advance(10 * time.Minute)
//
// # Process-wide clock
//
// Default, SetDefault and ResetDefault expose a single swappable clock for
// code that cannot receive one explicitly. Swapping it affects every component
// constructed afterwards until ResetDefault is called. It exists for tests;
// production code should pass a Clock explicitly.
package clock
