// Package sessionauth provides an authenticated-session engine: signed
// bearer tokens backed by a server-side session registry with sliding
// expiration, lazy refresh on read, multi-device enumeration and forced
// revocation.
//
// A token is necessary but not sufficient. [Engine.Authenticate] accepts a
// token only while its session record is live in the registry, and it
// resolves the principal through the identity store on every call so that
// deactivation and role changes take effect without reissuing tokens.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// sessionauth is the public surface. It exposes [Engine], [Builder],
// [Config], the error taxonomy and value types. Flow orchestration, rate
// limiting, audit dispatch and metric storage live under internal/.
//
// # Failure semantics
//
// Registry outages never surface as faults from the store layer. Reads
// degrade to "no session" and the gate reports ErrSessionExpired joined
// with ErrStoreUnavailable. A login whose record could not be stored still
// returns its token, flagged as degraded.
package sessionauth
