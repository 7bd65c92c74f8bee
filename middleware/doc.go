// Package middleware puts sessionauth validation in front of HTTP handlers.
//
// # Guards
//
//   - [Guard] requires a bearer token backed by a live session.
//   - [RequireRole] additionally requires a minimum role.
//   - [GinGuard] and [GinRequireRole] are the gin forms of both.
//
// Rejections are JSON bodies. Unauthenticated and expired sessions answer
// 401 with a WWW-Authenticate challenge and different messages; forbidden
// principals answer 403.
//
// The package does no token or session work itself; every decision comes
// from the Authenticator.
package middleware
