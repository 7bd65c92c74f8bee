// Package internal holds the private building blocks of sessionauth.
//
// # Sub-packages
//
//   - app: process wiring for cmd/sessiond
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - config: environment configuration for the server binary
//   - flows: login, validate and logout pipelines behind the Engine
//   - httpapi: gin routes for the auth and session endpoints
//   - metrics: lock-free counters and the validate latency histogram
//   - rate: Redis fixed-window failed-login throttle
//
// Nothing here appears in the public sessionauth API.
package internal
