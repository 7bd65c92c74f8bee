// Package app wires the sessiond process: Redis and Postgres clients, the
// engine, the gin router and the HTTP server.
package app
