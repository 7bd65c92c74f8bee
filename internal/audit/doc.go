// Package audit implements async event dispatching for security-relevant
// operations.
//
// A [Dispatcher] relays [Event] values to a [Sink] from a single goroutine.
// With DropIfFull set, a full buffer drops the event and counts it, so a
// slow sink never stalls an authentication request. Sinks provided here:
// no-op, buffered channel, JSON lines and slog.
//
// This package does not decide which events to emit. The engine does.
package audit
