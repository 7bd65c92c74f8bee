package store

import (
	"context"
	"time"
)

// Status is the outcome of a store operation.
type Status uint8

const (
	// Absent means the key does not exist or, for Extend, has no TTL.
	Absent Status = iota
	// Found means the key existed (reads) or the mutation was applied.
	Found
	// Unavailable means the backend could not be reached in time.
	Unavailable
)

// String returns a short label for logs and metrics.
func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Found:
		return "found"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// TTL sentinels, matching Redis PTTL replies.
const (
	NoExpiry time.Duration = -1
	Missing  time.Duration = -2
)

// Store is a TTL-keyed map. Implementations must be safe for concurrent use
// and must absorb backend faults into [Unavailable].
type Store interface {
	// Put upserts value and resets its TTL to exactly ttl. ttl <= 0 stores
	// without expiry. Returns Found on success.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) Status
	// Get returns the value, or nil with Absent once the TTL has elapsed.
	Get(ctx context.Context, key string) ([]byte, Status)
	// Replace overwrites an existing value without touching its TTL. It
	// never creates a key.
	Replace(ctx context.Context, key string, value []byte) Status
	// Delete reports Found iff a record existed.
	Delete(ctx context.Context, key string) Status
	// TTL returns the remaining lifetime, NoExpiry, or Missing.
	TTL(ctx context.Context, key string) (time.Duration, Status)
	// Extend adds extra to the current remaining TTL. Keys without a TTL
	// and absent keys report Absent and are left untouched.
	Extend(ctx context.Context, key string, extra time.Duration) Status
	// Keys enumerates every key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, Status)
	// DeleteMatching removes every key starting with prefix and returns
	// how many were removed.
	DeleteMatching(ctx context.Context, prefix string) (int, Status)
	// Ping checks backend reachability.
	Ping(ctx context.Context) error
}
