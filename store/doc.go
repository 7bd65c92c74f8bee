// Package store is the session registry abstraction: a TTL-keyed byte map
// shared by every process that authenticates requests.
//
// # Failure semantics
//
// Operations never return transport errors. Each result carries a [Status]
// so callers can tell "no such key" ([Absent]) from "registry unreachable"
// ([Unavailable]) even though both degrade to the same safe default value
// (nil, false, [Missing], empty slice).
//
// # Atomicity
//
// Every mutation is a single round trip against the backend. [RedisStore]
// runs Extend as one Lua script and Replace as SET XX KEEPTTL; [MemoryStore]
// holds one mutex for the duration of each call.
//
// # What this package must NOT do
//
//   - Interpret stored values.
//   - Run background sweeps. Expiry is the backend's responsibility.
package store
