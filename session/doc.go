// Package session is the session lifecycle manager. It pairs the token codec
// with the session registry to implement login, lazy sliding refresh on
// read, logout, per-subject enumeration and revocation, and registry
// statistics.
//
// # Record encoding
//
// Records are stored as versioned JSON under "<prefix>:<token>". Decoding
// rejects unknown schema versions and blobs without a subject.
//
// # Sliding refresh
//
// A read that lands within RefreshThreshold of expiry extends the record
// back to the full TTL window. Two concurrent reads may both extend; the
// result is the same. Reads outside the threshold leave the TTL unchanged.
//
// # What this package must NOT do
//
//   - Verify token signatures or resolve principals.
//   - Surface registry outages as errors. Results carry a [store.Status].
package session
