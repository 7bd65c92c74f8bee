// Package metrics provides lock-free counters and a latency histogram for
// the sessionauth engine.
//
// Counters live in cache-line-padded uint64 slots and are incremented with
// [sync/atomic.AddUint64]. The validate latency histogram uses 8 fixed
// buckets (<=5ms through +Inf). Export to Prometheus and OTel lives in
// metrics/export and reads [Snapshot] values.
package metrics
