package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds each backend round trip when none is configured.
const DefaultOpTimeout = 2 * time.Second

const scanCount = 1000

const extendScript = `
local ttl = redis.call("PTTL", KEYS[1])
if ttl <= 0 then
  return 0
end
redis.call("PEXPIRE", KEYS[1], ttl + tonumber(ARGV[1]))
return 1
`

var extendLua = redis.NewScript(extendScript)

// RedisStore implements [Store] on a go-redis client.
type RedisStore struct {
	redis     redis.UniversalClient
	opTimeout time.Duration
}

// NewRedisStore wraps client. opTimeout <= 0 uses DefaultOpTimeout.
func NewRedisStore(client redis.UniversalClient, opTimeout time.Duration) *RedisStore {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &RedisStore{redis: client, opTimeout: opTimeout}
}

// readCtx bounds a read by the operation timeout.
func (s *RedisStore) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// writeCtx detaches a mutation from caller cancellation so an in-flight
// write completes, while still bounding it by the operation timeout.
func (s *RedisStore) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.opTimeout)
}

// Put stores value under key with SET. A non-positive ttl stores the key
// without expiry.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) Status {
	ctx, cancel := s.writeCtx(ctx)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return Unavailable
	}
	return Found
}

// Get returns the value under key, or Absent when the key does not exist.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, Status) {
	ctx, cancel := s.readCtx(ctx)
	defer cancel()

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, Absent
		}
		return nil, Unavailable
	}
	return data, Found
}

// Replace overwrites an existing key with SET XX KEEPTTL, so the remaining
// lifetime is unchanged. A missing key reports Absent.
func (s *RedisStore) Replace(ctx context.Context, key string, value []byte) Status {
	ctx, cancel := s.writeCtx(ctx)
	defer cancel()

	err := s.redis.SetArgs(ctx, key, value, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Absent
		}
		return Unavailable
	}
	return Found
}

// Delete removes key. Absent means nothing was deleted.
func (s *RedisStore) Delete(ctx context.Context, key string) Status {
	ctx, cancel := s.writeCtx(ctx)
	defer cancel()

	n, err := s.redis.Del(ctx, key).Result()
	if err != nil {
		return Unavailable
	}
	if n == 0 {
		return Absent
	}
	return Found
}

// TTL reports the remaining lifetime from PTTL. Keys without expiry report
// NoExpiry with Found.
func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, Status) {
	ctx, cancel := s.readCtx(ctx)
	defer cancel()

	ttl, err := s.redis.PTTL(ctx, key).Result()
	if err != nil {
		return Missing, Unavailable
	}
	switch ttl {
	case Missing:
		return Missing, Absent
	case NoExpiry:
		return NoExpiry, Found
	}
	return ttl, Found
}

// Extend atomically adds extra to the current expiry of key.
func (s *RedisStore) Extend(ctx context.Context, key string, extra time.Duration) Status {
	if extra <= 0 {
		return Absent
	}
	ctx, cancel := s.writeCtx(ctx)
	defer cancel()

	res, err := extendLua.Run(ctx, s.redis, []string{key}, extra.Milliseconds()).Int64()
	if err != nil {
		return Unavailable
	}
	if res == 0 {
		return Absent
	}
	return Found
}

// Keys scans for every key starting with prefix.
func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, Status) {
	ctx, cancel := s.readCtx(ctx)
	defer cancel()

	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return nil, Unavailable
	}
	return keys, Found
}

// DeleteMatching scans for keys starting with prefix and deletes them in
// batches. On a mid-way failure the count deleted so far is returned with
// Unavailable.
func (s *RedisStore) DeleteMatching(ctx context.Context, prefix string) (int, Status) {
	ctx, cancel := s.writeCtx(ctx)
	defer cancel()

	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return 0, Unavailable
	}
	if len(keys) == 0 {
		return 0, Found
	}

	removed := 0
	for start := 0; start < len(keys); start += scanCount {
		end := start + scanCount
		if end > len(keys) {
			end = len(keys)
		}
		n, err := s.redis.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, Unavailable
		}
		removed += int(n)
	}
	return removed, Found
}

// Ping checks Redis reachability within the operation timeout.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.readCtx(ctx)
	defer cancel()
	return s.redis.Ping(ctx).Err()
}

func (s *RedisStore) scan(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(prefix) + "*"
	keys := make([]string, 0)
	var cursor uint64
	for {
		batch, next, err := s.redis.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return dedupe(keys), nil
}

// SCAN may return a key more than once across iterations.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func escapeGlob(s string) string {
	if !strings.ContainsAny(s, `*?[]\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
