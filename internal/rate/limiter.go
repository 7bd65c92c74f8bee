package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds failed-login throttle tuning.
type Config struct {
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	KeyPrefix             string
	OpTimeout             time.Duration
}

// Limiter counts failed logins per identifier and, optionally, per client
// IP in fixed Redis windows.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

const incrementScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`

var incrementLua = redis.NewScript(incrementScript)

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "sa"
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 2 * time.Second
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckLogin returns ErrRateLimited when the identifier or IP has used its
// failed-attempt budget for the current window.
func (l *Limiter) CheckLogin(ctx context.Context, identifier, ip string) error {
	ctx, cancel := context.WithTimeout(ctx, l.config.OpTimeout)
	defer cancel()

	if err := l.checkCounter(ctx, l.loginUserKey(identifier)); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, l.loginIPKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// IncrementLogin records a failed login attempt. It returns ErrRateLimited
// once the attempt exceeds the budget.
func (l *Limiter) IncrementLogin(ctx context.Context, identifier, ip string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.config.OpTimeout)
	defer cancel()

	count, err := l.incrementWithTTL(ctx, l.loginUserKey(identifier), l.config.LoginCooldownDuration)
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	if l.config.EnableIPThrottle && ip != "" {
		count, err = l.incrementWithTTL(ctx, l.loginIPKey(ip), l.config.LoginCooldownDuration)
		if err != nil {
			return err
		}
		if count > int64(l.config.MaxLoginAttempts) {
			return ErrRateLimited
		}
	}

	return nil
}

// ResetLogin clears the identifier counter after a successful login. The IP
// counter is left alone so one good account cannot unlock spraying.
func (l *Limiter) ResetLogin(ctx context.Context, identifier, ip string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.config.OpTimeout)
	defer cancel()

	if err := l.redis.Del(ctx, l.loginUserKey(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxLoginAttempts) {
		return ErrRateLimited
	}

	return nil
}

// Fixed-window semantics: the TTL is set only by the first hit.
func (l *Limiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := incrementLua.Run(ctx, l.redis, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return count, nil
}

func (l *Limiter) loginUserKey(identifier string) string {
	return l.config.KeyPrefix + ":login:" + identifier
}

func (l *Limiter) loginIPKey(ip string) string {
	return l.config.KeyPrefix + ":login-ip:" + ip
}
