// Package config loads the sessiond server configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/joeshaw/envdecode"
)

// Config is the process configuration. Defaults come from struct tags.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR,default=:8000"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	SecretKey string `env:"SECRET_KEY"`

	RedisHost        string        `env:"REDIS_HOST,default=localhost"`
	RedisPort        int           `env:"REDIS_PORT,default=6379"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB,default=0"`
	RedisDialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT,default=5s"`
	RedisOpTimeout   time.Duration `env:"REDIS_OP_TIMEOUT,default=2s"`

	SessionTTL              time.Duration `env:"SESSION_TTL,default=1h"`
	SessionRefreshThreshold time.Duration `env:"SESSION_REFRESH_THRESHOLD,default=15m"`
	SessionPrefix           string        `env:"SESSION_PREFIX,default=session"`

	// DatabaseURL selects the Postgres identity store. Empty keeps
	// accounts in memory.
	DatabaseURL string `env:"DATABASE_URL"`

	LoginThrottle    bool          `env:"LOGIN_THROTTLE,default=false"`
	IPThrottle       bool          `env:"LOGIN_THROTTLE_IP,default=false"`
	MaxLoginAttempts int           `env:"LOGIN_MAX_ATTEMPTS,default=5"`
	LoginCooldown    time.Duration `env:"LOGIN_COOLDOWN,default=15m"`

	AuditLog bool `env:"AUDIT_LOG,default=true"`

	// Bootstrap admin, created on startup when BOOTSTRAP_ADMIN_PASSWORD is
	// set and the subject does not exist yet.
	AdminSubject  string `env:"BOOTSTRAP_ADMIN_ID,default=admin"`
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminName     string `env:"BOOTSTRAP_ADMIN_NAME,default=Super Admin"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Load decodes the environment. Unset variables take their defaults and
// malformed values are rejected rather than left zero.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks process-level settings. Engine settings are checked
// again by the engine builder.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("REDIS_PORT %d out of range", c.RedisPort)
	}
	if c.RedisOpTimeout <= 0 {
		return errors.New("REDIS_OP_TIMEOUT must be > 0")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RedisAddr is host:port of the session registry.
func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

// SlogLevel is the parsed LOG_LEVEL.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

// Engine maps the environment onto the library configuration.
func (c Config) Engine() sessionauth.Config {
	cfg := sessionauth.DefaultConfig()
	cfg.JWT.PrivateKey = []byte(c.SecretKey)

	cfg.Session.Prefix = c.SessionPrefix
	cfg.Session.TTL = c.SessionTTL
	cfg.Session.RefreshThreshold = c.SessionRefreshThreshold
	cfg.Session.StoreTimeout = c.RedisOpTimeout

	cfg.Security.EnableLoginThrottle = c.LoginThrottle
	cfg.Security.EnableIPThrottle = c.LoginThrottle && c.IPThrottle
	cfg.Security.MaxLoginAttempts = c.MaxLoginAttempts
	cfg.Security.LoginCooldownDuration = c.LoginCooldown

	cfg.Audit.Enabled = c.AuditLog
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", s)
	}
}
