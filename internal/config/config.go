package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/homescreen/homescreen/internal/logger"
)

// DefaultFile is read from the working directory when no --config flag is given.
const DefaultFile = "Config.toml"

// EnvPrefix prefixes every environment override, e.g. HOMESCREEN_PORT.
const EnvPrefix = "HOMESCREEN"

var (
	ErrConfigNotFound = errors.New("cannot find config file")
	ErrConfigInvalid  = errors.New("cannot parse config file, please check format")
)

type Config struct {
	Port        uint16 `mapstructure:"port"`         // required, ex: 8888
	DatabaseURL string `mapstructure:"database_url"` // required, ex: sqlite://homescreen.db
	ListenHost  string `mapstructure:"listen_host"`  // ex: "127.0.0.1"

	LogLevel  string `mapstructure:"log_level"`  // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `mapstructure:"pretty_log"` // true => zap dev (color), false => zap prod (JSON)

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // ex: 5s
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`  // per-request deadline
	ReadyTimeout    time.Duration `mapstructure:"ready_timeout"`    // bound on the /readyz store ping

	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS origins, "*" allows any
	AllowedCIDRS   []string `mapstructure:"allowed_cidrs"`   // optional, restrict every endpoint to these networks
	AllowedHosts   []string `mapstructure:"allowed_hosts"`   // optional Host header allowlist, "*.example.com" wildcards
	TrustProxy     bool     `mapstructure:"trust_proxy"`     // true => trust X-Forwarded-For headers

	BookmarkFile   string        `mapstructure:"bookmark_file"`   // optional bookmarks.yaml to import
	ImportInterval time.Duration `mapstructure:"import_interval"` // 0 => import once at startup

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SQL       SQLConfig       `mapstructure:"sql"`
}

// RateLimitConfig applies to write endpoints only. Burst 0 disables it.
type RateLimitConfig struct {
	Burst        int `mapstructure:"burst"`
	RefillPerMin int `mapstructure:"refill_per_min"`
}

// RedisConfig tunes the connector used for redis:// database URLs.
type RedisConfig struct {
	PoolSize       int           `mapstructure:"pool_size"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"` // total time to retry connecting
	RetryInterval  time.Duration `mapstructure:"retry_interval"`  // initial wait, grows exponentially
	MaxWait        time.Duration `mapstructure:"max_wait"`        // cap between retries
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`
	WarnThreshold  int           `mapstructure:"warn_threshold"` // warn after this many attempts
}

// SQLConfig tunes the database/sql pool used for sqlite:// and mysql:// URLs.
type SQLConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

var defaults = map[string]any{
	"listen_host":               "127.0.0.1",
	"log_level":                 "info",
	"pretty_log":                false,
	"shutdown_timeout":          5 * time.Second,
	"request_timeout":           10 * time.Second,
	"ready_timeout":             2 * time.Second,
	"allowed_origins":           []string{"*"},
	"allowed_cidrs":             []string{},
	"allowed_hosts":             []string{},
	"trust_proxy":               false,
	"bookmark_file":             "",
	"import_interval":           time.Duration(0),
	"rate_limit.burst":          0,
	"rate_limit.refill_per_min": 60,
	"redis.pool_size":           10,
	"redis.connect_timeout":     30 * time.Second,
	"redis.retry_interval":      2 * time.Second,
	"redis.max_wait":            10 * time.Second,
	"redis.ping_timeout":        5 * time.Second,
	"redis.warn_threshold":      3,
	"sql.max_open_conns":        10,
	"sql.conn_max_lifetime":     5 * time.Minute,
}

// Load reads the config file at path (TOML or YAML, by extension) and applies
// HOMESCREEN_* environment overrides. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Required keys have no default, so AutomaticEnv would not see them.
	for _, key := range []string{"port", "database_url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w %s: %v", ErrConfigNotFound, path, err)
			}
			return nil, fmt.Errorf("%w (%s): %v", ErrConfigInvalid, path, err)
		}
	}

	port, err := portValue(v.Get("port"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	cfg.Port = port
	cfg.AllowedOrigins = splitAndTrim(cfg.AllowedOrigins)
	cfg.AllowedCIDRS = splitAndTrim(cfg.AllowedCIDRS)
	cfg.AllowedHosts = splitAndTrim(cfg.AllowedHosts)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address handed to http.Server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(int(c.Port)))
}

// Redacted returns a copy safe to log: the database URL password is masked.
func (c *Config) Redacted() Config {
	out := *c
	out.DatabaseURL = RedactURL(c.DatabaseURL)
	return out
}

// RedactURL masks the password of a URL-shaped connection string.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***REDACTED***"
	}
	return u.Redacted()
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: database_url is required", ErrConfigInvalid)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: unknown log_level %q", ErrConfigInvalid, c.LogLevel)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be > 0", ErrConfigInvalid)
	}
	if c.ImportInterval < 0 {
		return fmt.Errorf("%w: import_interval must be >= 0", ErrConfigInvalid)
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("%w: ready_timeout must be > 0", ErrConfigInvalid)
	}
	if c.RateLimit.Burst < 0 || c.RateLimit.RefillPerMin < 0 {
		return fmt.Errorf("%w: rate_limit values must be >= 0", ErrConfigInvalid)
	}
	return nil
}

// portValue checks the raw value fits a TCP port before it is narrowed to uint16.
func portValue(raw any) (uint16, error) {
	if raw == nil {
		return 0, fmt.Errorf("%w: port is required", ErrConfigInvalid)
	}
	var n int64
	switch p := raw.(type) {
	case int:
		n = int64(p)
	case int64:
		n = p
	case float64:
		if p != math.Trunc(p) {
			return 0, fmt.Errorf("%w: port %v is not a whole number", ErrConfigInvalid, p)
		}
		n = int64(p)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid port %q", ErrConfigInvalid, p)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: invalid port %v", ErrConfigInvalid, raw)
	}
	if n <= 0 || n > 65535 {
		return 0, fmt.Errorf("%w: port %d out of range", ErrConfigInvalid, n)
	}
	return uint16(n), nil
}

// splitAndTrim flattens comma separated entries (as they come from env
// variables) and drops empty parts.
func splitAndTrim(values []string) []string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(part)
			// Remove surrounding quotes if present
			trimmed = strings.Trim(trimmed, `"'`)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}
	return parts
}
