package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int           `mapstructure:"port"                 validate:"required,gt=0,lt=65536"`
	LogLevel           string        `mapstructure:"log_level"            validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"         validate:"gt=0"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"        validate:"gt=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"     validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetime accepts Go durations ("720h") and whole days ("30d").
	TokenLifetime string `mapstructure:"token_lifetime" validate:"required"`
	BCryptCost    int    `mapstructure:"bcrypt_cost"    validate:"gte=4,lte=31"`
}

// TokenTTL parses TokenLifetime.
func (a AuthConfig) TokenTTL() (time.Duration, error) {
	return ParseLifetime(a.TokenLifetime)
}

// RedisConfig configures the optional view cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"        validate:"gte=0"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// maxLifetimeDays keeps n*24h within time.Duration.
const maxLifetimeDays = int(math.MaxInt64 / int64(24*time.Hour))

// ParseLifetime parses a Go duration or a whole number of days written as
// "<n>d". The result must be positive.
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q: %w", s, err)
		}
		if n > maxLifetimeDays {
			return 0, fmt.Errorf("invalid lifetime %q: at most %d days", s, maxLifetimeDays)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q: %w", s, err)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid lifetime %q: must be positive", s)
	}
	return d, nil
}
