// Package config handles configuration for the registry server: defaults,
// an optional JSON file, environment variables (optionally seeded from a
// .env file) and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AuthStrategyJWT     = "jwt"
	AuthStrategySession = "session"

	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"
)

// Config holds runtime settings for the registry server.
//
// Database settings come either as a full DSN (DatabaseDSN) or as the
// DB_* parts, which DSN assembles into a PostgreSQL URL. SecretKey signs
// bearer tokens under the jwt strategy and session cookies under the
// session strategy.
type Config struct {
	HTTPPort string `env:"PORT"`
	GRPCAddr string `env:"GRPC_ADDR"`
	GinMode  string `env:"GIN_MODE"`
	LogLevel string `env:"LOG_LEVEL"`

	DatabaseDSN      string        `env:"DATABASE_DSN"`
	DBHost           string        `env:"DB_HOST"`
	DBPort           string        `env:"DB_PORT"`
	DBUser           string        `env:"DB_USER"`
	DBPassword       string        `env:"DB_PASSWORD"`
	DBName           string        `env:"DB_NAME"`
	DBSSLMode        string        `env:"DB_SSLMODE"`
	DBMaxConns       int           `env:"DB_MAX_CONNS"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT"`

	AuthStrategy          string        `env:"AUTH_STRATEGY"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_TTL"`
	SessionStore          string        `env:"SESSION_STORE"`
	RedisURL              string        `env:"REDIS_URL"`
	CookieSecure          bool          `env:"COOKIE_SECURE"`
	RegisterRequiresAuth  bool          `env:"REGISTER_REQUIRES_AUTH"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	RabbitURI   string `env:"RABBIT_URI"`
	RabbitQueue string `env:"RABBIT_QUEUE"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPPort = "3000"
	c.GRPCAddr = ":50051"
	c.GinMode = "debug"
	c.LogLevel = "info"

	c.DBHost = "localhost"
	c.DBPort = "5432"
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBName = "odsregistry"
	c.DBSSLMode = "disable"
	c.DBMaxConns = 10
	c.DBConnectTimeout = 30 * time.Second

	c.AuthStrategy = AuthStrategyJWT
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.SessionStore = SessionStoreRedis
	c.RedisURL = "redis://127.0.0.1:6379/0"

	c.CORSAllowedOrigins = []string{"http://localhost:5173"}

	c.RabbitQueue = "companies_log"
}

// DSN returns DatabaseDSN when set, otherwise a postgres:// URL built from
// the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DBSSLMode}}.Encode()
	}
	return u.String()
}

// HTTPAddr is the listen address for the REST API.
func (c *Config) HTTPAddr() string {
	return ":" + c.HTTPPort
}

// Validate rejects combinations the server cannot run with.
func (c *Config) Validate() error {
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown GIN_MODE %q (want debug, release or test)", c.GinMode)
	}

	switch c.AuthStrategy {
	case AuthStrategyJWT:
		if c.SecretKey == "" {
			return fmt.Errorf("JWT_SECRET is required for the %q strategy", AuthStrategyJWT)
		}
	case AuthStrategySession:
		if c.SecretKey == "" {
			return fmt.Errorf("JWT_SECRET is required to sign %q cookies", AuthStrategySession)
		}
		switch c.SessionStore {
		case SessionStoreCookie:
		case SessionStoreRedis:
			if c.RedisURL == "" {
				return fmt.Errorf("REDIS_URL is required for the %q session store", SessionStoreRedis)
			}
		default:
			return fmt.Errorf("unknown session store %q", c.SessionStore)
		}
	default:
		return fmt.Errorf("unknown auth strategy %q", c.AuthStrategy)
	}

	if c.TokenValidityDuration <= 0 {
		return fmt.Errorf("token validity must be positive, got %s", c.TokenValidityDuration)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
