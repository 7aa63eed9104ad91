package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/odsregistry/internal/flagx"
	"github.com/dmitrijs2005/odsregistry/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// accept "30s"-style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPPort              string         `json:"http_port"`
	GRPCAddr              string         `json:"grpc_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	DBMaxConns            int            `json:"db_max_conns"`
	DBConnectTimeout      timex.Duration `json:"db_connect_timeout"`
	AuthStrategy          string         `json:"auth_strategy"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	SessionStore          string         `json:"session_store"`
	RedisURL              string         `json:"redis_url"`
	CORSAllowedOrigins    []string       `json:"cors_allowed_origins"`
	RabbitURI             string         `json:"rabbit_uri"`
	RabbitQueue           string         `json:"rabbit_queue"`
	LogLevel              string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// non-empty value into config. An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPPort, c.HTTPPort)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AuthStrategy, c.AuthStrategy)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SessionStore, c.SessionStore)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.RabbitURI, c.RabbitURI)
	setString(&config.RabbitQueue, c.RabbitQueue)
	setString(&config.LogLevel, c.LogLevel)

	if c.DBMaxConns > 0 {
		config.DBMaxConns = c.DBMaxConns
	}
	if c.DBConnectTimeout.Duration > 0 {
		config.DBConnectTimeout = c.DBConnectTimeout.Duration
	}
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
