package config

import "time"

// Config holds runtime settings for the odscli client.
//
// Fields:
//   - ServerURL: base URL of the registry REST API.
//   - RequestTimeout: upper bound for a single HTTP call.
//   - StateDir: directory under $HOME where the bearer token is kept.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	StateDir       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000"
	c.RequestTimeout = 10 * time.Second
	c.StateDir = ".odsregistry"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
