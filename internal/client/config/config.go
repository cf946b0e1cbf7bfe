// Package config holds runtime settings for the PubliMatch CLI and the
// defaults → JSON file → flags loading chain. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - BaseURL: origin of the backend API.
//   - RequestTimeout: per-request timeout on outbound HTTP calls.
//   - DatabasePath: location of the local SQLite database holding the session.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3000"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "publimatch.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file was given) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
