// Package config handles configuration for the client CLI: defaults,
// JSON overlay and command-line flags, applied in that order.
package config

// Config holds runtime settings for the PassVault CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the vault server HTTP API.
//   - KeyDBPath: path of the local SQLite database the derived encryption
//     key is kept in between commands.
type Config struct {
	ServerEndpointAddr string
	KeyDBPath          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.KeyDBPath = "passvault.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
