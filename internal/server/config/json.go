package config

import (
	"encoding/json"
	"os"

	"github.com/dsmirnov/passvault/internal/flagx"
	"github.com/dsmirnov/passvault/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON config files. It uses
// timex.Duration so intervals can be written as "1h" as well as integer
// nanoseconds. Only non-zero values are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr            string         `json:"endpoint_addr"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	Environment             string         `json:"environment"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags. No flag, no file, no overlay. An unreadable or invalid
// file is a startup failure and panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionValidityDuration.Duration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.Environment != "" {
		config.Environment = c.Environment
	}
}
