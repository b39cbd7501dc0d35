package config

import (
	"encoding/json"
	"os"

	"github.com/dsmirnov/passvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Parsed
// values are copied into the runtime Config.
type JsonConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
	KeyDBPath          string `json:"key_db_path"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag. Absent file path means no JSON overlay; read or
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.KeyDBPath != "" {
		cfg.KeyDBPath = jc.KeyDBPath
	}
}
