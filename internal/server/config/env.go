package config

import "os"

// parseEnv overlays values from the environment. SECRET_KEY is the one
// setting that normally arrives this way; the rest mirror the flags for
// container deployments.
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		config.Environment = v
	}
}
