package config

import (
	"os"
	"strconv"
)

// Environment variable overrides. Each one, when set, wins over the
// value loaded from the file.
const (
	EnvCatalogPath    = "SELECTOR_CATALOG_PATH"
	EnvEpsilon        = "SELECTOR_EPSILON"
	EnvDefaultMode    = "SELECTOR_DEFAULT_MODE"
	EnvEnvironment    = "SELECTOR_ENVIRONMENT"
	EnvOracleProvider = "SELECTOR_ORACLE_PROVIDER"
	EnvOracleModel    = "SELECTOR_ORACLE_MODEL"
	EnvOracleAPIKey   = "SELECTOR_ORACLE_API_KEY"
	EnvOracleBaseURL  = "SELECTOR_ORACLE_BASE_URL"
	EnvLogLevel       = "SELECTOR_LOG_LEVEL"
	EnvLogFormat      = "SELECTOR_LOG_FORMAT"
)

// applyEnvOverrides overlays SELECTOR_* environment variables onto the
// loaded configuration. Invalid numeric values are ignored rather than
// failing the load; validation catches out-of-range results.
func (c *Config) applyEnvOverrides() {
	setString(EnvCatalogPath, &c.Catalog.Path)
	setString(EnvDefaultMode, &c.Selection.DefaultMode)
	setString(EnvEnvironment, &c.Policy.Environment)
	setString(EnvOracleProvider, &c.Oracle.Provider)
	setString(EnvOracleModel, &c.Oracle.Model)
	setString(EnvOracleAPIKey, &c.Oracle.APIKey)
	setString(EnvOracleBaseURL, &c.Oracle.BaseURL)
	setString(EnvLogLevel, &c.Logging.Level)
	setString(EnvLogFormat, &c.Logging.Format)

	if raw, ok := os.LookupEnv(EnvEpsilon); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Selection.Epsilon = v
		}
	}
}

func setString(key string, target *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}
