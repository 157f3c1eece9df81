// Package config provides configuration loading for the selector
// service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/selector-go/domain/selection"
)

// Config is the top level service configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" json:"catalog"`
	Selection SelectionConfig `yaml:"selection,omitempty" json:"selection,omitempty"`
	Policy    PolicyConfig    `yaml:"policy,omitempty" json:"policy,omitempty"`
	Oracle    OracleConfig    `yaml:"oracle,omitempty" json:"oracle,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty" json:"logging,omitempty"`
}

// CatalogConfig locates the tool catalog.
type CatalogConfig struct {
	// Path to the catalog file (YAML or JSON).
	Path string `yaml:"path" json:"path"`
	// Watch reloads the catalog when the file changes.
	Watch bool `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// SelectionConfig tunes the scoring pipeline.
type SelectionConfig struct {
	// Epsilon is the score gap below which the top two candidates are
	// considered tied. Zero means the built-in default.
	Epsilon float64 `yaml:"epsilon,omitempty" json:"epsilon,omitempty"`
	// DefaultMode is the preference mode used when neither the request
	// nor the query indicates one. Empty means balanced.
	DefaultMode string `yaml:"default_mode,omitempty" json:"default_mode,omitempty"`
}

// PolicyConfig is the caller-side policy environment.
type PolicyConfig struct {
	// MaxCost is the global per-selection cost ceiling. Nil means
	// unbounded.
	MaxCost *float64 `yaml:"max_cost,omitempty" json:"max_cost,omitempty"`
	// Environment names the deployment environment.
	Environment string `yaml:"environment,omitempty" json:"environment,omitempty"`
	// RequireProductionSafe demands production-safe patterns regardless
	// of the environment name.
	RequireProductionSafe bool `yaml:"require_production_safe,omitempty" json:"require_production_safe,omitempty"`
	// Permissions the service holds on behalf of its callers.
	Permissions []string `yaml:"permissions,omitempty" json:"permissions,omitempty"`
}

// OracleConfig configures the tie-break provider. An empty provider
// disables tie-breaking.
type OracleConfig struct {
	Provider      string `yaml:"provider,omitempty" json:"provider,omitempty"` // anthropic, openai, or ollama
	Model         string `yaml:"model,omitempty" json:"model,omitempty"`
	APIKey        string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	TimeoutMs     int    `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	MaxConcurrent int    `yaml:"max_concurrent,omitempty" json:"max_concurrent,omitempty"`
}

// Timeout returns the configured timeout as a duration.
func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// Enabled reports whether a provider is configured.
func (o OracleConfig) Enabled() bool {
	return o.Provider != ""
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// DefaultConfig returns a configuration with built-in defaults. The
// catalog path still has to be set.
func DefaultConfig() *Config {
	return &Config{
		Selection: SelectionConfig{
			Epsilon:     selection.DefaultEpsilon,
			DefaultMode: string(selection.ModeBalanced),
		},
		Oracle: OracleConfig{
			TimeoutMs:     3000,
			MaxConcurrent: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyDefaults fills zero values with the built-in defaults.
func (c *Config) applyDefaults() {
	if c.Selection.Epsilon == 0 {
		c.Selection.Epsilon = selection.DefaultEpsilon
	}
	if c.Selection.DefaultMode == "" {
		c.Selection.DefaultMode = string(selection.ModeBalanced)
	}
	if c.Oracle.TimeoutMs == 0 {
		c.Oracle.TimeoutMs = 3000
	}
	if c.Oracle.MaxConcurrent == 0 {
		c.Oracle.MaxConcurrent = 4
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var problems []string

	if c.Catalog.Path == "" {
		problems = append(problems, "catalog.path is required")
	}
	if c.Selection.Epsilon < 0 || c.Selection.Epsilon > 1 {
		problems = append(problems, fmt.Sprintf("selection.epsilon %g outside [0,1]", c.Selection.Epsilon))
	}
	if _, err := selection.ParseMode(c.Selection.DefaultMode); err != nil {
		problems = append(problems, fmt.Sprintf("selection.default_mode: %v", err))
	}
	switch c.Oracle.Provider {
	case "", "anthropic", "openai", "ollama":
	default:
		problems = append(problems, fmt.Sprintf("oracle.provider %q is not supported", c.Oracle.Provider))
	}
	// Ollama is local and unauthenticated; the hosted providers need a key.
	if (c.Oracle.Provider == "anthropic" || c.Oracle.Provider == "openai") && c.Oracle.APIKey == "" {
		problems = append(problems, "oracle.api_key is required when a provider is set")
	}
	if c.Oracle.TimeoutMs < 0 {
		problems = append(problems, "oracle.timeout_ms must be non-negative")
	}
	if c.Policy.MaxCost != nil && *c.Policy.MaxCost < 0 {
		problems = append(problems, "policy.max_cost must be non-negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(problems, "; "))
	}
	return nil
}
