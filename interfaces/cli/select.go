package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/selector-go/application"
	"github.com/felixgeelhaar/selector-go/domain/policy"
	"github.com/felixgeelhaar/selector-go/domain/selection"
	"github.com/felixgeelhaar/selector-go/infrastructure/catalog"
	"github.com/felixgeelhaar/selector-go/infrastructure/config"
	"github.com/felixgeelhaar/selector-go/infrastructure/logging"
	"github.com/felixgeelhaar/selector-go/infrastructure/oracle"
)

// selectOptions holds options for the select command.
type selectOptions struct {
	configPath   string
	catalogPath  string
	capabilities []string
	mode         string
	vars         []string
	jsonOutput   bool
}

func (a *App) newSelectCmd() *cobra.Command {
	opts := &selectOptions{}

	cmd := &cobra.Command{
		Use:   "select [query]",
		Short: "Select the best tool pattern for a query",
		Long: `Select runs the full pipeline for one request: it enumerates the
patterns offering the requested capabilities, enforces policy, scores
the survivors against the detected preference mode, and prints the
winner with its justification and execution hints.

Examples:
  # Select against a catalog file
  selector select "find the asset quickly" --catalog catalog.yaml --capability asset_query

  # With explicit runtime variables and mode
  selector select "scan everything" -c selector.yaml --capability asset_query --var N=5000 --mode thorough`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSelect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to service configuration file")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to the tool catalog (overrides config)")
	cmd.Flags().StringSliceVar(&opts.capabilities, "capability", nil, "Capability to fulfill (repeatable)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Preference mode (fast, accurate, thorough, cheap, simple, balanced)")
	cmd.Flags().StringSliceVar(&opts.vars, "var", nil, "Runtime variable as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

func (a *App) runSelect(cmd *cobra.Command, query string, opts *selectOptions) error {
	cfg, err := loadConfig(opts.configPath, opts.catalogPath)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	store := catalog.NewStore(catalog.NewLoader(), cfg.Catalog.Path)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, sk := range store.Skipped() {
		fmt.Fprintf(a.stderr, "warning: tool %s skipped: %s\n", sk.Name, sk.Reason)
	}

	rc, err := parseVars(opts.vars)
	if err != nil {
		return err
	}

	selector, err := application.NewSelector(application.Config{
		Profiles: store,
		Policy: policy.Config{
			MaxCost:               cfg.Policy.MaxCost,
			Environment:           cfg.Policy.Environment,
			RequireProductionSafe: cfg.Policy.RequireProductionSafe,
			AvailablePermissions:  cfg.Policy.Permissions,
		},
		TieBreaker:  buildTieBreaker(cfg.Oracle),
		Epsilon:     cfg.Selection.Epsilon,
		DefaultMode: selection.Mode(cfg.Selection.DefaultMode),
	})
	if err != nil {
		return err
	}

	result, err := selector.Select(cmd.Context(), application.Request{
		Query:        query,
		Capabilities: opts.capabilities,
		Context:      rc,
		Mode:         opts.mode,
	})
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	a.printResult(result)
	return nil
}

func (a *App) printResult(result *selection.Result) {
	fmt.Fprintf(a.stdout, "Winner: %s\n", result.Winner)
	fmt.Fprintf(a.stdout, "  Score: %.4f (%s, %s mode)\n", result.Score, result.Method, result.PreferenceMode)
	fmt.Fprintf(a.stdout, "  Justification: %s\n", result.Justification)
	fmt.Fprintf(a.stdout, "  Estimated: %.0f ms, $%.4f\n", result.EstimatedTimeMs, result.EstimatedCost)
	fmt.Fprintf(a.stdout, "  Execution: %s (%s SLA)\n", result.ExecutionMode, result.SLAClass)
	if len(result.Alternatives) > 0 {
		fmt.Fprintf(a.stdout, "  Alternatives: %s\n", strings.Join(result.Alternatives, ", "))
	}
	if result.IsAmbiguous {
		fmt.Fprintf(a.stdout, "  Ambiguous (gap %.4f): %s\n", result.ScoreGap, result.ClarifyingQuestion)
	}
	if result.ViolationCount > 0 {
		fmt.Fprintf(a.stdout, "  Removed by policy: %d of %d candidates\n", result.ViolationCount, result.CandidateCount)
	}
}

// loadConfig resolves the effective configuration from the config file,
// the catalog override flag, or both.
func loadConfig(configPath, catalogPath string) (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.NewLoader().LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if cfg.Catalog.Path == "" {
		return nil, fmt.Errorf("a catalog is required (--catalog flag or catalog.path in config)")
	}
	return cfg, nil
}

func buildTieBreaker(cfg config.OracleConfig) *oracle.TieBreaker {
	var provider oracle.Provider
	switch cfg.Provider {
	case "anthropic":
		provider = oracle.NewAnthropicProvider(oracle.AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "openai":
		provider = oracle.NewOpenAIProvider(oracle.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "ollama":
		provider = oracle.NewOllamaProvider(oracle.OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil
	}
	return oracle.NewTieBreaker(oracle.Config{
		Provider:      provider,
		Model:         cfg.Model,
		Timeout:       cfg.Timeout(),
		MaxConcurrent: cfg.MaxConcurrent,
	})
}

func parseVars(pairs []string) (selection.RuntimeContext, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	rc := selection.RuntimeContext{}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, want name=value", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --var %q: %v", pair, err)
		}
		rc[name] = value
	}
	return rc, nil
}
