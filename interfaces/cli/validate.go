package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/selector-go/infrastructure/catalog"
	"github.com/felixgeelhaar/selector-go/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath  string
	catalogPath string
}

func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file or a tool catalog",
		Long: `Validate checks a service configuration file, a tool catalog, or
both, and reports every problem found. Tools with invalid profiles are
listed with the reason they would be skipped at load time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to service configuration file")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to the tool catalog")

	return cmd
}

func (a *App) runValidate(opts *validateOptions) error {
	if opts.configPath == "" && opts.catalogPath == "" {
		return fmt.Errorf("nothing to validate: pass --config, --catalog, or both")
	}

	catalogPath := opts.catalogPath

	if opts.configPath != "" {
		cfg, err := config.NewLoader().LoadFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("config %s: %w", opts.configPath, err)
		}
		fmt.Fprintf(a.stdout, "config %s: valid\n", opts.configPath)
		if catalogPath == "" {
			catalogPath = cfg.Catalog.Path
		}
	}

	if catalogPath != "" {
		cat, err := catalog.NewLoader().LoadFile(catalogPath)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", catalogPath, err)
		}
		fmt.Fprintf(a.stdout, "catalog %s: %d tool(s) valid\n", catalogPath, len(cat.Tools))
		for _, sk := range cat.Skipped {
			fmt.Fprintf(a.stdout, "  skipped %s: %s\n", sk.Name, sk.Reason)
		}
		if len(cat.Skipped) > 0 {
			return fmt.Errorf("%d tool(s) would be skipped", len(cat.Skipped))
		}
	}

	return nil
}
