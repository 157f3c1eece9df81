package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/selector-go/infrastructure/catalog"
)

// listToolsOptions holds options for the list-tools command.
type listToolsOptions struct {
	configPath  string
	catalogPath string
	verbose     bool
}

func (a *App) newListToolsCmd() *cobra.Command {
	opts := &listToolsOptions{}

	cmd := &cobra.Command{
		Use:   "list-tools",
		Short: "List the tools, capabilities, and patterns in a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runListTools(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to service configuration file")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to the tool catalog (overrides config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show pattern details")

	return cmd
}

func (a *App) runListTools(opts *listToolsOptions) error {
	cfg, err := loadConfig(opts.configPath, opts.catalogPath)
	if err != nil {
		return err
	}

	cat, err := catalog.NewLoader().LoadFile(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	toolNames := make([]string, 0, len(cat.Tools))
	for name := range cat.Tools {
		toolNames = append(toolNames, name)
	}
	sort.Strings(toolNames)

	for _, toolName := range toolNames {
		tool := cat.Tools[toolName]
		fmt.Fprintf(a.stdout, "%s: %s\n", toolName, tool.Description)

		capNames := make([]string, 0, len(tool.Capabilities))
		for name := range tool.Capabilities {
			capNames = append(capNames, name)
		}
		sort.Strings(capNames)

		for _, capName := range capNames {
			cap := tool.Capabilities[capName]
			fmt.Fprintf(a.stdout, "  %s (%d pattern(s))\n", capName, len(cap.Patterns))
			for _, p := range cap.Patterns {
				if opts.verbose {
					fmt.Fprintf(a.stdout, "    %s: %s [accuracy=%s completeness=%s complexity=%.1f]\n",
						p.Name, p.Description, p.AccuracyLevel, p.Completeness, p.Complexity)
				} else {
					fmt.Fprintf(a.stdout, "    %s\n", p.Name)
				}
			}
		}
	}

	for _, sk := range cat.Skipped {
		fmt.Fprintf(a.stderr, "warning: tool %s skipped: %s\n", sk.Name, sk.Reason)
	}

	return nil
}
