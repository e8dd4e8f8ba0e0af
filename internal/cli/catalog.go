package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/io"
)

// catalogCommand creates the catalog command for inspecting furniture data.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect furniture catalogs",
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogExportCommand())

	return cmd
}

// catalogListCommand creates the "catalog list" subcommand.
func (c *CLI) catalogListCommand() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items with dimensions and prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			for _, it := range items {
				printKeyValue(it.ID, fmt.Sprintf("%s · %s · %.0fx%.0fx%.0f cm · clearance %.0f cm · %s",
					it.Name, it.Category, it.WidthCm, it.DepthCm, it.HeightCm,
					it.Clearance.Uniform(), formatCents(it.Price)))
			}
			printNewline()
			printDetail("%d item(s)", len(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "furniture catalog JSON (default: builtin demo catalog)")
	return cmd
}

// catalogExportCommand creates the "catalog export" subcommand, which dumps
// the builtin catalog as a starting point for custom ones.
func (c *CLI) catalogExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the builtin catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := io.ExportJSON(catalog.Builtin(), output); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			printSuccess("Exported builtin catalog")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "catalog.json", "output file")
	return cmd
}

// loadCatalog reads the catalog at path, falling back to the builtin one.
func loadCatalog(path string) ([]catalog.Item, error) {
	if path == "" {
		return catalog.Builtin(), nil
	}
	items, err := catalog.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return items, nil
}
