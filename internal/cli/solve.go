package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/io"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/progress"
)

// solveCommand creates the solve command for generating furniture layouts.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		output      string
		catalogPath string
		noCache     bool
		refresh     bool
		budget      float64
		strategies  string
		styles      string
		timeBudget  int
		count       int
		seed        uint64
	)

	cmd := &cobra.Command{
		Use:   "solve [room.json]",
		Short: "Generate furniture layouts for a room plan",
		Long: `Generate furniture layouts for a room plan.

The solve command takes a room plan JSON file (produced by the scanning
pipeline) and generates ranked, constraint-checked furniture arrangements.
Furniture comes from a catalog file (--catalog) or the builtin demo catalog.

The output is a solutions JSON file that can be re-checked with 'validate'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				BudgetCents: int64(budget * 100),
				Count:       count,
				Seed:        seed,
			}
			if strategies != "" {
				opts.Strategies = strings.Split(strategies, ",")
			}
			if styles != "" {
				opts.StylePreferences = strings.Split(styles, ",")
			}
			if timeBudget > 0 {
				opts.TimeBudget = time.Duration(timeBudget) * time.Second
			}
			opts.Refresh = refresh
			c.Config.applyTo(&opts)
			return c.runSolve(cmd.Context(), args[0], catalogPath, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layouts.json)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "furniture catalog JSON (default: builtin demo catalog)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().Float64Var(&budget, "budget", 0, "furniture budget in currency units (0 = unlimited)")
	cmd.Flags().StringVar(&strategies, "strategies", "", "comma-separated seeding strategies (default: all)")
	cmd.Flags().StringVar(&styles, "styles", "", "comma-separated style preferences")
	cmd.Flags().IntVar(&timeBudget, "time-budget", 0, "solve time budget in seconds")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of layouts to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible refinement")

	return cmd
}

// runSolve loads the inputs, runs the pipeline, and writes the solutions.
func (c *CLI) runSolve(ctx context.Context, input, catalogPath string, opts pipeline.Options, output string, noCache bool) error {
	plan, err := io.ImportPlan(input)
	if err != nil {
		return fmt.Errorf("load room plan: %w", err)
	}
	opts.Room = plan

	if catalogPath != "" {
		items, err := catalog.ReadFile(catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		opts.Furniture = items
	} else {
		opts.Furniture = catalog.Builtin()
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Progress = progress.NewLog(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Arranging furniture...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return fmt.Errorf("solve layouts: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layouts.json"
	}

	if err := io.ExportSolutions(result.Solutions, outputPath); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Generated %d layout(s)", len(result.Solutions))
	printFile(outputPath)
	printStats(len(opts.Furniture), len(result.Solutions), result.CacheInfo.SolveHit)
	for _, sol := range result.Solutions {
		printDetail("%s · score %.2f · %s", sol.Name, sol.Score, formatCents(sol.Metrics.TotalCostCents))
	}
	for _, ex := range result.Excluded {
		printWarning("Excluded %s: %s", ex.ItemID, ex.Reason)
	}
	printNewline()
	printNextStep("Validate", "roomforge validate "+outputPath+" --room "+input)

	return nil
}

// formatCents renders an integer-cents price for display.
func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
