package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/io"
)

// validateCommand creates the validate command for re-checking layouts.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		roomPath string
		output   string
		noCache  bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "validate [layout.json]",
		Short: "Validate a furniture layout against its room plan",
		Long: `Validate a furniture layout against its room plan.

The validate command re-checks every placement constraint independently of
the solver: bounds, clearances, door swings, window access, viewing
distances, and ergonomics. It reports all violations plus quality metrics
(walkability, accessibility, space utilization) and improvement
recommendations.

The input accepts a placement array, a single exported solution, or any
JSON document with a "placements" field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], roomPath, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVar(&roomPath, "room", "", "room plan JSON file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the full report JSON to a file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached report exists")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

// runValidate loads the layout and room, runs validation, and prints the
// report.
func (c *CLI) runValidate(ctx context.Context, input, roomPath, output string, noCache, refresh bool) error {
	placements, err := io.ImportPlacements(input)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	plan, err := io.ImportPlan(roomPath)
	if err != nil {
		return fmt.Errorf("load room plan: %w", err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newTracker(c.Logger)
	result, err := runner.Validate(ctx, plan, placements, refresh)
	if err != nil {
		return fmt.Errorf("validate layout: %w", err)
	}
	prog.done(fmt.Sprintf("Checked %d placement(s)", len(placements)))

	report := result.Report
	if report.Valid {
		printSuccess("Layout is valid")
	} else {
		printError("Layout has %d violation(s)", len(report.Violations))
		for _, v := range report.Violations {
			printDetail("%s: %s", v.Kind, v.Hint)
		}
	}

	printNewline()
	printKeyValue("overall", fmt.Sprintf("%.2f", report.OverallScore))
	printKeyValue("flow", fmt.Sprintf("%.2f", report.FlowScore))
	printKeyValue("walkable", fmt.Sprintf("%.0f%%", report.WalkableRatio*100))
	printKeyValue("utilization", fmt.Sprintf("%.0f%%", report.SpaceUtilization*100))
	printKeyValue("access", fmt.Sprintf("%.0f%%", report.Accessibility*100))

	if len(report.Recommendations) > 0 {
		printNewline()
		for _, rec := range report.Recommendations {
			printInfo("%s", rec)
		}
	}

	if output != "" {
		if err := io.ExportJSON(report, output); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printNewline()
		printFile(output)
	}

	return nil
}
