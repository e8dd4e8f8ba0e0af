package io

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/roomforge/pkg/layout"
)

const planJSON = `{
  "bounds": {"min_x": 0, "min_y": 0, "max_x": 5, "max_y": 4},
  "walls": [
    {"id": "w1", "start_x": 0, "start_y": 0, "end_x": 5, "end_y": 0},
    {"id": "w2", "start_x": 5, "start_y": 0, "end_x": 5, "end_y": 4},
    {"id": "w3", "start_x": 5, "start_y": 4, "end_x": 0, "end_y": 4},
    {"id": "w4", "start_x": 0, "start_y": 4, "end_x": 0, "end_y": 0}
  ],
  "doors": [{"id": "d1", "x": 2.5, "y": 0, "width_m": 0.9}]
}`

func TestReadPlan(t *testing.T) {
	plan, err := ReadPlan(strings.NewReader(planJSON))
	if err != nil {
		t.Fatalf("ReadPlan() error = %v", err)
	}
	if len(plan.Walls) != 4 || len(plan.Doors) != 1 {
		t.Errorf("got %d walls, %d doors, want 4 and 1", len(plan.Walls), len(plan.Doors))
	}
}

func TestReadPlanRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"empty plan", `{}`},
		{"malformed", `{not json`},
		{"zero-area bounds", `{"bounds": {"min_x": 0, "min_y": 0, "max_x": 0, "max_y": 4}}`},
	}
	for _, tt := range tests {
		if _, err := ReadPlan(strings.NewReader(tt.json)); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestSolutionRoundTrip(t *testing.T) {
	solutions := []layout.Solution{{
		ID:       "s1",
		Name:     "Cozy Conversation",
		Strategy: "conversation_focused",
		Placements: []layout.Placement{{
			FurnitureID: "sofa", Category: "seating",
			XCm: 100, YCm: 300, RotationDeg: 180,
			WidthCm: 228, DepthCm: 95, HeightCm: 83, ClearanceCm: 80,
			PriceCents: 79900,
		}},
		Score:      0.8,
		Violations: []layout.Violation{},
	}}

	path := filepath.Join(t.TempDir(), "solutions.json")
	if err := ExportSolutions(solutions, path); err != nil {
		t.Fatalf("ExportSolutions() error = %v", err)
	}

	placements, err := ImportPlacements(path + "x")
	if err == nil {
		t.Error("ImportPlacements() on missing file should fail")
	}

	// The export wraps solutions; pull the first one back out by writing
	// it alone and re-reading its placements.
	solPath := filepath.Join(t.TempDir(), "solution.json")
	if err := ExportJSON(solutions[0], solPath); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	placements, err = ImportPlacements(solPath)
	if err != nil {
		t.Fatalf("ImportPlacements() error = %v", err)
	}
	if len(placements) != 1 {
		t.Fatalf("got %d placements, want 1", len(placements))
	}
	p := placements[0]
	if p.FurnitureID != "sofa" || p.XCm != 100 || p.RotationDeg != 180 || p.PriceCents != 79900 {
		t.Errorf("round trip lost fields: %+v", p)
	}
}
