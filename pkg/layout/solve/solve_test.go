package solve

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout/model"
	"github.com/matzehuels/roomforge/pkg/layout/seed"
)

func buildModel(t *testing.T, widthM, heightM float64, items []catalog.Item) *model.Model {
	t.Helper()
	room, err := geometry.NewRoom(geometry.RectangularPlan(widthM, heightM))
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	m, err := model.Build(room, items, model.Weights{}, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func smallCatalog() []catalog.Item {
	return []catalog.Item{
		{ID: "sofa", Name: "Sofa", WidthCm: 200, DepthCm: 90, HeightCm: 80, Category: "seating", Price: 79900, Priority: 1},
		{ID: "table", Name: "Table", WidthCm: 120, DepthCm: 60, HeightCm: 45, Category: "table", Price: 24999, Priority: 2,
			Clearance: catalog.Clearance{AllCm: 40}},
		{ID: "shelf", Name: "Shelf", WidthCm: 80, DepthCm: 30, HeightCm: 180, Category: "storage", Price: 29999, Priority: 3},
	}
}

func TestGridSearchSolvesFromEmptySeed(t *testing.T) {
	m := buildModel(t, 5, 4, smallCatalog())
	g := NewGridSearch()

	res, err := g.Solve(context.Background(), m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Partial {
		t.Error("unbounded solve should not be partial")
	}
	if len(res.Assignment.Placements) != len(m.Vars) {
		t.Fatalf("placed %d of %d items", len(res.Assignment.Placements), len(m.Vars))
	}
	if v := m.FirstViolation(res.Assignment); v != nil {
		t.Fatalf("solution violates %s: %s", v.Kind, v.Hint)
	}
	if res.Score <= 0 || res.Score > 1 {
		t.Errorf("Score = %v outside (0,1]", res.Score)
	}
}

func TestGridSearchKeepsSeed(t *testing.T) {
	m := buildModel(t, 5, 4, smallCatalog())
	s := seed.Generate(m, seed.StrategyConversation)
	g := NewGridSearch()

	res, err := g.Solve(context.Background(), m, s.Assignment)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, p := range s.Assignment.Placements {
		if !res.Assignment.Has(p.FurnitureID) {
			t.Errorf("seeded item %s dropped from solution", p.FurnitureID)
		}
	}
	if len(res.Assignment.Placements) < len(s.Assignment.Placements) {
		t.Error("solver must not shrink the seed")
	}
	if v := m.FirstViolation(res.Assignment); v != nil {
		t.Fatalf("solution violates %s: %s", v.Kind, v.Hint)
	}
}

func TestGridSearchDeadlineYieldsPartial(t *testing.T) {
	m := buildModel(t, 5, 4, catalog.Builtin())
	g := NewGridSearch()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	res, err := g.Solve(ctx, m, nil)
	if err != nil {
		t.Fatalf("deadline expiry must not error, got %v", err)
	}
	if !res.Partial {
		t.Error("expired deadline should mark the result partial")
	}
	if res.Assignment == nil {
		t.Fatal("partial result still carries an assignment")
	}
}

func TestGridSearchCancellation(t *testing.T) {
	m := buildModel(t, 5, 4, smallCatalog())
	g := NewGridSearch()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Solve(ctx, m, nil)
	if errors.GetCode(err) != errors.ErrCodeSolveCancelled {
		t.Fatalf("expected SOLVE_CANCELLED, got %v", err)
	}
}

func TestGridSearchOversizedCatalogYieldsEmpty(t *testing.T) {
	m := buildModel(t, 2, 2, []catalog.Item{
		{ID: "wardrobe", Name: "Wardrobe", WidthCm: 250, DepthCm: 250, HeightCm: 200, Category: "storage", Price: 1},
	})
	if len(m.Vars) != 0 {
		t.Fatalf("oversized item should be excluded, vars: %d", len(m.Vars))
	}

	res, err := NewGridSearch().Solve(context.Background(), m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.Assignment.Placements) != 0 {
		t.Fatalf("expected empty assignment, got %d placements", len(res.Assignment.Placements))
	}
}

func TestBetterTieBreaks(t *testing.T) {
	m := buildModel(t, 5, 4, smallCatalog())

	one := &model.Assignment{}
	one.Add(m.NewPlacement(smallCatalog()[0], 0, 0, 0, ""))
	two := one.Clone()
	two.Add(m.NewPlacement(smallCatalog()[2], 300, 300, 0, ""))

	a := Result{Assignment: one, Score: 0.5}
	b := Result{Assignment: two, Score: 0.5}
	if Better(m, a, b) {
		t.Error("equal score: the result with more items must win")
	}
	if !Better(m, Result{Assignment: one, Score: 0.6}, b) {
		t.Error("higher score must win regardless of item count")
	}
}
