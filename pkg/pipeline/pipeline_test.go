package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/model"
	"github.com/matzehuels/roomforge/pkg/layout/rank"
	"github.com/matzehuels/roomforge/pkg/progress"
)

// testPlan is a 5x4m rectangular living room with one south door.
func testPlan() geometry.Plan {
	plan := geometry.RectangularPlan(5, 4)
	plan.Doors = []geometry.PlanDoor{{ID: "door_1", X: 2.5, Y: 0, WidthM: 0.9}}
	return plan
}

func testFurniture(t *testing.T, ids ...string) []catalog.Item {
	t.Helper()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var items []catalog.Item
	for _, it := range catalog.Builtin() {
		if want[it.ID] {
			items = append(items, it)
			delete(want, it.ID)
		}
	}
	for id := range want {
		t.Fatalf("item %q not in builtin catalog", id)
	}
	return items
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Room: testPlan()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Count != DefaultCount {
		t.Errorf("Count = %d, want %d", opts.Count, DefaultCount)
	}
	if opts.TimeBudget != DefaultTimeBudget {
		t.Errorf("TimeBudget = %v, want %v", opts.TimeBudget, DefaultTimeBudget)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if len(opts.Strategies) == 0 {
		t.Error("Strategies not defaulted")
	}
	if opts.DiversityThreshold != rank.DefaultDiversityThreshold {
		t.Errorf("DiversityThreshold = %v, want %v",
			opts.DiversityThreshold, rank.DefaultDiversityThreshold)
	}
	if opts.Logger == nil || opts.Progress == nil {
		t.Error("runtime fields not defaulted")
	}

	// Idempotent: user-set values survive a second call.
	opts.Count = 5
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if opts.Count != 5 {
		t.Errorf("Count reset to %d on second call", opts.Count)
	}
}

func TestOptionsValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative budget", Options{Room: testPlan(), BudgetCents: -1}},
		{"count over max", Options{Room: testPlan(), Count: MaxCount + 1}},
		{"negative count", Options{Room: testPlan(), Count: -1}},
		{"bad weight", Options{Room: testPlan(), Weights: badWeights()}},
		{"bad furniture", Options{Room: testPlan(),
			Furniture: []catalog.Item{{ID: "x", WidthCm: -1, DepthCm: 1, HeightCm: 1}}}},
	}
	for _, tt := range tests {
		if err := tt.opts.ValidateAndSetDefaults(); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestExecuteBasicRoom(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{
		Room:      testPlan(),
		Furniture: testFurniture(t, "sofa_3seat", "coffee_table", "armchair"),
	}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Solutions) == 0 {
		t.Fatal("Execute() returned no solutions")
	}
	if len(result.Solutions) > DefaultCount {
		t.Errorf("got %d solutions, want at most %d", len(result.Solutions), DefaultCount)
	}
	if result.InputHash == "" {
		t.Error("InputHash not set")
	}
	if result.CacheInfo.SolveHit {
		t.Error("first run reported a cache hit")
	}

	seen := make(map[string]bool)
	for _, sol := range result.Solutions {
		if sol.ID == "" || seen[sol.ID] {
			t.Errorf("solution id %q empty or duplicated", sol.ID)
		}
		seen[sol.ID] = true
		if sol.Name == "" || sol.Strategy == "" {
			t.Errorf("solution %s missing name or strategy", sol.ID)
		}
		if len(sol.Placements) == 0 {
			t.Errorf("solution %s has no placements", sol.ID)
		}
		if len(sol.Violations) != 0 {
			t.Errorf("solution %s has %d violations, want 0", sol.ID, len(sol.Violations))
		}
		if sol.Score <= 0 || sol.Score > 1 {
			t.Errorf("solution %s score = %v, want in (0, 1]", sol.ID, sol.Score)
		}
		if sol.Rationale == "" {
			t.Errorf("solution %s missing rationale", sol.ID)
		}
		var cost int64
		for _, p := range sol.Placements {
			cost += p.PriceCents
		}
		if sol.Metrics.TotalCostCents != cost {
			t.Errorf("solution %s cost = %d, placements sum to %d",
				sol.ID, sol.Metrics.TotalCostCents, cost)
		}
	}

	// Best first.
	for i := 1; i < len(result.Solutions); i++ {
		if result.Solutions[i].Score > result.Solutions[0].Score {
			t.Errorf("solution %d outscores solution 0", i)
		}
	}
}

func TestExecuteEmptyFurniture(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{Room: testPlan()})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Solutions) != 0 {
		t.Errorf("got %d solutions from empty catalog, want 0", len(result.Solutions))
	}
}

func TestExecuteRejectsBadGeometry(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	plan := geometry.Plan{} // zero-area bounds
	_, err := runner.Execute(context.Background(), Options{Room: plan})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Fatalf("Execute() error = %v, want INVALID_GEOMETRY", err)
	}
}

func TestExecuteCachesResults(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{
		Room:      testPlan(),
		Furniture: testFurniture(t, "sofa_3seat", "coffee_table"),
	}
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.SolveHit {
		t.Error("first run reported a cache hit")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.SolveHit {
		t.Error("second run missed the cache")
	}
	if len(second.Solutions) != len(first.Solutions) {
		t.Errorf("cached run returned %d solutions, first returned %d",
			len(second.Solutions), len(first.Solutions))
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.SolveHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecuteCancellation(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{
		Room:      testPlan(),
		Furniture: testFurniture(t, "sofa_3seat", "coffee_table", "armchair"),
	}
	_, err := runner.Execute(ctx, opts)
	if !errors.Is(err, errors.ErrCodeSolveCancelled) {
		t.Fatalf("Execute() error = %v, want SOLVE_CANCELLED", err)
	}
}

func TestExecuteWithBudget(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{
		Room:        testPlan(),
		Furniture:   testFurniture(t, "sofa_3seat", "coffee_table", "armchair"),
		BudgetCents: 200000,
	}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Solutions) == 0 {
		t.Fatal("Execute() returned no solutions")
	}
	for _, sol := range result.Solutions {
		if sol.Score <= 0 || sol.Score > 1 {
			t.Errorf("budgeted score = %v, want in (0, 1]", sol.Score)
		}
	}
}

// recordingPublisher captures published stage fractions; solve stages are
// published from worker goroutines, so it locks.
type recordingPublisher struct {
	mu        sync.Mutex
	fractions []float64
}

func (r *recordingPublisher) Publish(_ context.Context, fraction float64, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fractions = append(r.fractions, fraction)
}

func TestExecutePublishesStages(t *testing.T) {
	rec := &recordingPublisher{}
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{
		Room:      testPlan(),
		Furniture: testFurniture(t, "sofa_3seat", "coffee_table"),
		Progress:  rec,
	}
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []float64{
		progress.StageValidated,
		progress.StageModeled,
		progress.StageSeeded,
		progress.StageSolved,
		progress.StageRefined,
		progress.StageDone,
	}
	for _, stage := range want {
		found := false
		for _, f := range rec.fractions {
			if f == stage {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("stage %.1f never published (got %v)", stage, rec.fractions)
		}
	}
	for i := 1; i < len(rec.fractions); i++ {
		if rec.fractions[i] < rec.fractions[i-1] {
			t.Errorf("progress went backwards: %v", rec.fractions)
		}
	}
}

func TestExecuteTinyRoom(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{
		Room:      geometry.RectangularPlan(1.5, 1.5),
		Furniture: testFurniture(t, "sofa_3seat", "coffee_table", "armchair"),
	}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// Nothing may fit; whatever does come back must still be clean.
	for _, sol := range result.Solutions {
		if len(sol.Violations) != 0 {
			t.Errorf("tiny-room solution %s has violations: %+v", sol.ID, sol.Violations)
		}
	}
}

func TestExecuteManyItems(t *testing.T) {
	items := make([]catalog.Item, 20)
	for i := range items {
		items[i] = catalog.Item{
			ID:       fmt.Sprintf("unit_%02d", i),
			Name:     fmt.Sprintf("Unit %02d", i),
			Category: "storage",
			WidthCm:  50 + float64(i%4)*10,
			DepthCm:  40,
			HeightCm: 60,
			Priority: i,
			Price:    int64(5000 + i*100),
		}
	}

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	start := time.Now()
	result, err := runner.Execute(context.Background(), Options{
		Room:       testPlan(),
		Furniture:  items,
		Weights:    model.Weights{PlacementCoverage: 1},
		Strategies: []string{"conversation_focused"},
		Count:      1,
		TimeBudget: 20 * time.Second,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Second {
		t.Errorf("solve took %v, want under 30s", elapsed)
	}
	if len(result.Solutions) == 0 {
		t.Fatal("Execute() returned no solutions")
	}
	for _, sol := range result.Solutions {
		if len(sol.Placements) > len(items) {
			t.Errorf("placed %d items from a catalog of %d", len(sol.Placements), len(items))
		}
		if len(sol.Violations) != 0 {
			t.Errorf("solution %s has violations: %+v", sol.ID, sol.Violations)
		}
	}
}

func TestExecuteBudgetWeightSpendsLess(t *testing.T) {
	run := func(w model.Weights) int64 {
		runner := NewRunner(nil, nil, nil)
		defer runner.Close()
		result, err := runner.Execute(context.Background(), Options{
			Room:        testPlan(),
			Furniture:   testFurniture(t, "sofa_3seat", "coffee_table", "armchair"),
			Weights:     w,
			BudgetCents: 150000,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(result.Solutions) == 0 {
			t.Fatal("Execute() returned no solutions")
		}
		return result.Solutions[0].Metrics.TotalCostCents
	}

	budget := run(model.Weights{BudgetOptimization: 1})
	coverage := run(model.Weights{PlacementCoverage: 1})
	if budget > coverage {
		t.Errorf("budget-weighted solution costs %d, more than coverage-weighted %d",
			budget, coverage)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	opts := Options{
		Room:      testPlan(),
		Furniture: testFurniture(t, "sofa_3seat", "coffee_table"),
		Seed:      7,
	}

	run := func() *Result {
		runner := NewRunner(nil, nil, nil)
		defer runner.Close()
		result, err := runner.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		return result
	}

	a, b := run(), run()
	if len(a.Solutions) != len(b.Solutions) {
		t.Fatalf("runs disagree on solution count: %d vs %d",
			len(a.Solutions), len(b.Solutions))
	}
	for i := range a.Solutions {
		sa, sb := a.Solutions[i], b.Solutions[i]
		if sa.Strategy != sb.Strategy || sa.Score != sb.Score {
			t.Errorf("solution %d differs: %s/%v vs %s/%v",
				i, sa.Strategy, sa.Score, sb.Strategy, sb.Score)
		}
		if len(sa.Placements) != len(sb.Placements) {
			t.Errorf("solution %d placement count differs", i)
			continue
		}
		for j := range sa.Placements {
			pa, pb := sa.Placements[j], sb.Placements[j]
			if pa.FurnitureID != pb.FurnitureID || pa.XCm != pb.XCm ||
				pa.YCm != pb.YCm || pa.RotationDeg != pb.RotationDeg {
				t.Errorf("solution %d placement %d differs", i, j)
			}
		}
	}
}

func TestValidateOperation(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	placements := []layout.Placement{{
		FurnitureID: "sofa_3seat", Category: "seating",
		XCm: 100, YCm: 300, RotationDeg: 0,
		WidthCm: 228, DepthCm: 95, HeightCm: 83, ClearanceCm: 80,
	}}

	first, err := runner.Validate(context.Background(), testPlan(), placements, false)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !first.Report.Valid {
		t.Errorf("Validate() report invalid: %+v", first.Report.Violations)
	}
	if first.CacheHit {
		t.Error("first validation reported a cache hit")
	}

	second, err := runner.Validate(context.Background(), testPlan(), placements, false)
	if err != nil {
		t.Fatalf("second Validate() error = %v", err)
	}
	if !second.CacheHit {
		t.Error("second validation missed the cache")
	}
}

func badWeights() model.Weights {
	return model.Weights{PlacementCoverage: 1.5}
}
