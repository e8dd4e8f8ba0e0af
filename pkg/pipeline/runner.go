package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/anneal"
	"github.com/matzehuels/roomforge/pkg/layout/flow"
	"github.com/matzehuels/roomforge/pkg/layout/model"
	"github.com/matzehuels/roomforge/pkg/layout/rank"
	"github.com/matzehuels/roomforge/pkg/layout/seed"
	"github.com/matzehuels/roomforge/pkg/layout/solve"
	"github.com/matzehuels/roomforge/pkg/layout/validate"
	"github.com/matzehuels/roomforge/pkg/observability"
	"github.com/matzehuels/roomforge/pkg/progress"
)

// Runner executes the layout pipeline with caching. A Runner is safe for
// concurrent use; each Execute call runs independently.
type Runner struct {
	cache     cache.Cache
	keyer     cache.Keyer
	backend   solve.Backend
	flow      *flow.Scorer
	validator *validate.Validator
	logger    *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching, a nil
// backend selects the default grid search, and a nil logger discards output.
func NewRunner(c cache.Cache, backend solve.Backend, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if backend == nil {
		backend = solve.NewGridSearch()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		backend:   backend,
		flow:      flow.NewScorer(),
		validator: validate.New(),
		logger:    logger,
	}
}

// Close releases cache resources.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// candidate is one solved arrangement before ranking.
type candidate struct {
	strategy   string
	assignment *model.Assignment
	partial    bool
	err        error
}

// Execute runs the full pipeline: validate options, seed per strategy,
// solve and refine concurrently, validate the results, and select a
// diverse shortlist. Results are cached by input hash and solve options.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	inputHash := opts.InputHash()
	solveKey := r.keyer.SolveKey(inputHash, opts.SolveKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.cacheGet(ctx, solveKey); ok {
			cached.CacheInfo.SolveHit = true
			opts.Progress.Publish(ctx, progress.StageDone, "loaded cached layouts")
			return cached, nil
		}
	}

	room, err := geometry.NewRoom(opts.Room)
	if err != nil {
		return nil, err
	}
	opts.Progress.Publish(ctx, progress.StageValidated, "input validated")

	result := &Result{InputHash: inputHash, Stats: Stats{ItemCount: len(opts.Furniture)}}
	if len(opts.Furniture) == 0 {
		result.Solutions = []layout.Solution{}
		return result, nil
	}

	items := catalog.FilterStyle(opts.Furniture, opts.StylePreferences)
	items = catalog.FilterBudget(items, opts.BudgetCents)
	items = catalog.FilterArea(items, room.Width()*room.Height())
	if len(items) < len(opts.Furniture) {
		r.logger.Debug("filtered candidate set",
			"requested", len(opts.Furniture), "kept", len(items))
	}

	m, err := model.Build(room, items, opts.Weights, opts.BudgetCents)
	if err != nil {
		return nil, err
	}
	result.Excluded = m.Excluded
	opts.Progress.Publish(ctx, progress.StageModeled, "constraint model built")

	seedStart := time.Now()
	seeds := r.seeds(ctx, m, opts.Strategies)
	result.Stats.SeedTime = time.Since(seedStart)
	opts.Progress.Publish(ctx, progress.StageSeeded, "starting arrangements seeded")

	solveStart := time.Now()
	cands, err := r.solveAll(ctx, m, seeds, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.SolveTime = time.Since(solveStart)
	opts.Progress.Publish(ctx, progress.StageRefined, "arrangements refined")

	validateStart := time.Now()
	pool := r.collect(ctx, room, m, cands)
	result.Stats.ValidateTime = time.Since(validateStart)

	result.Solutions = rank.Select(pool, opts.Count, opts.DiversityThreshold)
	opts.Progress.Publish(ctx, progress.StageDone, "layouts ranked")

	r.cacheSet(ctx, solveKey, result)
	return result, nil
}

// seeds builds one starting arrangement per requested strategy.
func (r *Runner) seeds(ctx context.Context, m *model.Model, strategies []string) []seed.Seed {
	hooks := observability.Solve()
	out := make([]seed.Seed, 0, len(strategies))
	for _, strategy := range strategies {
		hooks.OnSeedStart(ctx, strategy, len(m.Vars))
		start := time.Now()
		s := seed.Generate(m, strategy)
		hooks.OnSeedComplete(ctx, strategy, len(s.Assignment.Placements), time.Since(start))
		r.logger.Debug("seeded arrangement",
			"strategy", strategy, "placed", len(s.Assignment.Placements))
		out = append(out, s)
	}
	return out
}

// solveAll runs solve and refine for every seed concurrently, one goroutine
// per strategy, sharing the request time budget.
func (r *Runner) solveAll(ctx context.Context, m *model.Model, seeds []seed.Seed, opts Options) ([]candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.TimeBudget)
	defer cancel()

	hooks := observability.Solve()
	cands := make([]candidate, len(seeds))
	var wg sync.WaitGroup
	var solved sync.Once
	for i, s := range seeds {
		wg.Add(1)
		go func(i int, s seed.Seed) {
			defer wg.Done()
			cands[i] = candidate{strategy: s.Strategy}

			hooks.OnSolveStart(ctx, s.Strategy, len(m.Vars))
			start := time.Now()
			res, err := r.backend.Solve(ctx, m, s.Assignment)
			hooks.OnSolveComplete(ctx, s.Strategy, res.Score, time.Since(start), err)
			if err != nil {
				cands[i].err = err
				return
			}
			solved.Do(func() {
				opts.Progress.Publish(ctx, progress.StageSolved, "initial arrangements solved")
			})

			rng := rand.New(rand.NewSource(int64(opts.Seed) + int64(i)))
			refineStart := time.Now()
			refined := anneal.New(anneal.Config{}, rng).Refine(ctx, m, res.Assignment)
			hooks.OnRefineComplete(ctx, s.Strategy,
				res.Score, solve.Score(m, refined), time.Since(refineStart))

			cands[i].assignment = refined
			cands[i].partial = res.Partial
		}(i, s)
	}
	wg.Wait()

	for _, c := range cands {
		if c.err != nil && errors.Is(c.err, errors.ErrCodeSolveCancelled) {
			return nil, c.err
		}
	}
	return cands, nil
}

// collect validates every candidate and converts the survivors into
// solutions. Candidates failing the independent validator are dropped;
// the solver should never produce one, so a drop is logged as a bug.
func (r *Runner) collect(ctx context.Context, room *geometry.Room, m *model.Model, cands []candidate) []layout.Solution {
	hooks := observability.Solve()
	var pool []layout.Solution
	for _, c := range cands {
		if c.assignment == nil {
			continue
		}

		start := time.Now()
		report := r.validator.Check(room, c.assignment.Placements)
		hooks.OnValidateComplete(ctx, c.strategy, report.Valid, time.Since(start))
		if !report.Valid {
			r.logger.Error("solver produced invalid layout, dropping",
				"strategy", c.strategy, "violations", len(report.Violations))
			continue
		}

		flowScore := r.flow.Score(room, c.assignment.Placements)
		sol := layout.Solution{
			ID:         uuid.NewString(),
			Name:       seed.DisplayName(c.strategy),
			Strategy:   c.strategy,
			Placements: c.assignment.Placements,
			Score:      m.Score(c.assignment, model.SoftTerms{Flow: flowScore}),
			Violations: []layout.Violation{},
			Partial:    c.partial,
			Metrics: layout.Metrics{
				TotalCostCents: c.assignment.TotalCost(),
				FurnitureCount: len(c.assignment.Placements),
				CoverageRatio:  m.CoverageRatio(c.assignment),
				FlowScore:      flowScore,
			},
		}
		sol.Rationale = rank.Rationale(sol)
		pool = append(pool, sol)
	}
	return pool
}

// Validate runs the standalone validation operation, cached by layout hash.
func (r *Runner) Validate(ctx context.Context, plan geometry.Plan, placements []layout.Placement, refresh bool) (*ValidationResult, error) {
	room, err := geometry.NewRoom(plan)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(struct {
		Room       geometry.Plan      `json:"room"`
		Placements []layout.Placement `json:"placements"`
	}{plan, placements})
	layoutHash := cache.Hash(data)
	key := r.keyer.ValidateKey(layoutHash)

	hooks := observability.Cache()
	if !refresh {
		if raw, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			var report validate.Report
			if json.Unmarshal(raw, &report) == nil {
				hooks.OnCacheHit(ctx, key)
				return &ValidationResult{Report: report, CacheHit: true, InputHash: layoutHash}, nil
			}
		}
		hooks.OnCacheMiss(ctx, key)
	}

	report := r.validator.Check(room, placements)
	if raw, err := json.Marshal(report); err == nil {
		if err := r.cache.Set(ctx, key, raw, cache.TTLValidate); err == nil {
			hooks.OnCacheSet(ctx, key, len(raw))
		}
	}
	return &ValidationResult{Report: report, InputHash: layoutHash}, nil
}

func (r *Runner) cacheGet(ctx context.Context, key string) (*Result, bool) {
	hooks := observability.Cache()
	raw, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !ok {
		hooks.OnCacheMiss(ctx, key)
		return nil, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		r.logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
		return nil, false
	}
	hooks.OnCacheHit(ctx, key)
	return &result, true
}

func (r *Runner) cacheSet(ctx context.Context, key string, result *Result) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, raw, cache.TTLSolve); err != nil {
		r.logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(raw))
}

// SortByScore orders solutions best first, for callers that re-rank a
// merged pool.
func SortByScore(solutions []layout.Solution) {
	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].Score > solutions[j].Score
	})
}
