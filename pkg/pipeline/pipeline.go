// Package pipeline provides the core layout pipeline for RoomForge.
//
// This package implements the complete seed → solve → refine → validate →
// rank pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Seed: Derive one starting arrangement per strategy from placement rules
//  2. Solve: Greedy grid search from each seed, within the time budget
//  3. Refine: Simulated annealing over each solved arrangement
//  4. Validate: Independent re-check of every hard constraint
//  5. Rank: Score-ordered, diversity-aware selection of the final layouts
//
// Seeds run their solve and refinement concurrently, one goroutine per
// strategy.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Room:      plan,
//	    Furniture: catalog.Builtin(),
//	    Count:     3,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layouts := result.Solutions
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/catalog"
	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/layout/model"
	"github.com/matzehuels/roomforge/pkg/layout/rank"
	"github.com/matzehuels/roomforge/pkg/layout/seed"
	"github.com/matzehuels/roomforge/pkg/layout/validate"
	"github.com/matzehuels/roomforge/pkg/progress"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultCount is the number of layouts returned per request.
	DefaultCount = 3

	// MaxCount bounds how many layouts one request may ask for.
	MaxCount = 10

	// DefaultTimeBudget is the wall-clock budget for solving and refining.
	DefaultTimeBudget = 30 * time.Second

	// DefaultSeed is the default random seed for reproducible refinement.
	DefaultSeed = uint64(42)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Room      geometry.Plan  `json:"room"`
	Furniture []catalog.Item `json:"furniture"`

	// Solve options
	Weights          model.Weights `json:"weights,omitempty"`
	BudgetCents      int64         `json:"budget_cents,omitempty"`
	Count            int           `json:"count,omitempty"`
	Strategies       []string      `json:"strategies,omitempty"`
	StylePreferences []string      `json:"style_preferences,omitempty"`
	TimeBudget       time.Duration `json:"time_budget_ms,omitempty"`
	Seed             uint64        `json:"seed,omitempty"`

	// DiversityThreshold is the minimum dissimilarity between returned
	// layouts. Zero applies the default.
	DiversityThreshold float64 `json:"diversity_threshold,omitempty"`

	// Refresh bypasses the cache for this request.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger        `json:"-"`
	Progress progress.Publisher `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Solutions are the selected layouts, best first.
	Solutions []layout.Solution `json:"solutions"`

	// Excluded lists catalog items that could never be placed.
	Excluded []model.Excluded `json:"excluded,omitempty"`

	// InputHash is the content hash of the room and furniture input.
	InputHash string `json:"input_hash,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount    int           `json:"item_count"`
	SeedTime     time.Duration `json:"seed_time"`
	SolveTime    time.Duration `json:"solve_time"`
	ValidateTime time.Duration `json:"validate_time"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	SolveHit bool `json:"solve_hit"` // Whether the solve result came from cache
}

// ValidationResult is the output of the standalone validation operation.
type ValidationResult struct {
	Report    validate.Report `json:"report"`
	CacheHit  bool            `json:"cache_hit"`
	InputHash string          `json:"input_hash,omitempty"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := catalog.ValidateAll(o.Furniture); err != nil {
		return err
	}
	if err := o.Weights.Validate(); err != nil {
		return err
	}
	if o.BudgetCents < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "budget_cents must not be negative")
	}
	if o.Count < 0 || o.Count > MaxCount {
		return errors.New(errors.ErrCodeInvalidInput, "count %d outside [0, %d]", o.Count, MaxCount)
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if len(o.Strategies) == 0 {
		o.Strategies = seed.Strategies()
	}
	if o.TimeBudget <= 0 {
		o.TimeBudget = DefaultTimeBudget
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.DiversityThreshold == 0 {
		o.DiversityThreshold = rank.DefaultDiversityThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Progress == nil {
		o.Progress = progress.Nop{}
	}
	o.validated = true
	return nil
}

// SolveKeyOpts returns cache key options for solve result caching.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		Strategies:         o.Strategies,
		Count:              o.Count,
		TimeBudgetMs:       o.TimeBudget.Milliseconds(),
		BudgetCents:        o.BudgetCents,
		Seed:               o.Seed,
		PlacementCoverage:  o.Weights.PlacementCoverage,
		BudgetOptimization: o.Weights.BudgetOptimization,
		FlowOptimization:   o.Weights.FlowOptimization,
		Daylight:           o.Weights.Daylight,
		Symmetry:           o.Weights.Symmetry,
	}
}

// InputHash computes the content hash of the room and furniture input,
// used for cache keys and API responses.
func (o *Options) InputHash() string {
	data, _ := json.Marshal(struct {
		Room      geometry.Plan  `json:"room"`
		Furniture []catalog.Item `json:"furniture"`
		Styles    []string       `json:"styles,omitempty"`
	}{o.Room, o.Furniture, o.StylePreferences})
	return cache.Hash(data)
}
