// Package cache provides the caching layer for solve and validation
// results.
//
// The Cache interface abstracts over backends: a file cache for CLI usage,
// Redis for the service, and a null cache when caching is disabled. Keyer
// generates the cache keys so that every entry point (CLI, API, worker)
// derives identical keys for identical requests.
package cache

import (
	"context"
	"time"
)

// TTLs for the different entry types.
const (
	// TTLSolve is how long solved layouts stay cached. Solves are
	// deterministic per request, so the TTL only bounds storage growth.
	TTLSolve = 24 * time.Hour

	// TTLValidate is how long validation reports stay cached.
	TTLValidate = 24 * time.Hour

	// TTLCatalog is how long parsed furniture catalogs stay cached.
	TTLCatalog = time.Hour
)

// Cache is the storage interface for cached pipeline results.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolveKeyOpts are the request parameters that change a solve result and
// therefore participate in the cache key.
type SolveKeyOpts struct {
	Strategies   []string `json:"strategies"`
	Count        int      `json:"count"`
	TimeBudgetMs int64    `json:"time_budget_ms"`
	BudgetCents  int64    `json:"budget_cents"`
	Seed         uint64   `json:"seed"`

	PlacementCoverage  float64 `json:"placement_coverage"`
	BudgetOptimization float64 `json:"budget_optimization"`
	FlowOptimization   float64 `json:"flow_optimization"`
	Daylight           float64 `json:"daylight"`
	Symmetry           float64 `json:"symmetry"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SolveKey keys a solve run by the hash of its room and furniture
	// input plus the request options.
	SolveKey(inputHash string, opts SolveKeyOpts) string

	// ValidateKey keys a validation report by the hash of the layout.
	ValidateKey(layoutHash string) string

	// CatalogKey keys a parsed furniture catalog by its source.
	CatalogKey(source string) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SolveKey generates a key for solve result caching.
func (k *DefaultKeyer) SolveKey(inputHash string, opts SolveKeyOpts) string {
	return hashKey("solve", inputHash, opts)
}

// ValidateKey generates a key for validation report caching.
func (k *DefaultKeyer) ValidateKey(layoutHash string) string {
	return "validate:" + layoutHash
}

// CatalogKey generates a key for catalog caching.
func (k *DefaultKeyer) CatalogKey(source string) string {
	return hashKey("catalog", source)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
