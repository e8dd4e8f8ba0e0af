package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful in the hosted platform where different users or projects
// need separate cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private catalogs
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for the builtin catalog
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolveKey generates a prefixed key for solve result caching.
func (k *ScopedKeyer) SolveKey(inputHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(inputHash, opts)
}

// ValidateKey generates a prefixed key for validation report caching.
func (k *ScopedKeyer) ValidateKey(layoutHash string) string {
	return k.prefix + k.inner.ValidateKey(layoutHash)
}

// CatalogKey generates a prefixed key for catalog caching.
func (k *ScopedKeyer) CatalogKey(source string) string {
	return k.prefix + k.inner.CatalogKey(source)
}
