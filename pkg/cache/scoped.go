package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful behind the HTTP service where different users or contexts
// need separate cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private diagrams
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for anonymous requests
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

// ParseKey generates a prefixed key for parsed IR.
func (k *ScopedKeyer) ParseKey(sourceHash string, opts ParseKeyOpts) string {
	return k.prefix + k.inner.ParseKey(sourceHash, opts)
}

// LayoutKey generates a prefixed key for computed layouts.
func (k *ScopedKeyer) LayoutKey(irHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(irHash, opts)
}

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(layoutHash, opts)
}
