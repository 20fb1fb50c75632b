package cache

import "time"

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend is shared between contexts that must
// not see each other's entries, e.g. separate galleries on one Redis.
//
// Example usage:
//
//	// Gallery-specific keys
//	galleryKeyer := NewScopedKeyer(NewDefaultKeyer(), "gallery:travel:")
//
//	// Global keys
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

// ProbeKey generates a prefixed key for image dimension probes.
func (k *ScopedKeyer) ProbeKey(path string, size int64, modTime time.Time) string {
	return k.prefix + k.inner.ProbeKey(path, size, modTime)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(itemsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
