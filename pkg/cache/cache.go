// Package cache provides pluggable byte caches and cache-key construction for
// the photogrid pipeline.
//
// Three backends are provided:
//   - file: directory-backed cache for CLI usage (XDG cache dir)
//   - redis: shared cache for server deployments
//   - null: no-op cache for tests or --no-cache runs
//
// Keys are built by a Keyer so that every consumer (CLI, API) derives the
// same key for the same logical content. The DefaultKeyer hashes the key
// components with SHA-256; ScopedKeyer prefixes another Keyer's output for
// namespace isolation.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached pipeline stages.
const (
	// TTLProbe is the lifetime of image dimension probes. Probes are keyed on
	// path, size, and mtime, so a long TTL is safe.
	TTLProbe = 30 * 24 * time.Hour

	// TTLLayout is the lifetime of computed layouts.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered artifacts.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with TTL-based expiration.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keyer - Cache Key Construction
// =============================================================================

// LayoutKeyOpts are the packing parameters that distinguish layout cache
// entries for the same item set.
type LayoutKeyOpts struct {
	ContainerWidth   float64
	Columns          int
	RowHeight        float64
	Tolerance        float64
	PreferHorizontal bool
	Smooth           bool
}

// ArtifactKeyOpts are the render parameters that distinguish artifact cache
// entries for the same layout.
type ArtifactKeyOpts struct {
	Format string
	Title  string
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// ProbeKey identifies an image dimension probe by path and file identity.
	ProbeKey(path string, size int64, modTime time.Time) string

	// LayoutKey identifies a packed layout by the item-set hash and the
	// packing parameters.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact by the layout hash and the
	// render parameters.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 under a stage prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ProbeKey generates a key for an image dimension probe.
func (k *DefaultKeyer) ProbeKey(path string, size int64, modTime time.Time) string {
	return hashKey("probe", path, size, modTime.UnixNano())
}

// LayoutKey generates a key for a packed layout.
func (k *DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
