// Package pipeline provides the core layout pipeline for photogrid.
//
// This package implements the complete scan → pack → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Scan: Load photos from a directory, manifest, or saved album file
//  2. Pack: Place photos into justified rows for the target container
//  3. Render: Generate output in various formats (JSON, HTML, SVG, DOT, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dir:            "./photos",
//	    ContainerWidth: 1200,
//	    Columns:        4,
//	    Formats:        []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/cache"
	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/grid"
	"github.com/photogrid/photogrid/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultContainerWidth is the default container width in pixels.
	DefaultContainerWidth = 1200.0

	// DefaultColumns is the default column count for the reference grid.
	DefaultColumns = 4

	// DefaultFormat is the output format used when none is requested.
	DefaultFormat = render.FormatJSON
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scan options. Exactly one source must be set.
	Dir       string `json:"dir,omitempty"`
	Manifest  string `json:"manifest,omitempty"`
	AlbumFile string `json:"album_file,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Pack options. Smoothing runs by default; NoSmooth opts out.
	ContainerWidth   float64 `json:"container_width,omitempty"`
	Columns          int     `json:"columns,omitempty"`
	RowHeight        float64 `json:"row_height,omitempty"`
	Tolerance        float64 `json:"tolerance,omitempty"`
	PreferHorizontal bool    `json:"prefer_horizontal,omitempty"`
	NoSmooth         bool    `json:"no_smooth,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`
	BaseURL string   `json:"base_url,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Album is the scanned photo set.
	Album *album.Album

	// AlbumHash is the content hash of the album's layout items.
	AlbumHash string

	// Document contains the packed layout.
	Document *render.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PhotoCount int
	RowCount   int
	ScanTime   time.Duration
	PackTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PackHit   bool // Whether the packed layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForScan(); err != nil {
		return err
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForScan checks that exactly one photo source is configured.
func (o *Options) ValidateForScan() error {
	sources := 0
	for _, s := range []string{o.Dir, o.Manifest, o.AlbumFile} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "a photo source is required: dir, manifest, or album_file")
	}
	if sources > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "dir, manifest, and album_file are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetPackDefaults sets default values for the pack stage. Row height and
// tolerance stay zero here; the packer resolves those itself.
func (o *Options) SetPackDefaults() {
	if o.ContainerWidth == 0 {
		o.ContainerWidth = DefaultContainerWidth
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPack validates and sets defaults for the pack stage.
func (o *Options) ValidateForPack() error {
	o.SetPackDefaults()
	if o.ContainerWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "container width must be positive, got %v", o.ContainerWidth)
	}
	if o.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "columns must be at least 1, got %d", o.Columns)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return render.ValidateFormats(o.Formats)
}

// GridConfig returns the packing configuration for the pack stage.
func (o *Options) GridConfig() grid.Config {
	return grid.Config{
		RowHeight:          o.RowHeight,
		RowHeightTolerance: o.Tolerance,
		PreferHorizontal:   o.PreferHorizontal,
	}
}

// LayoutKeyOpts returns cache key options for the pack stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ContainerWidth:   o.ContainerWidth,
		Columns:          o.Columns,
		RowHeight:        o.RowHeight,
		Tolerance:        o.Tolerance,
		PreferHorizontal: o.PreferHorizontal,
		Smooth:           !o.NoSmooth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Title:  o.Title,
	}
}
