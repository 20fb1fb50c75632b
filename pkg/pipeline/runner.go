package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/cache"
	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/grid"
	"github.com/photogrid/photogrid/pkg/observability"
	"github.com/photogrid/photogrid/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete scan → pack → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Scan
	scanStart := time.Now()
	a, err := r.Scan(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "scan")
	}
	result.Album = a
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.PhotoCount = len(a.Photos)

	r.Logger.Info("scanned photos",
		"photos", len(a.Photos),
		"duration", result.Stats.ScanTime)

	// Stage 2: Pack
	packStart := time.Now()
	doc, packHit, err := r.PackWithCacheInfo(ctx, a, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "pack")
	}
	result.Document = doc
	result.AlbumHash = itemsHash(a)
	result.Stats.PackTime = time.Since(packStart)
	result.Stats.RowCount = len(doc.Rows)
	result.CacheInfo.PackHit = packHit

	r.Logger.Info("packed layout",
		"rows", len(doc.Rows),
		"duration", result.Stats.PackTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, a, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "render")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Scan loads the photo album from the configured source. Directory scans go
// through the Scanner, which caches per-file dimension probes; manifest and
// album-file sources read straight from disk.
func (r *Runner) Scan(ctx context.Context, opts Options) (*album.Album, error) {
	if err := opts.ValidateForScan(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	switch {
	case opts.Dir != "":
		c := r.Cache
		if opts.Refresh {
			c = cache.NewNullCache()
		}
		scanner := album.NewScanner(c, r.Keyer, opts.Logger)
		return scanner.ScanDir(ctx, opts.Dir)
	case opts.Manifest != "":
		return album.LoadManifest(opts.Manifest)
	default:
		return album.ReadFile(opts.AlbumFile)
	}
}

// PackWithCacheInfo packs the album into rows with caching and returns cache hit info.
func (r *Runner) PackWithCacheInfo(ctx context.Context, a *album.Album, opts Options) (*render.Document, bool, error) {
	if err := opts.ValidateForPack(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	items, err := a.Items()
	if err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(itemsHash(a), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := render.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return doc, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, cacheKey)

	observability.Pipeline().OnPackStart(ctx, len(items))
	start := time.Now()

	doc, err := r.pack(items, opts)
	observability.Pipeline().OnPackComplete(ctx, len(items), rowCount(doc), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := render.Marshal(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
	}

	return doc, false, nil // Cache miss
}

// Pack is a convenience wrapper that calls PackWithCacheInfo and discards the cache hit info.
func (r *Runner) Pack(ctx context.Context, a *album.Album, opts Options) (*render.Document, error) {
	doc, _, err := r.PackWithCacheInfo(ctx, a, opts)
	return doc, err
}

// pack runs the packer and optional smoothing pass.
func (r *Runner) pack(items []grid.Item, opts Options) (*render.Document, error) {
	cfg := opts.GridConfig()
	if cfg.PreferHorizontal {
		items = grid.ByOrientation(items, true)
	}

	res, err := grid.Pack(items, opts.ContainerWidth, opts.Columns, cfg)
	if err != nil {
		return nil, err
	}

	if !opts.NoSmooth {
		rowHeight := cfg.RowHeight
		if rowHeight == 0 {
			rowHeight = grid.DefaultRowHeight
		}
		tolerance := cfg.RowHeightTolerance
		if tolerance == 0 {
			tolerance = grid.DefaultRowHeightTolerance
		}
		grid.Smooth(res.Rows, rowHeight, tolerance)
		res.Restat()
	}

	doc := render.NewDocument(res, opts.ContainerWidth, opts.Columns)
	doc.Title = opts.Title
	return doc, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The album may be nil; HTML output then renders placeholder blocks.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *render.Document, a *album.Album, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	docData, err := render.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := r.renderAll(ctx, doc, a, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *render.Document, a *album.Album, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, a, opts)
	return artifacts, err
}

// renderAll produces every requested format from the document.
func (r *Runner) renderAll(ctx context.Context, doc *render.Document, a *album.Album, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case render.FormatJSON:
			data, err := render.Marshal(doc)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case render.FormatHTML:
			htmlOpts := []render.HTMLOption{}
			if a != nil {
				htmlOpts = append(htmlOpts, render.WithAlbum(a))
			}
			if opts.BaseURL != "" {
				htmlOpts = append(htmlOpts, render.WithBaseURL(opts.BaseURL))
			}
			out[format] = render.RenderHTML(doc, htmlOpts...)
		case render.FormatSVG:
			out[format] = render.RenderSVG(doc, render.WithLabels())
		case render.FormatDOT:
			out[format] = []byte(render.ToDOT(doc))
		case render.FormatPNG:
			data, err := render.RenderPNG(ctx, doc)
			if err != nil {
				return nil, err
			}
			out[format] = data
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// itemsHash derives the content hash identifying an album's layout inputs.
func itemsHash(a *album.Album) string {
	var buf []byte
	for _, p := range a.Photos {
		buf = append(buf, []byte(p.Path)...)
		buf = append(buf, 0)
		buf = appendFloat(buf, p.AspectRatio())
	}
	return cache.Hash(buf)
}

func appendFloat(buf []byte, f float64) []byte {
	bits := math.Float64bits(f)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(bits>>(8*i)))
	}
	return buf
}

func rowCount(doc *render.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Rows)
}
