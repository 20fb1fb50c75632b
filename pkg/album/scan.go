package album

import (
	"context"
	"encoding/json"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// Registered for image.DecodeConfig header probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/photogrid/photogrid/pkg/cache"
	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/observability"
)

// imageExtensions lists the file extensions the scanner probes.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Scanner probes a directory of images for their natural dimensions.
// Probes only read the image header (image.DecodeConfig), never full pixel
// data, and results are cached keyed on path, size, and mtime.
type Scanner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewScanner creates a scanner. A nil cache disables probe caching; a nil
// keyer uses the default; a nil logger discards output.
func NewScanner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Scanner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{Cache: c, Keyer: keyer, Logger: logger}
}

// probeResult is the cached dimension probe payload.
type probeResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScanDir walks dir recursively and builds an album from every decodable
// image found, sorted by path for stable item order. Files that fail to
// decode are skipped with a warning rather than failing the scan.
func (s *Scanner) ScanDir(ctx context.Context, dir string) (*Album, error) {
	start := time.Now()
	observability.Pipeline().OnScanStart(ctx, dir)

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "directory %s", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		observability.Pipeline().OnScanComplete(ctx, dir, 0, time.Since(start), err)
		return nil, err
	}
	sort.Strings(paths)

	a := &Album{
		ID:        uuid.NewString(),
		Title:     filepath.Base(dir),
		Dir:       dir,
		CreatedAt: time.Now().UTC(),
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, h, err := s.probe(ctx, path)
		if err != nil {
			s.Logger.Warn("skipping unreadable image", "path", path, "err", err)
			continue
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		a.Photos = append(a.Photos, Photo{Path: rel, Width: w, Height: h})
	}
	a.UpdatedAt = a.CreatedAt

	observability.Pipeline().OnScanComplete(ctx, dir, len(a.Photos), time.Since(start), nil)
	s.Logger.Debug("scanned directory", "dir", dir, "photos", len(a.Photos), "duration", time.Since(start))
	return a, nil
}

// probe returns the image's natural dimensions, consulting the probe cache
// before reading the file header.
func (s *Scanner) probe(ctx context.Context, path string) (int, int, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	key := s.Keyer.ProbeKey(path, fi.Size(), fi.ModTime())

	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		var pr probeResult
		if json.Unmarshal(data, &pr) == nil && pr.Width > 0 && pr.Height > 0 {
			observability.Cache().OnCacheHit(ctx, "probe")
			return pr.Width, pr.Height, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "probe")

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}

	if data, err := json.Marshal(probeResult{Width: cfg.Width, Height: cfg.Height}); err == nil {
		_ = s.Cache.Set(ctx, key, data, cache.TTLProbe)
		observability.Cache().OnCacheSet(ctx, "probe", len(data))
	}
	return cfg.Width, cfg.Height, nil
}
