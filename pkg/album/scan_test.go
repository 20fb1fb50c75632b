package album

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/photogrid/photogrid/pkg/cache"
	"github.com/photogrid/photogrid/pkg/errors"
)

// writePNG writes a w×h PNG to path.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 400, 300)
	writePNG(t, filepath.Join(dir, "a.png"), 100, 200)
	// Non-image and broken files are tolerated.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewScanner(nil, nil, nil)
	a, err := s.ScanDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ScanDir error: %v", err)
	}

	if a.ID == "" {
		t.Error("album should get an ID")
	}
	if len(a.Photos) != 2 {
		t.Fatalf("photos = %d, want 2 (broken and non-image skipped)", len(a.Photos))
	}
	// Sorted by path: a.png before b.png.
	if a.Photos[0].Path != "a.png" || a.Photos[1].Path != "b.png" {
		t.Errorf("order = %q, %q; want a.png, b.png", a.Photos[0].Path, a.Photos[1].Path)
	}
	if a.Photos[0].Width != 100 || a.Photos[0].Height != 200 {
		t.Errorf("a.png dims = %dx%d, want 100x200", a.Photos[0].Width, a.Photos[0].Height)
	}
	if r := a.Photos[1].AspectRatio(); r != 0.75 {
		t.Errorf("b.png ratio = %v, want 0.75", r)
	}
}

func TestScanDirUsesProbeCache(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "x.png"), 640, 480)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewScanner(c, nil, nil)
	ctx := context.Background()

	first, err := s.ScanDir(ctx, dir)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}

	// Second scan must resolve identical dimensions from cache.
	second, err := s.ScanDir(ctx, dir)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if first.Photos[0].Width != second.Photos[0].Width || first.Photos[0].Height != second.Photos[0].Height {
		t.Errorf("cached probe mismatch: %+v vs %+v", first.Photos[0], second.Photos[0])
	}
}

func TestScanDirInvalidPath(t *testing.T) {
	s := NewScanner(nil, nil, nil)

	_, err := s.ScanDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidPath)
	}

	// A file, not a directory
	file := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = s.ScanDir(context.Background(), file)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidPath)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := &Album{ID: "m1", Title: "Mem", Photos: []Photo{{Path: "a.jpg", Ratio: 1}}}
	if err := s.Put(ctx, a); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := s.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Title != "Mem" {
		t.Errorf("Title = %q", got.Title)
	}

	// Mutating the original must not affect the stored copy.
	a.Photos[0].Path = "changed.jpg"
	got, _ = s.Get(ctx, "m1")
	if got.Photos[0].Path != "a.jpg" {
		t.Error("store should hold a copy, not the caller's slice")
	}

	all, err := s.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("List = %d albums, err %v", len(all), err)
	}

	if err := s.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "m1"); !errors.Is(err, errors.ErrCodeAlbumNotFound) {
		t.Errorf("after delete, error code = %q, want %q", errors.GetCode(err), errors.ErrCodeAlbumNotFound)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Writers and readers race over the same keys; the race detector flags
	// any unsynchronized map access.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n%4)
			for j := 0; j < 50; j++ {
				a := &Album{ID: id, Photos: []Photo{{Path: "a.jpg", Ratio: 1}}}
				if err := s.Put(ctx, a); err != nil {
					t.Errorf("Put error: %v", err)
					return
				}
				_, _ = s.Get(ctx, id)
				_, _ = s.List(ctx)
				_ = s.Delete(ctx, id)
			}
		}(i)
	}
	wg.Wait()
}
