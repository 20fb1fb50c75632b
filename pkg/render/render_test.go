package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/grid"
)

func testDocument() *Document {
	return &Document{
		Title:          "Test",
		ContainerWidth: 900,
		Columns:        3,
		Rows: []grid.Row{
			{
				Items: []grid.Item{
					{Index: 0, Ratio: 1.0, Width: 300, Height: 300},
					{Index: 1, Ratio: 1.0, Width: 300, Height: 300},
				},
				Height: 300,
			},
			{
				Items: []grid.Item{
					{Index: 2, Ratio: 2.0, Width: 300, Height: 600},
				},
				Height: 600,
			},
		},
		Stats: grid.Stats{TotalRows: 2, AvgRowHeight: 450, MaxRowHeight: 600, MinRowHeight: 300},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"json", "html", "svg", "dot", "png"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	err := ValidateFormat("pdf")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
	if err := ValidateFormats([]string{"json", "tiff"}); err == nil {
		t.Error("expected error for invalid format in list")
	}
}

func TestDocumentGeometry(t *testing.T) {
	d := testDocument()
	if got := d.ItemCount(); got != 3 {
		t.Errorf("ItemCount() = %d, want 3", got)
	}
	if got := d.GridHeight(); got != 900 {
		t.Errorf("GridHeight() = %v, want 900", got)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	d := testDocument()
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Title != d.Title || got.ContainerWidth != d.ContainerWidth || got.Columns != d.Columns {
		t.Errorf("header mismatch: got %+v", got)
	}
	if len(got.Rows) != len(d.Rows) {
		t.Fatalf("rows = %d, want %d", len(got.Rows), len(d.Rows))
	}
	if got.Rows[1].Items[0].Index != 2 {
		t.Errorf("item index = %d, want 2", got.Rows[1].Items[0].Index)
	}
	if got.Stats.TotalRows != 2 {
		t.Errorf("stats rows = %d, want 2", got.Stats.TotalRows)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestReadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(path)
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestRenderHTMLPlaceholders(t *testing.T) {
	out := string(RenderHTML(testDocument()))

	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(out, "<title>Test</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "--grid-width: 900px") {
		t.Error("missing grid width variable")
	}
	if got := strings.Count(out, `class="row"`); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
	// Without an album every item is a placeholder block.
	if got := strings.Count(out, `class="ph"`); got != 3 {
		t.Errorf("placeholders = %d, want 3", got)
	}
	if strings.Contains(out, "<img src=") {
		t.Error("unexpected image tags without album")
	}
	if !strings.Contains(out, "dialog") {
		t.Error("missing lightbox dialog")
	}
}

func TestRenderHTMLWithAlbum(t *testing.T) {
	a := &album.Album{
		Title: "Trip",
		Photos: []album.Photo{
			{Path: "a.jpg", Alt: "first"},
			{Path: "b.jpg", Title: "second"},
			{Path: "c.jpg"},
		},
	}
	out := string(RenderHTML(testDocument(), WithAlbum(a), WithBaseURL("/photos/")))

	if !strings.Contains(out, `src="/photos/a.jpg"`) {
		t.Error("missing prefixed image path")
	}
	if !strings.Contains(out, `alt="first"`) {
		t.Error("alt text not carried through")
	}
	// Title is used as alt fallback.
	if !strings.Contains(out, `alt="second"`) {
		t.Error("title fallback not applied")
	}
	if !strings.Contains(out, `loading="lazy"`) {
		t.Error("images must lazy-load")
	}
}

func TestRenderHTMLWithoutLightbox(t *testing.T) {
	out := string(RenderHTML(testDocument(), WithoutLightbox()))
	if strings.Contains(out, "dialog") || strings.Contains(out, "<script>") {
		t.Error("lightbox markup should be omitted")
	}

	out = string(RenderHTML(testDocument()))
	if !strings.Contains(out, "dialog.lightbox") || !strings.Contains(out, "<script>") {
		t.Error("default output should carry the lightbox")
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testDocument(), WithLabels()))

	if !strings.Contains(out, `viewBox="0 0 900.0 900.0"`) {
		t.Errorf("unexpected viewBox: %s", out[:120])
	}
	if got := strings.Count(out, "<rect"); got != 3 {
		t.Errorf("rects = %d, want 3", got)
	}
	if got := strings.Count(out, "<text"); got != 3 {
		t.Errorf("labels = %d, want 3", got)
	}
	if !strings.Contains(out, "</svg>") {
		t.Error("unterminated svg")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	d := &Document{ContainerWidth: 900, Columns: 3, Rows: []grid.Row{}}
	out := string(RenderSVG(d))
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Error("empty document must still produce a valid svg shell")
	}
}

func TestToDOT(t *testing.T) {
	out := ToDOT(testDocument())

	if !strings.Contains(out, "digraph rowflow") {
		t.Error("missing digraph header")
	}
	if got := strings.Count(out, "subgraph cluster_row"); got != 2 {
		t.Errorf("clusters = %d, want 2", got)
	}
	if !strings.Contains(out, "item0 -> item1") || !strings.Contains(out, "item1 -> item2") {
		t.Error("missing order edges")
	}
	if !strings.Contains(out, `label="row 1 (h=600.0)"`) {
		t.Error("missing row label with height")
	}
}
