package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/photogrid/photogrid/pkg/album"
)

// galleryCSS contains the static page styles: justified flex rows, lazy
// image sizing via aspect-ratio, and dark mode through prefers-color-scheme.
const galleryCSS = `
    body { margin: 0; background: #fafafa; color: #222; font-family: system-ui, sans-serif; }
    .grid { max-width: var(--grid-width); margin: 0 auto; }
    .row { display: flex; }
    .row img, .row .ph { display: block; flex: 1 1 0; object-fit: cover; min-width: 0; cursor: pointer; }
    .ph { background: #d4d4d4; }
    @media (prefers-color-scheme: dark) {
      body { background: #111; color: #ddd; }
      .ph { background: #333; }
    }`

// lightboxCSS styles the lightbox dialog; emitted only when the lightbox
// itself is.
const lightboxCSS = `
    dialog.lightbox { border: none; padding: 0; background: transparent; max-width: 92vw; max-height: 92vh; }
    dialog.lightbox::backdrop { background: rgba(0, 0, 0, 0.85); }
    dialog.lightbox img { max-width: 92vw; max-height: 92vh; display: block; }`

// galleryJS wires every grid image to the shared lightbox dialog.
const galleryJS = `
    const box = document.querySelector('dialog.lightbox');
    const boxImg = box.querySelector('img');
    document.querySelectorAll('.row img').forEach(el => {
      el.addEventListener('click', () => {
        boxImg.src = el.dataset.full || el.src;
        boxImg.alt = el.alt;
        box.showModal();
      });
    });
    box.addEventListener('click', () => box.close());`

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	album    *album.Album
	baseURL  string
	lightbox bool
}

// WithAlbum attaches the source album so images render with real paths, alt
// text, and titles. Without this, items render as placeholder blocks.
func WithAlbum(a *album.Album) HTMLOption { return func(r *htmlRenderer) { r.album = a } }

// WithBaseURL prefixes every image path, for galleries served from a CDN or
// subdirectory.
func WithBaseURL(base string) HTMLOption { return func(r *htmlRenderer) { r.baseURL = base } }

// WithoutLightbox omits the lightbox dialog and its script.
func WithoutLightbox() HTMLOption { return func(r *htmlRenderer) { r.lightbox = false } }

// RenderHTML renders the document as a self-contained static gallery page.
// Rows become flex strips whose children share the row height; each image
// carries loading="lazy" and its aspect ratio so the browser reserves space
// before the file arrives.
func RenderHTML(d *Document, opts ...HTMLOption) []byte {
	r := htmlRenderer{lightbox: true}
	for _, opt := range opts {
		opt(&r)
	}

	title := d.Title
	if title == "" && r.album != nil {
		title = r.album.Title
	}
	if title == "" {
		title = "Gallery"
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	buf.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(title))
	css := galleryCSS
	if r.lightbox {
		css += lightboxCSS
	}
	fmt.Fprintf(&buf, "  <style>\n    :root { --grid-width: %.0fpx; }%s\n  </style>\n", d.ContainerWidth, css)
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<div class=\"grid\">\n")

	for _, row := range d.Rows {
		fmt.Fprintf(&buf, "  <div class=\"row\" style=\"height:%.1fpx\">\n", row.Height)
		for _, it := range row.Items {
			photo := r.photoFor(it.Index)
			if photo == nil {
				fmt.Fprintf(&buf, "    <div class=\"ph\" style=\"aspect-ratio:%.4f\"></div>\n", safeAspect(it.Ratio))
				continue
			}
			src := html.EscapeString(r.baseURL + photo.Path)
			alt := photo.Alt
			if alt == "" {
				alt = photo.Title
			}
			fmt.Fprintf(&buf, "    <img src=%q alt=%q loading=\"lazy\" style=\"aspect-ratio:%.4f\">\n",
				src, html.EscapeString(alt), safeAspect(it.Ratio))
		}
		buf.WriteString("  </div>\n")
	}

	buf.WriteString("</div>\n")
	if r.lightbox {
		buf.WriteString("<dialog class=\"lightbox\"><img alt=\"\"></dialog>\n")
		fmt.Fprintf(&buf, "<script>%s\n</script>\n", galleryJS)
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

// photoFor resolves the album photo backing an item index, or nil when no
// album is attached or the index is out of range.
func (r *htmlRenderer) photoFor(index int) *album.Photo {
	if r.album == nil || index < 0 || index >= len(r.album.Photos) {
		return nil
	}
	return &r.album.Photos[index]
}

// safeAspect converts a height/width ratio to the CSS width/height form,
// guarding against zero.
func safeAspect(ratio float64) float64 {
	if ratio <= 0 {
		return 1
	}
	return 1 / ratio
}
