package render

import (
	"bytes"
	"fmt"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	gap    float64
}

// WithLabels draws each item's index in the middle of its rectangle.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithGap inserts a gutter (in pixels) between items and rows.
func WithGap(px float64) SVGOption { return func(r *svgRenderer) { r.gap = px } }

// RenderSVG renders the document as a schematic of the row geometry: one
// rectangle per item at its computed position, rows stacked top to bottom.
// Useful for eyeballing a layout without the photos themselves.
func RenderSVG(d *Document, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	totalHeight := d.GridHeight() + r.gap*float64(len(d.Rows)-1)
	if totalHeight < 0 {
		totalHeight = 0
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		d.ContainerWidth, totalHeight, d.ContainerWidth, totalHeight)

	y := 0.0
	for ri, row := range d.Rows {
		x := 0.0
		for _, it := range row.Items {
			w := it.Width - r.gap
			if w < 0 {
				w = it.Width
			}
			fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="hsl(%d, 45%%, 72%%)" stroke="#444" stroke-width="0.5"/>`+"\n",
				x, y, w, row.Height, (ri*53)%360)
			if r.labels {
				fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="12" text-anchor="middle" dominant-baseline="middle">%d</text>`+"\n",
					x+w/2, y+row.Height/2, it.Index)
			}
			x += it.Width
		}
		y += row.Height + r.gap
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
