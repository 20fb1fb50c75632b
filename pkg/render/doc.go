// Package render turns packed layouts into output artifacts.
//
// # Overview
//
// The package defines the Document type — the serialized form of a packed
// layout — and a sink per output format:
//
//   - JSON: the canonical data interchange format; round-trips for
//     re-rendering and for the HTTP API
//   - HTML: a static gallery page with justified rows and lazy-loaded images
//   - SVG: a schematic of the row geometry for quick visual inspection
//   - DOT/PNG: a row-flow graph for debugging item assignment, rendered
//     in-process with Graphviz
//
// # Usage
//
//	doc := render.NewDocument(res, 1200, 4)
//	page := render.RenderHTML(doc, render.WithAlbum(a))
//	svg := render.RenderSVG(doc)
//	data, err := render.Marshal(doc)
//
// Sinks are pure functions over the document; none of them mutate it.
package render
