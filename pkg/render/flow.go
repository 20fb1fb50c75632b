package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/photogrid/photogrid/pkg/errors"
)

// ===== Row-Flow Graph =====

// ToDOT emits a Graphviz DOT graph showing how items flowed into rows: one
// node per item, one cluster per row, edges along the original item order.
// Intended for debugging layout decisions.
func ToDOT(d *Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph rowflow {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=lightyellow, fontname=\"Helvetica\"];\n")

	for ri, row := range d.Rows {
		fmt.Fprintf(&buf, "  subgraph cluster_row%d {\n", ri)
		fmt.Fprintf(&buf, "    label=\"row %d (h=%.1f)\";\n", ri, row.Height)
		buf.WriteString("    style=rounded;\n")
		for _, it := range row.Items {
			fmt.Fprintf(&buf, "    item%d [label=\"#%d\\nr=%.2f\"];\n", it.Index, it.Index, it.Ratio)
		}
		buf.WriteString("  }\n")
	}

	// Edges follow the original ordering across row boundaries.
	prev := -1
	for _, row := range d.Rows {
		for _, it := range row.Items {
			if prev >= 0 {
				fmt.Fprintf(&buf, "  item%d -> item%d;\n", prev, it.Index)
			}
			prev = it.Index
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderPNG rasterizes the row-flow graph to PNG bytes.
func RenderPNG(ctx context.Context, d *Document) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(d)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse row-flow graph")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render row-flow png")
	}
	return buf.Bytes(), nil
}
