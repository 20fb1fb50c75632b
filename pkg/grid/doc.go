// Package grid packs photos of varying aspect ratio into justified rows.
//
// The packer consumes an ordered sequence of items, each described by its
// aspect ratio (height/width), together with a container width and column
// count, and produces rows of approximately equal height. A follow-up
// smoothing pass migrates boundary items between adjacent rows to reduce
// height disparity.
//
// # Algorithm
//
// Packing is a single greedy left-to-right pass. Each item's in-row height is
// its ratio times the column width (containerWidth / columns). An item joins
// the pending row when the row is empty or when the item's height is within
// the configured tolerance of the row's running mean height; otherwise the
// pending row is closed and a new one is opened. A row's height is always the
// arithmetic mean of its members' heights.
//
// Smoothing is one corrective sweep over adjacent row pairs: when two
// neighboring rows differ by more than the tolerance, the taller row donates
// its boundary item to the shorter one, provided it has more than one item.
// This is a best-effort local repair, not a global optimum.
//
// # Usage
//
//	items := []grid.Item{{Index: 0, Ratio: 0.75}, {Index: 1, Ratio: 1.5}}
//	cfg := grid.DefaultConfig()
//	res, err := grid.Pack(items, 1200, 4, cfg)
//	if err != nil {
//	    return err
//	}
//	grid.Smooth(res.Rows, cfg.RowHeight, cfg.RowHeightTolerance)
//	res.Restat()
//
// Both Pack and Smooth are pure over their inputs and safe for concurrent use
// from multiple goroutines with distinct arguments.
package grid
