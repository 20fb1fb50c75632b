package grid

import (
	"math"
	"time"

	"github.com/photogrid/photogrid/pkg/errors"
)

// Pack assigns items to justified rows using a single greedy left-to-right
// pass. Every input item appears in exactly one output row, in input order.
//
// The column width is containerWidth / columns; each item's in-row height is
// its ratio times the column width. An empty pending row accepts the first
// candidate unconditionally. A non-empty pending row accepts a candidate only
// when the absolute difference between the row's running mean height and the
// candidate's height is within cfg.RowHeightTolerance; otherwise the pending
// row is closed and a new one opened with the candidate.
//
// A zero-length items slice returns an empty result without computation.
// Invalid input (nil items, non-positive containerWidth, columns < 1, or an
// item with a non-positive ratio) fails fast with a structured error and no
// partial result.
func Pack(items []Item, containerWidth float64, columns int, cfg Config) (*Result, error) {
	if items == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "items is required")
	}
	if containerWidth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "container width must be positive, got %v", containerWidth)
	}
	if columns < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "columns must be at least 1, got %d", columns)
	}
	cfg.applyDefaults()

	if len(items) == 0 {
		return &Result{Rows: []Row{}}, nil
	}

	start := time.Now()
	columnWidth := containerWidth / float64(columns)

	res := &Result{Rows: make([]Row, 0, len(items))}
	res.Stats.MinRowHeight = math.Inf(1)

	var pending Row
	for i, it := range items {
		if it.Ratio <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidItem, "item %d: ratio must be positive, got %v", i, it.Ratio)
		}
		it.Width = columnWidth
		it.Height = it.Ratio * columnWidth

		switch {
		case len(pending.Items) == 0:
			pending.Items = append(pending.Items, it)
			pending.Height = it.Height
		case math.Abs(pending.Height-it.Height) <= cfg.RowHeightTolerance:
			pending.Items = append(pending.Items, it)
			pending.Height = meanHeight(pending.Items)
		default:
			res.closeRow(pending)
			pending = Row{Items: []Item{it}, Height: it.Height}
		}
	}
	if len(pending.Items) > 0 {
		res.closeRow(pending)
	}

	res.Stats.AvgRowHeight = res.heightSum() / float64(len(res.Rows))
	res.Stats.ProcessingTime = time.Since(start)
	return res, nil
}

// closeRow appends a finished row and updates the running totals and the
// min/max height trackers.
func (r *Result) closeRow(row Row) {
	r.Rows = append(r.Rows, row)
	r.Stats.TotalRows++
	if row.Height > r.Stats.MaxRowHeight {
		r.Stats.MaxRowHeight = row.Height
	}
	if row.Height < r.Stats.MinRowHeight {
		r.Stats.MinRowHeight = row.Height
	}
}

// heightSum returns the sum of all row heights.
func (r *Result) heightSum() float64 {
	var sum float64
	for _, row := range r.Rows {
		sum += row.Height
	}
	return sum
}

// ByOrientation returns a copy of items stably partitioned by orientation:
// with horizontal true, landscape items (ratio < 1) come first, then portrait
// and square items; with horizontal false, the partition is reversed. The
// relative order within each partition is preserved.
//
// This is the pre-pass that honors Config.PreferHorizontal; the packer itself
// never reorders items.
func ByOrientation(items []Item, horizontal bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if (it.Ratio < 1) == horizontal {
			out = append(out, it)
		}
	}
	for _, it := range items {
		if (it.Ratio < 1) != horizontal {
			out = append(out, it)
		}
	}
	return out
}
