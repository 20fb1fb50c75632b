package grid

import "math"

// Smooth performs a single corrective sweep over adjacent row pairs, moving
// one boundary item from the taller row to the shorter one wherever the height
// difference exceeds tolerance. Rows are mutated in place.
//
// For each pair (i, i+1) whose heights differ by more than tolerance:
//   - if row i is taller and has more than one item, its last item moves to
//     the front of row i+1;
//   - else if row i+1 is taller and has more than one item, its first item
//     moves to the end of row i;
//   - else the taller row has only one item and the imbalance is accepted.
//
// After a move both rows' heights are recomputed as the mean of their member
// heights. The sweep runs once, left to right, with no re-iteration: a move
// can make a later pair's difference worse, which is accepted as best-effort
// local repair. At most one item crosses each boundary, and intra-row order
// is preserved, so the overall item order never changes.
//
// targetHeight is accepted for callers that tune tolerance relative to a
// target; the comparisons themselves use only tolerance and the two rows'
// heights.
func Smooth(rows []Row, targetHeight, tolerance float64) {
	_ = targetHeight

	for i := 0; i+1 < len(rows); i++ {
		a, b := &rows[i], &rows[i+1]
		if math.Abs(a.Height-b.Height) <= tolerance {
			continue
		}

		switch {
		case a.Height > b.Height && len(a.Items) > 1:
			last := a.Items[len(a.Items)-1]
			a.Items = a.Items[:len(a.Items)-1]
			b.Items = append([]Item{last}, b.Items...)
		case b.Height > a.Height && len(b.Items) > 1:
			first := b.Items[0]
			b.Items = b.Items[1:]
			a.Items = append(a.Items, first)
		default:
			// The taller row has a single item; nothing to donate.
			continue
		}

		a.Height = meanHeight(a.Items)
		b.Height = meanHeight(b.Items)
	}
}

// Restat recomputes the summary statistics from the current rows. Call it
// after Smooth has moved items between rows; every consumer of a smoothed
// result must do so, or the stats describe rows that no longer exist.
// ProcessingTime is preserved, and an empty row set leaves the stats zero.
func (r *Result) Restat() {
	r.Stats.TotalRows = len(r.Rows)
	r.Stats.AvgRowHeight = 0
	r.Stats.MaxRowHeight = 0
	r.Stats.MinRowHeight = 0
	if len(r.Rows) == 0 {
		return
	}

	r.Stats.MinRowHeight = math.Inf(1)
	var sum float64
	for _, row := range r.Rows {
		sum += row.Height
		if row.Height > r.Stats.MaxRowHeight {
			r.Stats.MaxRowHeight = row.Height
		}
		if row.Height < r.Stats.MinRowHeight {
			r.Stats.MinRowHeight = row.Height
		}
	}
	r.Stats.AvgRowHeight = sum / float64(len(r.Rows))
}
