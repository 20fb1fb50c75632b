package grid

import "time"

// =============================================================================
// Defaults - Single Source of Truth for CLI, API, and Pipeline
// =============================================================================

const (
	// DefaultRowHeight is the target row height in pixels.
	DefaultRowHeight = 250.0

	// DefaultRowHeightTolerance is the maximum acceptable height difference
	// before an item is forced into a new row.
	DefaultRowHeightTolerance = 50.0
)

// =============================================================================
// Item - Packing Input/Output Element
// =============================================================================

// Item is a single photo slot in the grid. Ratio (height/width) drives all
// packing decisions. Width and Height are the item's pixel dimensions inside
// its row, computed by the packer from Ratio and the column width; they are
// not the photo's natural dimensions, and any values present on input are
// ignored and recomputed.
type Item struct {
	Index  int     `json:"index" bson:"index"`
	Ratio  float64 `json:"ratio" bson:"ratio"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// =============================================================================
// Row - A Horizontal Strip of the Grid
// =============================================================================

// Row is a horizontal strip of items rendered at a common height. Height is
// the arithmetic mean of the members' computed heights, an approximation
// rather than a pixel-perfect masonry height. Rows are created and filled by
// the packer and mutated afterwards only by Smooth.
type Row struct {
	Items  []Item  `json:"items" bson:"items"`
	Height float64 `json:"height" bson:"height"`
}

// meanHeight returns the arithmetic mean of the items' heights.
// Returns 0 for an empty slice.
func meanHeight(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Height
	}
	return sum / float64(len(items))
}

// =============================================================================
// Stats - Derived Row-Set Summary
// =============================================================================

// Stats summarizes a finished row set. All fields are derived strictly from
// the output rows; ProcessingTime covers the packing call only, measured with
// the monotonic clock, and is informational.
type Stats struct {
	TotalRows      int           `json:"total_rows" bson:"total_rows"`
	AvgRowHeight   float64       `json:"avg_row_height" bson:"avg_row_height"`
	MaxRowHeight   float64       `json:"max_row_height" bson:"max_row_height"`
	MinRowHeight   float64       `json:"min_row_height" bson:"min_row_height"`
	ProcessingTime time.Duration `json:"processing_time" bson:"processing_time"`
}

// =============================================================================
// Config - Packing Parameters
// =============================================================================

// Config holds the tuning parameters for Pack.
//
// PreferHorizontal is accepted for API compatibility but is not consumed by
// the packer itself: ordering by orientation, if desired, must happen before
// items are handed to Pack (see [ByOrientation]).
type Config struct {
	RowHeight          float64 `json:"row_height" bson:"row_height"`
	RowHeightTolerance float64 `json:"row_height_tolerance" bson:"row_height_tolerance"`
	PreferHorizontal   bool    `json:"prefer_horizontal" bson:"prefer_horizontal"`
}

// DefaultConfig returns the standard packing configuration.
func DefaultConfig() Config {
	return Config{
		RowHeight:          DefaultRowHeight,
		RowHeightTolerance: DefaultRowHeightTolerance,
		PreferHorizontal:   true,
	}
}

// applyDefaults fills zero-valued tuning fields with the package defaults.
func (c *Config) applyDefaults() {
	if c.RowHeight == 0 {
		c.RowHeight = DefaultRowHeight
	}
	if c.RowHeightTolerance == 0 {
		c.RowHeightTolerance = DefaultRowHeightTolerance
	}
}

// =============================================================================
// Result - Packer Output
// =============================================================================

// Result is the output of a Pack call: the ordered rows plus summary
// statistics over them.
type Result struct {
	Rows  []Row `json:"rows" bson:"rows"`
	Stats Stats `json:"stats" bson:"stats"`
}
