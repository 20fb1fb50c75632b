// Package album models collections of photos and the sources they come from.
//
// An album is an ordered list of photos with known aspect ratios. Albums can
// be built three ways:
//   - scanning a local directory of images (Scanner)
//   - loading a TOML manifest (LoadManifest)
//   - fetching from a MongoDB store (Store)
//
// The album is the input to the layout pipeline; each photo contributes one
// grid item carrying its aspect ratio.
package album

import (
	"encoding/json"
	"os"
	"time"

	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/grid"
)

// Photo is a single image in an album. Width and Height are the natural pixel
// dimensions; Ratio (height/width) may be given directly for photos whose
// files are not available locally. AspectRatio resolves whichever is set.
type Photo struct {
	Path   string  `json:"path" bson:"path" toml:"path"`
	Width  int     `json:"width,omitempty" bson:"width,omitempty" toml:"width"`
	Height int     `json:"height,omitempty" bson:"height,omitempty" toml:"height"`
	Ratio  float64 `json:"ratio,omitempty" bson:"ratio,omitempty" toml:"ratio"`
	Title  string  `json:"title,omitempty" bson:"title,omitempty" toml:"title"`
	Alt    string  `json:"alt,omitempty" bson:"alt,omitempty" toml:"alt"`
}

// AspectRatio returns the photo's height/width ratio, preferring an explicit
// Ratio over one derived from the natural dimensions. Returns 0 when neither
// is usable.
func (p Photo) AspectRatio() float64 {
	if p.Ratio > 0 {
		return p.Ratio
	}
	if p.Width > 0 && p.Height > 0 {
		return float64(p.Height) / float64(p.Width)
	}
	return 0
}

// Album is an ordered collection of photos.
type Album struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty" toml:"title"`
	Dir       string    `json:"dir,omitempty" bson:"dir,omitempty"`
	Photos    []Photo   `json:"photos" bson:"photos" toml:"photos"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Items converts the album's photos to grid items in album order.
// Photos without a usable aspect ratio are rejected rather than skipped, so
// the item index always matches the photo position.
func (a *Album) Items() ([]grid.Item, error) {
	items := make([]grid.Item, len(a.Photos))
	for i, p := range a.Photos {
		ratio := p.AspectRatio()
		if ratio <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidItem,
				"photo %d (%s): needs a positive ratio or both dimensions", i, p.Path)
		}
		items[i] = grid.Item{Index: i, Ratio: ratio}
	}
	return items, nil
}

// WriteFile writes the album as pretty-printed JSON to path.
func (a *Album) WriteFile(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadFile loads an album from a JSON file written by WriteFile.
func ReadFile(path string) (*Album, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "album file %s", path)
		}
		return nil, err
	}
	var a Album
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse album file %s", path)
	}
	return &a, nil
}
