package render

import (
	"encoding/json"
	"os"

	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/grid"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatHTML: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, html, svg, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Document - Serialized Layout
// =============================================================================

// Document is the canonical serialization of a packed layout. It carries
// everything a sink needs to paint the grid: the geometry inputs, the rows,
// and the summary statistics.
type Document struct {
	Title          string     `json:"title,omitempty" bson:"title,omitempty"`
	ContainerWidth float64    `json:"container_width" bson:"container_width"`
	Columns        int        `json:"columns" bson:"columns"`
	Rows           []grid.Row `json:"rows" bson:"rows"`
	Stats          grid.Stats `json:"stats" bson:"stats"`
}

// NewDocument builds a document from a pack result and its geometry inputs.
func NewDocument(res *grid.Result, containerWidth float64, columns int) *Document {
	return &Document{
		ContainerWidth: containerWidth,
		Columns:        columns,
		Rows:           res.Rows,
		Stats:          res.Stats,
	}
}

// ItemCount returns the total number of items across all rows.
func (d *Document) ItemCount() int {
	n := 0
	for _, row := range d.Rows {
		n += len(row.Items)
	}
	return n
}

// GridHeight returns the summed height of all rows.
func (d *Document) GridHeight() float64 {
	var h float64
	for _, row := range d.Rows {
		h += row.Height
	}
	return h
}

// Marshal encodes the document as pretty-printed JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes a document from JSON.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout document")
	}
	return &d, nil
}

// WriteFile writes the document as JSON to path.
func WriteFile(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadFile loads a document from a JSON file written by WriteFile.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return nil, err
	}
	return Unmarshal(data)
}
