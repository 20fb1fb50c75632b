package album

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/photogrid/photogrid/pkg/errors"
)

// manifest is the TOML document shape for album manifests:
//
//	title = "Iceland 2024"
//
//	[[photos]]
//	path = "img/glacier.jpg"
//	width = 4000
//	height = 3000
//
//	[[photos]]
//	path = "img/puffin.jpg"
//	ratio = 1.5
//	title = "Puffin"
type manifest struct {
	Title  string  `toml:"title"`
	Photos []Photo `toml:"photos"`
}

// LoadManifest reads a TOML album manifest. Every photo must carry either a
// positive ratio or both natural dimensions.
func LoadManifest(path string) (*Album, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}

	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", path)
	}
	if len(m.Photos) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %s declares no photos", path)
	}
	for i, p := range m.Photos {
		if p.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "photo %d: path is required", i)
		}
		if p.AspectRatio() <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"photo %d (%s): needs a positive ratio or both dimensions", i, p.Path)
		}
	}

	return &Album{
		ID:     uuid.NewString(),
		Title:  m.Title,
		Photos: m.Photos,
	}, nil
}
