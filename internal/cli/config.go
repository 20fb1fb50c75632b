package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/photogrid/photogrid/pkg/pipeline"
)

// configFile is the project configuration looked up in the working directory.
const configFile = "photogrid.toml"

// =============================================================================
// Project Configuration
// =============================================================================

// projectConfig mirrors photogrid.toml. Flags take precedence over file
// values, and file values take precedence over the built-in defaults.
type projectConfig struct {
	Layout layoutConfig `toml:"layout"`
	Output outputConfig `toml:"output"`
	Server serverConfig `toml:"server"`
}

type layoutConfig struct {
	Width            float64 `toml:"width"`
	Columns          int     `toml:"columns"`
	RowHeight        float64 `toml:"row_height"`
	Tolerance        float64 `toml:"tolerance"`
	PreferHorizontal bool    `toml:"prefer_horizontal"`
	NoSmooth         bool    `toml:"no_smooth"`
}

type outputConfig struct {
	Title   string `toml:"title"`
	BaseURL string `toml:"base_url"`
}

type serverConfig struct {
	Addr     string `toml:"addr"`
	Redis    string `toml:"redis"`
	Mongo    string `toml:"mongo"`
	Database string `toml:"database"`
}

// loadProjectConfig reads photogrid.toml from the working directory. A
// missing file is not an error and yields a zero config.
func loadProjectConfig() (projectConfig, error) {
	var cfg projectConfig
	if _, err := os.Stat(configFile); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(configFile, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply fills unset pipeline options from the config file. Boolean flags
// are enabled when set in either place.
func (p projectConfig) apply(opts *pipeline.Options) {
	if opts.ContainerWidth == 0 {
		opts.ContainerWidth = p.Layout.Width
	}
	if opts.Columns == 0 {
		opts.Columns = p.Layout.Columns
	}
	if opts.RowHeight == 0 {
		opts.RowHeight = p.Layout.RowHeight
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = p.Layout.Tolerance
	}
	opts.PreferHorizontal = opts.PreferHorizontal || p.Layout.PreferHorizontal
	opts.NoSmooth = opts.NoSmooth || p.Layout.NoSmooth
	if opts.Title == "" {
		opts.Title = p.Output.Title
	}
	if opts.BaseURL == "" {
		opts.BaseURL = p.Output.BaseURL
	}
}
