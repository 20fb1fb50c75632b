// Package cli implements the photogrid command-line interface.
//
// This package provides commands for scanning photo collections, packing
// them into justified grid layouts, rendering galleries, and serving the
// layout API. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - scan: Probe a photo directory or manifest into an album file
//   - pack: Compute a justified row layout for an album
//   - render: Generate HTML, SVG, DOT, or PNG output from a layout
//   - preview: Explore a layout interactively in the terminal
//   - serve: Run the HTTP layout API
//   - cache: Manage the pipeline cache
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/photogrid/photogrid/pkg/buildinfo"
	"github.com/photogrid/photogrid/pkg/cache"
	"github.com/photogrid/photogrid/pkg/pipeline"
	"github.com/photogrid/photogrid/pkg/render"
)

// appName is the application name used for directories and display.
const appName = "photogrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "photogrid",
		Short:        "Photogrid packs photos into justified gallery layouts",
		Long:         `Photogrid is a CLI tool for arranging photo collections into responsive, justified grid layouts and rendering them as static galleries.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/photogrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatHTML}
	}
	return strings.Split(s, ",")
}

// sourceOptions maps the shared source flags onto pipeline options. The
// input argument is treated as a manifest when it ends in .toml, a saved
// album when it ends in .json, and a photo directory otherwise.
func sourceOptions(input string) pipeline.Options {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".toml":
		return pipeline.Options{Manifest: input}
	case ".json":
		return pipeline.Options{AlbumFile: input}
	default:
		return pipeline.Options{Dir: input}
	}
}

// openOutput opens path for writing, creating parent directories as needed.
func openOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
