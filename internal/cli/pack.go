package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photogrid/photogrid/pkg/pipeline"
	"github.com/photogrid/photogrid/pkg/render"
)

// packOpts holds the command-line flags shared by pack and render.
type packOpts struct {
	output           string  // output file path (or base path for multiple formats)
	width            float64 // container width in pixels
	columns          int     // reference column count
	rowHeight        float64 // target row height in pixels
	tolerance        float64 // row height tolerance in pixels
	preferHorizontal bool    // sort landscape photos ahead of portrait ones
	noSmooth         bool    // skip the boundary smoothing pass
	title            string  // gallery title
	baseURL          string  // image path prefix for HTML output
	noCache          bool    // bypass the layout and artifact caches
	refresh          bool    // recompute even when cached
}

// registerPackFlags wires the shared layout flags onto cmd.
func registerPackFlags(cmd *cobra.Command, opts *packOpts) {
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "container width in pixels")
	cmd.Flags().IntVarP(&opts.columns, "columns", "c", 0, "reference column count")
	cmd.Flags().Float64Var(&opts.rowHeight, "row-height", 0, "target row height in pixels")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "row height tolerance in pixels")
	cmd.Flags().BoolVar(&opts.preferHorizontal, "prefer-horizontal", false, "place landscape photos first")
	cmd.Flags().BoolVar(&opts.noSmooth, "no-smooth", false, "skip the row height smoothing pass")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "gallery title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
}

// pipelineOptions builds pipeline options from the input path, the flags,
// and the project config file.
func (o *packOpts) pipelineOptions(input string, formats []string) (pipeline.Options, error) {
	opts := sourceOptions(input)
	opts.ContainerWidth = o.width
	opts.Columns = o.columns
	opts.RowHeight = o.rowHeight
	opts.Tolerance = o.tolerance
	opts.PreferHorizontal = o.preferHorizontal
	opts.NoSmooth = o.noSmooth
	opts.Title = o.title
	opts.BaseURL = o.baseURL
	opts.Refresh = o.refresh
	opts.Formats = formats

	cfg, err := loadProjectConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	cfg.apply(&opts)
	return opts, nil
}

// packCommand creates the pack command for computing layouts.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack [dir|manifest.toml|album.json]",
		Short: "Pack photos into a justified row layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			popts, err := opts.pipelineOptions(args[0], []string{render.FormatJSON})
			if err != nil {
				return err
			}
			result, err := runner.Execute(cmd.Context(), popts)
			if err != nil {
				return err
			}

			output := opts.output
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_layout.json"
			}
			if err := writeArtifact(output, result.Artifacts[render.FormatJSON]); err != nil {
				return err
			}

			printSuccess("Packed %s", args[0])
			printStats(result.Stats.PhotoCount, result.Stats.RowCount, result.CacheInfo.PackHit)
			printFile(output)
			printNextStep("Render it", fmt.Sprintf("photogrid render %s -f html", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output layout file")
	registerPackFlags(cmd, &opts)

	return cmd
}

// writeArtifact writes data to path, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
