package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photogrid/photogrid/pkg/render"
)

// renderCommand creates the render command for producing gallery artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       packOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [dir|manifest.toml|album.json]",
		Short: "Render a photo collection as a gallery",
		Long: `Render runs the full pipeline and writes one file per requested format.
Formats: html (static gallery page), json (layout document), svg
(schematic), dot (row-flow graph), png (rasterized row-flow graph).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := render.ValidateFormats(formats); err != nil {
				return err
			}

			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			popts, err := opts.pipelineOptions(args[0], formats)
			if err != nil {
				return err
			}
			result, err := runner.Execute(cmd.Context(), popts)
			if err != nil {
				return err
			}

			printSuccess("Rendered %s", args[0])
			printStats(result.Stats.PhotoCount, result.Stats.RowCount, result.CacheInfo.RenderHit)

			base := basePath(opts.output, args[0])
			for _, format := range formats {
				path := fmt.Sprintf("%s.%s", base, format)
				if err := writeArtifact(path, result.Artifacts[format]); err != nil {
					return err
				}
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), json, svg, dot, png (comma-separated)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "image path prefix for HTML output")
	registerPackFlags(cmd, &opts)

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension, that extension is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if render.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
