package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/photogrid/photogrid/pkg/album"
)

// scanCommand creates the scan command for probing photo collections.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output  string
		title   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "scan [dir|manifest.toml]",
		Short: "Probe a photo collection into an album file",
		Long: `Scan walks a photo directory (or reads a TOML manifest), probes each
image's dimensions, and writes the resulting album as JSON. Dimension
probes are cached keyed on file identity, so rescanning a large
collection is cheap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cch, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer cch.Close()

			opts := sourceOptions(args[0])
			var a *album.Album
			switch {
			case opts.Manifest != "":
				a, err = album.LoadManifest(opts.Manifest)
			default:
				sp := newSpinner(ctx, fmt.Sprintf("Scanning %s", args[0]))
				sp.Start()
				a, err = album.NewScanner(cch, nil, c.Logger).ScanDir(ctx, args[0])
				sp.Stop()
			}
			if err != nil {
				return err
			}
			if title != "" {
				a.Title = title
			}

			if output == "" {
				output = "album.json"
			}
			if err := a.WriteFile(output); err != nil {
				return err
			}

			printSuccess("Scanned %d photos", len(a.Photos))
			printFile(output)
			printNextStep("Pack it", fmt.Sprintf("photogrid pack %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output album file (default album.json)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "album title")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the probe cache")

	return cmd
}
