package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/image"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>...",
	Short: "Show all metadata of one or more files",
	Long: `Show Exif, JFIF, XMP, IPTC and comment metadata.

Examples:
  # Everything in one file
  surgery view photo.jpg

  # Many files as JSON, eight at a time
  surgery view --workers 8 -o json *.jpg`,

	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(args)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(paths []string) error {
	slog.Debug("viewing files", "count", len(paths), "workers", settings.Workers)
	results, err := image.ViewFiles(paths, settings.Workers, settings.DecodeOptions(registry))

	found := make([]*core.Metadata, 0, len(results))
	for _, m := range results {
		if m != nil {
			logWarnings(m)
			found = append(found, m)
		}
	}
	switch {
	case printer.Structured() && len(paths) > 1:
		if perr := printer.PrintValue(found); perr != nil {
			return perr
		}
	default:
		for _, m := range found {
			if perr := printer.PrintMetadata(m); perr != nil {
				return perr
			}
		}
	}
	return err
}
