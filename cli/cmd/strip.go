package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/exif-surgery/core"
)

var (
	stripAll       bool
	stripGPS       bool
	stripThumbnail bool
	stripKeep      []string
)

var stripCmd = &cobra.Command{
	Use:   "strip <file>",
	Short: "Remove metadata for privacy or size",
	Long: `Remove metadata from a JPEG.

Without flags every Exif tag is removed and the Exif segment is kept
empty. --gps and --thumbnail remove just those directories. --keep names
the Exif tags to preserve; with --all it names segment kinds instead
(exif, xmp, iptc, icc, comment) and every other metadata segment is
dropped.

Examples:
  surgery strip --gps photo.jpg
  surgery strip --keep Orientation,Copyright photo.jpg
  surgery strip --all --keep icc --out clean.jpg photo.jpg`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStrip(args[0])
	},
}

func init() {
	rootCmd.AddCommand(stripCmd)

	stripCmd.Flags().BoolVar(&stripAll, "all", false, "drop every metadata segment")
	stripCmd.Flags().BoolVar(&stripGPS, "gps", false, "remove the GPS directory")
	stripCmd.Flags().BoolVar(&stripThumbnail, "thumbnail", false, "remove IFD1 and the embedded thumbnail")
	stripCmd.Flags().StringSliceVar(&stripKeep, "keep", nil, "tags (or, with --all, segment kinds) to preserve")

	stripCmd.MarkFlagsMutuallyExclusive("all", "gps")
	stripCmd.MarkFlagsMutuallyExclusive("all", "thumbnail")
}

func runStrip(path string) error {
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	opts := core.StripOptions{
		KeepFields:     stripKeep,
		StripGPS:       stripGPS,
		StripThumbnail: stripThumbnail,
		StripAll:       stripAll,
		DryRun:         dryRun,
	}
	before, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := h.Strip(path, outPath, opts); err != nil {
		return err
	}
	if opts.DryRun {
		printer.PrintInfo("dry run: nothing written")
		return nil
	}
	after, err := os.Stat(target(path))
	if err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("stripped %s (%d → %d bytes)", target(path), before.Size(), after.Size()))
	return nil
}
