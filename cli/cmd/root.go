package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/config"
	"github.com/ankit-chaubey/exif-surgery/core/image"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

var (
	// Global flags
	verbose    bool
	configFile string
	outPath    string
	dryRun     bool

	v        = viper.New()
	registry = tags.New()
	settings *config.Config
	printer  *core.Printer
)

var rootCmd = &cobra.Command{
	Use:   "surgery",
	Short: "Inspect, edit and strip Exif metadata in JPEG and TIFF files",
	Long: `surgery reads and rewrites the Exif metadata of JPEG files without
touching the image data, and inspects TIFF files.

Commands:
  view        Show all metadata of one or more files
  get         Print selected Exif tags
  set         Set Exif tags
  remove      Remove Exif tags
  strip       Remove metadata for privacy or size
  segments    List the marker segments of a JPEG
  verify      Cross-check our decoder against goexif
  tags        List the known tags of a directory
  formats     List supported formats`,
	Version:           "0.2.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		core.PrintError(err.Error())
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output and debug logging")
	flags.StringVar(&configFile, "config", "", "config file (default: surgery.yaml in ., $HOME/.surgery, /etc/surgery)")
	flags.StringVar(&outPath, "out", "", "write the result here instead of editing in place")
	flags.BoolVar(&dryRun, "dry-run", false, "compute the change without writing")

	// Flags that override config keys
	flags.StringP("output", "o", core.OutputTable, "output format (table, json, yaml)")
	flags.Int("max-depth", 8, "maximum sub-IFD nesting depth")
	flags.Bool("strict", false, "fail on entries whose type disagrees with the tag registry")
	flags.Bool("skip-bad-subifds", false, "skip damaged sub-IFDs instead of failing")
	flags.Int("workers", 4, "files decoded in parallel by view")

	for key, flag := range map[string]string{
		"output":           "output",
		"max_depth":        "max-depth",
		"strict":           "strict",
		"skip_bad_subifds": "skip-bad-subifds",
		"workers":          "workers",
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(flag)))
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	settings = cfg
	if printer, err = core.NewPrinter(cfg.Output, verbose); err != nil {
		return err
	}
	slog.Debug("configuration loaded",
		"file", v.ConfigFileUsed(),
		"max_depth", cfg.MaxDepth,
		"strict", cfg.Strict,
		"skip_bad_subifds", cfg.SkipBadSubIFDs,
		"workers", cfg.Workers)
	return nil
}

// handlerFor returns the handler for the format detected at path.
func handlerFor(path string) (*image.Handler, error) {
	format, err := core.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == core.FmtUnknown {
		return nil, fmt.Errorf("%s: %w", path, core.ErrUnsupportedFormat)
	}
	slog.Debug("detected format", "file", path, "format", format)
	return image.New(format, settings.DecodeOptions(registry)), nil
}

func logWarnings(m *core.Metadata) {
	for _, w := range m.Warnings {
		slog.Warn("metadata partially decoded", "file", m.FilePath, "detail", w)
	}
}

func target(path string) string {
	return core.ResolveOutPath(path, outPath)
}
