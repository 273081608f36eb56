package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/exif-surgery/core"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <tag>...",
	Short: "Print selected Exif tags",
	Long: `Print the value of Exif tags by name. A name may be qualified with
its directory (IFD0, IFD1, Exif, GPS, Interop) to pick the thumbnail IFD.

Examples:
  surgery get photo.jpg Make Model DateTimeOriginal
  surgery get photo.jpg IFD1.XResolution`,

	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(args[0], args[1:])
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <tag=value>...",
	Short: "Set Exif tags",
	Long: `Set Exif tags by name. Values are parsed with the tag's registered
type: lists are comma separated, rationals are written n/d.

Examples:
  surgery set photo.jpg Artist="Jane Doe" Orientation=6
  surgery set photo.jpg GPSLatitudeRef=N GPSLatitude="51/1, 30/1, 0/1"
  surgery set --out copy.jpg photo.jpg Software=surgery`,

	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set := make(map[string]string, len(args)-1)
		for _, kv := range args[1:] {
			k, val, ok := core.ParseKV(kv)
			if !ok {
				return fmt.Errorf("expected tag=value, got %q", kv)
			}
			set[k] = val
		}
		return runEdit(args[0], core.EditOptions{Set: set, DryRun: dryRun})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <file> <tag>...",
	Short: "Remove Exif tags",
	Long: `Remove Exif tags by name. Directories left empty are dropped.

Examples:
  surgery remove photo.jpg SerialNumber OwnerName`,

	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(args[0], core.EditOptions{Delete: args[1:], DryRun: dryRun})
	},
}

func init() {
	rootCmd.AddCommand(getCmd, setCmd, removeCmd)
}

type tagValue struct {
	Tag       string `json:"tag" yaml:"tag"`
	Directory string `json:"directory" yaml:"directory"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Value     string `json:"value" yaml:"value"`
	Present   bool   `json:"present" yaml:"present"`
}

func runGet(path string, keys []string) error {
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := h.LoadDocument(data)
	if err != nil {
		return err
	}

	values := make([]tagValue, 0, len(keys))
	for _, key := range keys {
		ns, def, err := h.ResolveField(key)
		if err != nil {
			return err
		}
		tv := tagValue{Tag: def.Name, Directory: ns.String()}
		if val, ok := doc.Get(ns, def.ID); ok {
			tv.Type, tv.Value, tv.Present = val.Type().String(), doc.Text(ns, def.ID, val), true
		}
		values = append(values, tv)
	}

	if printer.Structured() {
		return printer.PrintValue(values)
	}
	rows := make([][]string, len(values))
	for i, tv := range values {
		val := tv.Value
		if !tv.Present {
			val = "(not set)"
		}
		rows[i] = []string{tv.Tag, tv.Directory, tv.Type, val}
	}
	return printer.PrintTable([]string{"TAG", "DIRECTORY", "TYPE", "VALUE"}, rows)
}

func runEdit(path string, opts core.EditOptions) error {
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	if err := h.Edit(path, outPath, opts); err != nil {
		return err
	}
	changes := len(opts.Set) + len(opts.Delete)
	if opts.DryRun {
		printer.PrintInfo(fmt.Sprintf("dry run: %d change(s) validated, nothing written", changes))
		return nil
	}
	printer.PrintSuccess(fmt.Sprintf("%d change(s) written to %s", changes, target(path)))
	return nil
}
