package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/exif-surgery/core/image"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := image.Formats()
		if printer.Structured() {
			return printer.PrintValue(infos)
		}
		rows := make([][]string, len(infos))
		for i, in := range infos {
			rows[i] = []string{in.Name, strings.Join(in.Extensions, " "), yesNo(in.CanView), yesNo(in.CanEdit), yesNo(in.CanStrip), in.Notes}
		}
		return printer.PrintTable([]string{"FORMAT", "EXTENSIONS", "VIEW", "EDIT", "STRIP", "NOTES"}, rows)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags [directory]",
	Short: "List the known tags of a directory",
	Long: `List the tag registry for one directory: IFD0 (default), IFD1, Exif,
GPS or Interop. These names are accepted by get, set, remove and
strip --keep.`,

	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns := tags.Image
		if len(args) == 1 {
			var ok bool
			if ns, ok = tags.ParseNamespace(args[0]); !ok {
				return fmt.Errorf("unknown directory %q", args[0])
			}
		}
		defs := registry.Definitions(ns)
		if printer.Structured() {
			return printer.PrintValue(defs)
		}
		rows := make([][]string, len(defs))
		for i, d := range defs {
			types := make([]string, len(d.Types))
			for k, t := range d.Types {
				types[k] = t.String()
			}
			count := "any"
			if d.Count > 0 {
				count = fmt.Sprint(d.Count)
			}
			rows[i] = []string{fmt.Sprintf("0x%04X", d.ID), d.Name, strings.Join(types, "|"), count}
		}
		return printer.PrintTable([]string{"TAG", "NAME", "TYPE", "COUNT"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd, tagsCmd)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
