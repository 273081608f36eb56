package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ankit-chaubey/exif-surgery/core/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Cross-check our decoder against goexif",
	Long: `Decode the Exif metadata of a file with both the built-in codec and
the independent goexif parser and report every field on which they
disagree. Exits non-zero when a mismatch is found.

Example:
  surgery set photo.jpg Artist=Ada && surgery verify photo.jpg`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args[0])
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(path string) error {
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
	report, err := verify.Check(data, doc, registry)
	if err != nil {
		return err
	}

	if printer.Structured() {
		if err := printer.PrintValue(report); err != nil {
			return err
		}
	} else {
		if report.Warning != "" {
			printer.PrintInfo("goexif warning: " + report.Warning)
		}
		for _, m := range report.Mismatches {
			printer.PrintInfo("  " + m.String())
		}
		if report.OK() {
			printer.PrintSuccess(fmt.Sprintf("%d field(s) agree", report.Checked))
		}
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d field(s) disagree", len(report.Mismatches), report.Checked)
	}
	return nil
}
