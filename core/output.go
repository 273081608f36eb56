package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by the printer.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Printer handles all display output for the CLI.
type Printer struct {
	Format  string
	Verbose bool
	Writer  io.Writer
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter(format string, verbose bool) (*Printer, error) {
	switch format {
	case "", OutputTable:
		format = OutputTable
	case OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return &Printer{Format: format, Verbose: verbose, Writer: os.Stdout}, nil
}

// Structured reports whether output is machine readable.
func (p *Printer) Structured() bool {
	return p.Format == OutputJSON || p.Format == OutputYAML
}

// PrintMetadata renders a Metadata struct to the configured output.
func (p *Printer) PrintMetadata(m *Metadata) error {
	if p.Structured() {
		return p.PrintValue(m)
	}
	p.printText(m)
	return nil
}

func (p *Printer) printText(m *Metadata) {
	fmt.Fprintf(p.Writer, "File  : %s\n", m.FilePath)
	fmt.Fprintf(p.Writer, "Format: %s\n", m.Format)
	for _, w := range m.Warnings {
		fmt.Fprintf(p.Writer, "Warning: %s\n", w)
	}
	if len(m.Fields) == 0 {
		fmt.Fprintln(p.Writer, "(no metadata found)")
		return
	}
	fmt.Fprintln(p.Writer)

	// Group by category
	groups := make(map[string][]MetaField)
	order := []string{}
	for _, f := range m.Fields {
		if _, ok := groups[f.Category]; !ok {
			order = append(order, f.Category)
		}
		groups[f.Category] = append(groups[f.Category], f)
	}

	for _, cat := range order {
		fmt.Fprintf(p.Writer, "── %s ──\n", cat)
		for _, f := range groups[cat] {
			edit := ""
			if f.Editable {
				edit = " [editable]"
			}
			if p.Verbose && f.Type != "" {
				fmt.Fprintf(p.Writer, "  %-30s %s%s  (0x%04X %s)\n", f.Key+":", f.Value, edit, f.Tag, f.Type)
				continue
			}
			fmt.Fprintf(p.Writer, "  %-30s %s%s\n", f.Key+":", f.Value, edit)
		}
		fmt.Fprintln(p.Writer)
	}
}

// PrintValue writes v as JSON or YAML. In table mode it falls back to
// JSON.
func (p *Printer) PrintValue(v any) error {
	if p.Format == OutputYAML {
		encoder := yaml.NewEncoder(p.Writer)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(v)
	}
	encoder := json.NewEncoder(p.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// PrintTable writes aligned rows under header.
func (p *Printer) PrintTable(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(p.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(rule, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}

// PrintSuccess prints a success message.
func (p *Printer) PrintSuccess(msg string) {
	if p.Structured() {
		return
	}
	fmt.Fprintln(p.Writer, "✓ "+msg)
}

// PrintInfo prints an info line (suppressed in structured modes).
func (p *Printer) PrintInfo(msg string) {
	if !p.Structured() {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}

// ParseKV parses a "Key=Value" string.
func ParseKV(s string) (key, value string, ok bool) {
	idx := strings.Index(s, "=")
	if idx < 1 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
}

// ResolveOutPath returns dst if non-empty, otherwise src (in-place).
func ResolveOutPath(src, dst string) string {
	if dst == "" {
		return src
	}
	return dst
}
