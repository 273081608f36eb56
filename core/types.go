// Package core defines the shared types, error taxonomy and format
// detection for exif-surgery.
package core

// MetaField represents a single metadata key-value pair. Category is the
// directory or segment the field came from ("IFD0", "Exif", "GPS", "JFIF",
// "XMP", ...); Type and Tag are set for IFD fields only.
type MetaField struct {
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
	Category string `json:"category" yaml:"category"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Tag      uint16 `json:"tag,omitempty" yaml:"tag,omitempty"`
	Editable bool   `json:"editable" yaml:"editable"`
}

// Metadata holds all metadata extracted from a single file.
type Metadata struct {
	FilePath string      `json:"file" yaml:"file"`
	Format   string      `json:"format" yaml:"format"`
	Fields   []MetaField `json:"fields" yaml:"fields"`
	// Warnings lists directories that were skipped while decoding.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Summary returns a short string of key fields for quick display.
func (m *Metadata) Summary() string {
	for _, f := range m.Fields {
		if f.Key == "Make" || f.Key == "Model" || f.Key == "DateTimeOriginal" {
			return f.Key + ": " + f.Value
		}
	}
	return m.Format
}

// Field returns the first field named key.
func (m *Metadata) Field(key string) (MetaField, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return MetaField{}, false
}

// StripOptions controls which parts of metadata to remove.
type StripOptions struct {
	// KeepFields lists field keys that should NOT be removed.
	KeepFields []string
	// StripGPS removes the GPS directory only (for privacy).
	StripGPS bool
	// StripThumbnail removes IFD1 and its embedded JPEG.
	StripThumbnail bool
	// StripAll removes every metadata segment from the container.
	StripAll bool
	// DryRun reports what would be removed without writing.
	DryRun bool
}

// EditOptions holds field changes for an edit operation.
type EditOptions struct {
	// Set is a map of Key → Value for fields to set or update.
	Set map[string]string
	// Delete is a list of field keys to remove.
	Delete []string
	// DryRun previews changes without writing.
	DryRun bool
}

// FormatInfo describes what a format handler supports.
type FormatInfo struct {
	Name           string   `json:"name" yaml:"name"`
	Extensions     []string `json:"extensions" yaml:"extensions"`
	MIMETypes      []string `json:"mime_types" yaml:"mime_types"`
	CanView        bool     `json:"can_view" yaml:"can_view"`
	CanEdit        bool     `json:"can_edit" yaml:"can_edit"`
	CanStrip       bool     `json:"can_strip" yaml:"can_strip"`
	EditableFields []string `json:"editable_fields,omitempty" yaml:"editable_fields,omitempty"`
	Notes          string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Handler is the interface every format must implement.
type Handler interface {
	// View reads and returns all discoverable metadata from path.
	View(path string) (*Metadata, error)
	// Edit writes new/updated fields into path, saving to outPath.
	// outPath == "" means in-place edit.
	Edit(path string, outPath string, opts EditOptions) error
	// Strip removes metadata from path, saving to outPath.
	Strip(path string, outPath string, opts StripOptions) error
	// Info returns format capabilities.
	Info() FormatInfo
}
