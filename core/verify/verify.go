// Package verify cross-checks a decoded Exif document against the
// independent goexif parser.
package verify

import (
	"bytes"
	"fmt"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// Mismatch is one field on which the two decoders disagree.
type Mismatch struct {
	Field     string         `json:"field" yaml:"field"`
	Namespace tags.Namespace `json:"-" yaml:"-"`
	Tag       uint16         `json:"tag" yaml:"tag"`
	Reason    string         `json:"reason" yaml:"reason"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s (0x%04X): %s", m.Field, m.Tag, m.Reason)
}

// Report is the outcome of Check.
type Report struct {
	// Checked counts the goexif fields compared against the document.
	Checked    int        `json:"checked" yaml:"checked"`
	Mismatches []Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
	// Warning holds a non-critical goexif error, such as a sub-IFD it
	// could not load.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// OK reports whether no mismatch was found.
func (r *Report) OK() bool { return len(r.Mismatches) == 0 }

// Directory pointers and image data offsets are layout, not content.
var skipped = map[uint16]bool{
	tags.ExifPointer:    true,
	tags.GPSPointer:     true,
	tags.InteropPointer: true,
}

func init() {
	for _, pair := range tags.ImagePairs {
		skipped[pair.OffsetTag] = true
	}
}

// Check decodes file (a JPEG, or a bare TIFF) with goexif and compares
// every field goexif reports with the corresponding entry of doc: type,
// count and encoded bytes must agree. The thumbnail bytes are compared
// too.
func Check(file []byte, doc *exif.Document, reg *tags.Registry) (*Report, error) {
	x, err := goexif.Decode(bytes.NewReader(file))
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		return nil, fmt.Errorf("goexif: %w", err)
	}
	if reg == nil {
		reg = tags.New()
	}
	c := &checker{doc: doc, reg: reg, report: &Report{}}
	if err != nil {
		c.report.Warning = err.Error()
	}
	if err := x.Walk(c); err != nil {
		return nil, err
	}
	c.checkThumbnail(x)
	return c.report, nil
}

type checker struct {
	doc    *exif.Document
	reg    *tags.Registry
	report *Report
}

func (c *checker) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	if skipped[tag.Id] {
		return nil
	}
	c.report.Checked++
	ns, v, ok := c.find(string(name), tag.Id)
	if !ok {
		c.mismatch(string(name), ns, tag.Id, "missing from document")
		return nil
	}
	if uint16(v.Type()) != uint16(tag.Type) {
		c.mismatch(string(name), ns, tag.Id, fmt.Sprintf("type %s, goexif has %d", v.Type(), tag.Type))
		return nil
	}
	if v.Count() != tag.Count {
		c.mismatch(string(name), ns, tag.Id, fmt.Sprintf("count %d, goexif has %d", v.Count(), tag.Count))
		return nil
	}
	raw, err := exif.Marshal(v, c.doc.Order)
	if err != nil {
		return err
	}
	if !bytes.Equal(raw, tag.Val) {
		c.mismatch(string(name), ns, tag.Id, fmt.Sprintf("value %q, goexif has %s", exif.Format(v), tag))
	}
	return nil
}

// find locates the document entry for a goexif field. goexif files IFD0
// and Exif tags in one table, so a name our registry does not know is
// looked up by ID in the directories it could have come from.
func (c *checker) find(name string, id uint16) (tags.Namespace, exif.Value, bool) {
	if def, ok := c.reg.Lookup(name); ok && def.ID == id {
		if v, ok := c.doc.Get(def.Namespace, id); ok {
			return def.Namespace, v, true
		}
	}
	candidates := []tags.Namespace{tags.Image, tags.Exif}
	switch {
	case strings.HasPrefix(name, "GPS"):
		candidates = []tags.Namespace{tags.GPS}
	case strings.HasPrefix(name, "Interoperability"):
		candidates = []tags.Namespace{tags.Interop}
	case strings.HasPrefix(name, "Thumb"):
		candidates = []tags.Namespace{tags.Thumbnail}
	}
	for _, ns := range candidates {
		if v, ok := c.doc.Get(ns, id); ok {
			return ns, v, true
		}
	}
	return candidates[0], nil, false
}

func (c *checker) checkThumbnail(x *goexif.Exif) {
	ours, have := c.doc.Thumbnail()
	theirs, err := x.JpegThumbnail()
	switch {
	case !have && err != nil:
	case have && err != nil:
		c.mismatch("ThumbnailImage", tags.Thumbnail, 0x0201, "goexif found no thumbnail")
	case !have:
		c.mismatch("ThumbnailImage", tags.Thumbnail, 0x0201, "missing from document")
	case !bytes.Equal(ours, theirs):
		c.mismatch("ThumbnailImage", tags.Thumbnail, 0x0201,
			fmt.Sprintf("%d bytes, goexif has %d", len(ours), len(theirs)))
	}
}

func (c *checker) mismatch(field string, ns tags.Namespace, id uint16, reason string) {
	c.report.Mismatches = append(c.report.Mismatches, Mismatch{Field: field, Namespace: ns, Tag: id, Reason: reason})
}
