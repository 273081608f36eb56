// Package image views, edits and strips the metadata of still images:
// JPEG (Exif, JFIF, XMP, IPTC) and TIFF, with PNG, GIF and WebP detected
// but not handled.
package image

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/cursor"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/jpeg"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// ──────────────────────────────────────────────────────────────────────────────
// Handler
// ──────────────────────────────────────────────────────────────────────────────

// Handler implements core.Handler for image formats.
type Handler struct {
	format core.FormatID
	opts   exif.DecodeOptions
	reg    *tags.Registry
}

var _ core.Handler = (*Handler)(nil)

// New returns a Handler for the given format. A nil opts.Registry is
// replaced with the built-in registry.
func New(format core.FormatID, opts exif.DecodeOptions) *Handler {
	if opts.Registry == nil {
		opts.Registry = tags.New()
	}
	return &Handler{format: format, opts: opts, reg: opts.Registry}
}

func (h *Handler) Info() core.FormatInfo {
	return formatInfo[h.format]
}

// Formats lists the capabilities of every recognised format.
func Formats() []core.FormatInfo {
	ids := []core.FormatID{core.FmtJPEG, core.FmtTIFF, core.FmtPNG, core.FmtGIF, core.FmtWebP}
	out := make([]core.FormatInfo, len(ids))
	for i, id := range ids {
		out[i] = formatInfo[id]
	}
	return out
}

var formatInfo = map[core.FormatID]core.FormatInfo{
	core.FmtJPEG: {
		Name:       "JPEG",
		Extensions: []string{".jpg", ".jpeg", ".jpe"},
		MIMETypes:  []string{"image/jpeg"},
		CanView:    true,
		CanEdit:    true,
		CanStrip:   true,
		Notes:      "Exif (all IFDs, thumbnail kept), JFIF, XMP, IPTC. Edit accepts any registry tag name.",
		EditableFields: []string{
			"Make", "Model", "Software", "Artist", "Copyright",
			"ImageDescription", "Orientation", "DateTime",
			"DateTimeOriginal", "DateTimeDigitized", "UserComment",
			"GPSLatitudeRef", "GPSLatitude", "GPSLongitudeRef", "GPSLongitude",
		},
	},
	core.FmtTIFF: {
		Name:       "TIFF",
		Extensions: []string{".tiff", ".tif"},
		MIMETypes:  []string{"image/tiff"},
		CanView:    true,
		Notes:      "IFD-based metadata. View only.",
	},
	core.FmtPNG: {
		Name:       "PNG",
		Extensions: []string{".png"},
		MIMETypes:  []string{"image/png"},
		Notes:      "Detected only.",
	},
	core.FmtGIF: {
		Name:       "GIF",
		Extensions: []string{".gif"},
		MIMETypes:  []string{"image/gif"},
		Notes:      "Detected only.",
	},
	core.FmtWebP: {
		Name:       "WebP",
		Extensions: []string{".webp"},
		MIMETypes:  []string{"image/webp"},
		Notes:      "Detected only.",
	},
}

func (h *Handler) unsupported(op string) error {
	name := string(h.format)
	if info, ok := formatInfo[h.format]; ok {
		name = info.Name
	}
	return fmt.Errorf("%s: %s: %w", op, name, core.ErrUnsupportedFormat)
}

// LoadDocument decodes the Exif metadata of a JPEG or TIFF file. A JPEG
// without an Exif segment yields core.ErrNoExif.
func (h *Handler) LoadDocument(data []byte) (*exif.Document, error) {
	switch h.format {
	case core.FmtJPEG:
		payload, off, err := jpeg.ExtractExif(data)
		if err != nil {
			return nil, err
		}
		doc, err := exif.Decode(payload, h.opts)
		if err != nil {
			return nil, fmt.Errorf("Exif segment at offset %d: %w", off, err)
		}
		doc.Source = exif.Range{Offset: off, Length: int64(len(payload))}
		return doc, nil
	case core.FmtTIFF:
		return exif.Decode(data, h.opts)
	}
	return nil, h.unsupported("decode")
}

// ──────────────────────────────────────────────────────────────────────────────
// View
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) View(path string) (*core.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return h.ViewBytes(path, data)
}

// ViewBytes is View on an in-memory file; path is only recorded.
func (h *Handler) ViewBytes(path string, data []byte) (*core.Metadata, error) {
	m := &core.Metadata{FilePath: path, Format: h.Info().Name}
	switch h.format {
	case core.FmtJPEG:
		return m, h.viewJPEG(data, m)
	case core.FmtTIFF:
		doc, err := exif.Decode(data, h.opts)
		if err != nil {
			return nil, err
		}
		h.addDocument(m, doc, false)
		return m, nil
	}
	return nil, h.unsupported("view")
}

// ─── JPEG ────────────────────────────────────────────────────────────────────

func (h *Handler) viewJPEG(data []byte, m *core.Metadata) error {
	segs, err := jpeg.Scan(data)
	if err != nil {
		return err
	}
	seenExif := false
	for _, s := range segs {
		switch s.Kind {
		case jpeg.KindJFIF:
			j, err := jpeg.ParseJFIF(s.Body())
			if err != nil {
				m.Warnings = append(m.Warnings, fmt.Sprintf("JFIF segment at offset %d: %v", s.Offset, err))
				continue
			}
			addJFIF(m, j)
		case jpeg.KindExif:
			if seenExif {
				m.Warnings = append(m.Warnings, fmt.Sprintf("ignoring extra Exif segment at offset %d", s.Offset))
				continue
			}
			seenExif = true
			doc, err := exif.Decode(s.Body(), h.opts)
			if err != nil {
				return fmt.Errorf("Exif segment at offset %d: %w", s.Offset, err)
			}
			h.addDocument(m, doc, true)
		case jpeg.KindXMP:
			parseXMPInto(s.Body(), m)
		case jpeg.KindIPTC:
			parseIPTCInto(s.Body(), m)
		case jpeg.KindICC:
			m.Fields = append(m.Fields, core.MetaField{
				Key:      "ICCProfile",
				Value:    fmt.Sprintf("%d bytes", len(s.Body())),
				Category: "ICC",
			})
		}
		if s.Marker == jpeg.COM {
			m.Fields = append(m.Fields, core.MetaField{
				Key:      "Comment",
				Value:    strings.TrimRight(string(s.Data), "\x00"),
				Category: "COM",
			})
		}
	}
	return nil
}

func addJFIF(m *core.Metadata, j *jpeg.JFIF) {
	add := func(k, v string) {
		m.Fields = append(m.Fields, core.MetaField{Key: k, Value: v, Category: "JFIF"})
	}
	add("JFIFVersion", j.Version())
	add("DensityUnit", j.Unit.String())
	add("XDensity", fmt.Sprint(j.XDensity))
	add("YDensity", fmt.Sprint(j.YDensity))
	if len(j.Thumbnail) > 0 {
		add("JFIFThumbnail", fmt.Sprintf("%dx%d RGB", j.XThumbnail, j.YThumbnail))
	}
}

// addDocument lists every entry of doc, named through the registry.
func (h *Handler) addDocument(m *core.Metadata, doc *exif.Document, editable bool) {
	_ = doc.Walk(func(ns tags.Namespace, e exif.Entry) error {
		m.Fields = append(m.Fields, core.MetaField{
			Key:      h.reg.Name(ns, e.Tag),
			Value:    doc.Text(ns, e.Tag, e.Value),
			Category: ns.String(),
			Type:     e.Value.Type().String(),
			Tag:      e.Tag,
			Editable: editable && ns != tags.Thumbnail,
		})
		return nil
	})
	if thumb, ok := doc.Thumbnail(); ok {
		m.Fields = append(m.Fields, core.MetaField{
			Key:      "ThumbnailImage",
			Value:    fmt.Sprintf("%d bytes JPEG", len(thumb)),
			Category: tags.Thumbnail.String(),
		})
	}
	var merr *multierror.Error
	if errors.As(doc.Warnings, &merr) {
		for _, w := range merr.Errors {
			m.Warnings = append(m.Warnings, w.Error())
		}
	}
}

// ─── XMP ─────────────────────────────────────────────────────────────────────

// parseXMPInto lists XMP properties: element text and non-namespace
// attributes, keyed by local name.
func parseXMPInto(data []byte, m *core.Metadata) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var current string
	add := func(name, value string) {
		m.Fields = append(m.Fields, core.MetaField{Key: "xmp:" + name, Value: value, Category: "XMP"})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" || attr.Value == "" {
					continue
				}
				add(attr.Name.Local, attr.Value)
			}
		case xml.EndElement:
			current = ""
		case xml.CharData:
			val := strings.TrimSpace(string(t))
			if val != "" && current != "" && current != "xmpmeta" && current != "RDF" {
				add(current, val)
			}
		}
	}
}

// ─── IPTC ────────────────────────────────────────────────────────────────────

var iptcFieldNames = map[byte]string{
	0x05: "ObjectName",
	0x0F: "Category",
	0x14: "SupplementalCategory",
	0x19: "Keywords",
	0x1E: "DateCreated",
	0x1F: "TimeCreated",
	0x28: "SpecialInstructions",
	0x37: "DigitalCreationDate",
	0x3C: "Byline",
	0x3E: "BylineTitle",
	0x46: "City",
	0x4E: "Province",
	0x55: "Country",
	0x67: "OriginalTransmissionReference",
	0x69: "Headline",
	0x6E: "Credit",
	0x73: "Source",
	0x74: "CopyrightNotice",
	0x76: "Contact",
	0x78: "Caption",
	0x7A: "CaptionWriter",
}

const iptcResource = 0x0404

// parseIPTCInto walks the Photoshop "8BIM" resource blocks of an APP13
// body and lists the IPTC-NAA record found in resource 0x0404. Malformed
// blocks end the walk.
func parseIPTCInto(data []byte, m *core.Metadata) {
	c := cursor.New(data, binary.BigEndian)
	pos := int64(0)
	for {
		sig, err := c.Slice(pos, 4)
		if err != nil || string(sig) != "8BIM" {
			return
		}
		resType, err := c.U16(pos + 4)
		if err != nil {
			return
		}
		nameLen, err := c.U8(pos + 6)
		if err != nil {
			return
		}
		// Pascal name, padded to an even size including the length byte.
		name := int64(nameLen) + 1
		name += name % 2
		size, err := c.U32(pos + 6 + name)
		if err != nil {
			return
		}
		block, err := c.Slice(pos+10+name, int64(size))
		if err != nil {
			return
		}
		if resType == iptcResource {
			parseIPTCBlock(block, m)
		}
		pos += 10 + name + int64(size) + int64(size%2)
	}
}

func parseIPTCBlock(data []byte, m *core.Metadata) {
	c := cursor.New(data, binary.BigEndian)
	for pos := int64(0); pos < int64(len(data)); {
		marker, _ := c.U8(pos)
		if marker != 0x1C {
			pos++
			continue
		}
		dataset, err := c.U8(pos + 2)
		if err != nil {
			return
		}
		length, err := c.U16(pos + 3)
		if err != nil {
			return
		}
		val, err := c.Slice(pos+5, int64(length))
		if err != nil {
			return
		}
		if name, ok := iptcFieldNames[dataset]; ok {
			m.Fields = append(m.Fields, core.MetaField{Key: name, Value: string(val), Category: "IPTC"})
		}
		pos += 5 + int64(length)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Edit
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) Edit(path string, outPath string, opts core.EditOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := h.EditBytes(data, opts)
	if err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}
	return os.WriteFile(core.ResolveOutPath(path, outPath), out, 0o644)
}

// EditBytes applies opts to the Exif metadata of a JPEG file and returns
// the rewritten file. A file without Exif gets a new segment.
func (h *Handler) EditBytes(data []byte, opts core.EditOptions) ([]byte, error) {
	if h.format != core.FmtJPEG {
		return nil, h.unsupported("edit")
	}
	doc, err := h.LoadDocument(data)
	if errors.Is(err, core.ErrNoExif) {
		doc, err = exif.New(binary.BigEndian), nil
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(opts.Set))
	for k := range opts.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		ns, def, err := h.ResolveField(key)
		if err != nil {
			return nil, err
		}
		var v exif.Value
		if ns == tags.Exif && def.ID == exif.UserCommentTag {
			v, err = exif.EncodeComment(opts.Set[key], doc.Order)
		} else {
			v, err = exif.ParseValue(def.Type(), opts.Set[key])
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if def.Count > 0 && def.Type() != tags.ASCII && v.Count() != def.Count {
			return nil, fmt.Errorf("%s: want %d values, got %d", key, def.Count, v.Count())
		}
		if err := doc.Set(ns, def.ID, v); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	for _, key := range opts.Delete {
		ns, def, err := h.ResolveField(key)
		if err != nil {
			return nil, err
		}
		doc.Remove(ns, def.ID)
	}

	payload, err := exif.Encode(doc)
	if err != nil {
		return nil, err
	}
	return jpeg.RewriteExif(data, payload)
}

// ResolveField maps a field key to its directory and definition. Keys are
// registry names ("Make", "GPSLatitude"), optionally qualified with a
// directory ("IFD1.XResolution").
func (h *Handler) ResolveField(key string) (tags.Namespace, tags.Definition, error) {
	name := key
	var (
		ns        tags.Namespace
		qualified bool
	)
	if prefix, rest, ok := strings.Cut(key, "."); ok {
		if ns, qualified = tags.ParseNamespace(prefix); !qualified {
			return 0, tags.Definition{}, fmt.Errorf("unknown directory %q in %q", prefix, key)
		}
		name = rest
	}
	def, ok := h.reg.Lookup(name)
	if !ok {
		return 0, tags.Definition{}, fmt.Errorf("unknown tag %q", name)
	}
	if !qualified {
		return def.Namespace, def, nil
	}
	if ns != def.Namespace && !(ns == tags.Thumbnail && def.Namespace == tags.Image) {
		return 0, tags.Definition{}, fmt.Errorf("tag %s belongs to %s, not %s", name, def.Namespace, ns)
	}
	return ns, def, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Strip
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) Strip(path string, outPath string, opts core.StripOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := h.StripBytes(data, opts)
	if err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}
	return os.WriteFile(core.ResolveOutPath(path, outPath), out, 0o644)
}

// Metadata segments removed by a full strip. APP14 (Adobe) is kept: it
// describes the colour transform of the image data.
var jpegMetaMarkers = map[jpeg.Marker]bool{
	jpeg.APP1:         true, // Exif / XMP
	jpeg.APP2:         true, // ICC profile / FlashPix
	jpeg.Marker(0xEC): true, // APP12 Picture Info
	jpeg.APP13:        true, // IPTC / Photoshop
	jpeg.COM:          true,
}

// segmentCategory is the KeepFields name that protects s from a full strip.
func segmentCategory(s jpeg.Segment) string {
	switch {
	case s.Kind == jpeg.KindExif:
		return "exif"
	case s.Kind == jpeg.KindXMP:
		return "xmp"
	case s.Kind == jpeg.KindIPTC:
		return "iptc"
	case s.Kind == jpeg.KindICC:
		return "icc"
	case s.Marker == jpeg.COM:
		return "comment"
	}
	return ""
}

// StripBytes removes metadata from a JPEG file.
//
// With StripAll every metadata segment is dropped except the categories
// named in KeepFields ("exif", "xmp", "iptc", "icc", "comment"). Otherwise
// only the Exif segment is rewritten: StripGPS and StripThumbnail remove
// those directories, and without either flag every tag not named in
// KeepFields is removed.
func (h *Handler) StripBytes(data []byte, opts core.StripOptions) ([]byte, error) {
	if h.format != core.FmtJPEG {
		return nil, h.unsupported("strip")
	}
	segs, err := jpeg.Scan(data)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(opts.KeepFields))
	for _, k := range opts.KeepFields {
		keep[strings.ToLower(k)] = true
	}

	if opts.StripAll {
		return jpeg.RemoveSegments(data, segs, func(s jpeg.Segment) bool {
			return jpegMetaMarkers[s.Marker] && !keep[segmentCategory(s)]
		}), nil
	}

	i := jpeg.Index(segs, jpeg.KindExif)
	if i < 0 {
		return data, nil
	}
	doc, err := exif.Decode(segs[i].Body(), h.opts)
	if err != nil {
		return nil, fmt.Errorf("Exif segment at offset %d: %w", segs[i].Offset, err)
	}
	switch {
	case opts.StripGPS || opts.StripThumbnail:
		if opts.StripGPS {
			doc.RemoveNamespace(tags.GPS)
		}
		if opts.StripThumbnail {
			doc.RemoveNamespace(tags.Thumbnail)
		}
	case len(keep) > 0:
		doc.Retain(func(ns tags.Namespace, e exif.Entry) bool {
			return keep[strings.ToLower(h.reg.Name(ns, e.Tag))]
		})
	default:
		doc.StripAll()
	}

	payload, err := exif.Encode(doc)
	if err != nil {
		return nil, err
	}
	return jpeg.ReplacePayload(data, segs, i, payload)
}
