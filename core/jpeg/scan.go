package jpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/cursor"
)

// Kind classifies a segment by its marker and identifier prefix.
type Kind int

const (
	KindOther Kind = iota
	KindExif
	KindJFIF
	KindXMP
	KindICC
	KindIPTC
)

func (k Kind) String() string {
	switch k {
	case KindExif:
		return "Exif"
	case KindJFIF:
		return "JFIF"
	case KindXMP:
		return "XMP"
	case KindICC:
		return "ICC"
	case KindIPTC:
		return "IPTC"
	}
	return "other"
}

// Identifier prefixes of the application segments we recognise.
const (
	ExifIdent = "Exif\x00\x00"
	JFIFIdent = "JFIF\x00"
	XMPIdent  = "http://ns.adobe.com/xap/1.0/\x00"
	ICCIdent  = "ICC_PROFILE\x00"
	IPTCIdent = "Photoshop 3.0\x00"
)

var identifiers = []struct {
	marker Marker
	ident  string
	kind   Kind
}{
	{APP0, JFIFIdent, KindJFIF},
	{APP1, ExifIdent, KindExif},
	{APP1, XMPIdent, KindXMP},
	{APP2, ICCIdent, KindICC},
	{APP13, IPTCIdent, KindIPTC},
}

// MaxLength is the largest value of a segment length field. It counts the
// two length bytes, so a payload is at most MaxLength-2 bytes.
const MaxLength = math.MaxUint16

// Segment is one unit of the marker stream.
type Segment struct {
	Marker Marker
	// Offset is the position of the 0xFF byte that introduces the marker.
	Offset int64
	// Length is the declared length field, 0 for standalone markers and
	// ScanData.
	Length int
	// Data is the payload after the length field, aliasing the scanned
	// buffer. For ScanData it is everything up to the end of the buffer.
	Data       []byte
	Kind       Kind
	Identifier string
}

// Metadata reports whether the segment carries metadata the IFD codec
// consumes.
func (s Segment) Metadata() bool {
	return s.Kind == KindExif || s.Kind == KindJFIF
}

// Body returns the payload following the identifier prefix. For an Exif
// segment this is the TIFF-structured payload.
func (s Segment) Body() []byte {
	return s.Data[len(s.Identifier):]
}

// End returns the offset just past the segment.
func (s Segment) End() int64 {
	switch {
	case s.Marker == ScanData:
		return s.Offset + int64(len(s.Data))
	case s.Marker.Standalone():
		return s.Offset + 2
	}
	return s.Offset + 2 + int64(s.Length)
}

func (s *Segment) classify() {
	for _, id := range identifiers {
		if s.Marker == id.marker && bytes.HasPrefix(s.Data, []byte(id.ident)) {
			s.Kind, s.Identifier = id.kind, id.ident
			return
		}
	}
}

// Scan walks buf from SOI to the start of scan and returns its segments in
// file order. The SOS header is followed by a single ScanData segment that
// covers the entropy-coded data, EOI and any trailer; none of it is
// interpreted. A buffer that ends at EOI before any SOS is accepted.
func Scan(buf []byte) ([]Segment, error) {
	if len(buf) < 2 || buf[0] != 0xFF || Marker(buf[1]) != SOI {
		return nil, core.Errorf("scan", 0, core.ErrNotAContainer, "")
	}
	c := cursor.New(buf, binary.BigEndian)
	segs := []Segment{{Marker: SOI, Offset: 0}}
	pos := int64(2)
	for {
		if pos >= int64(len(buf)) {
			return nil, core.Errorf("scan", pos, core.ErrMalformedContainer, "end of data before SOS or EOI")
		}
		if buf[pos] != 0xFF {
			return nil, core.Errorf("scan", pos, core.ErrMalformedContainer, "expected marker, found 0x%02X", buf[pos])
		}
		// 0xFF fill bytes may precede a marker.
		for pos+1 < int64(len(buf)) && buf[pos+1] == 0xFF {
			pos++
		}
		code, err := c.U8(pos + 1)
		if err != nil {
			return nil, core.Errorf("scan", pos, core.ErrMalformedContainer, "truncated marker")
		}
		m := Marker(code)
		if m == ScanData {
			return nil, core.Errorf("scan", pos, core.ErrMalformedContainer, "invalid marker 0xFF00")
		}
		start := pos
		pos += 2

		if m.Standalone() {
			segs = append(segs, Segment{Marker: m, Offset: start})
			if m == EOI {
				return appendTrailer(segs, buf, pos), nil
			}
			continue
		}

		length, err := c.U16(pos)
		if err != nil {
			return nil, core.Errorf("scan", start, core.ErrMalformedContainer, "%s length field truncated", m.Name())
		}
		if length < 2 {
			return nil, core.Errorf("scan", start, core.ErrMalformedContainer, "%s declares length %d", m.Name(), length)
		}
		data, err := c.Slice(pos+2, int64(length)-2)
		if err != nil {
			return nil, core.Errorf("scan", start, core.ErrMalformedContainer,
				"%s declares %d bytes, %d available", m.Name(), length, int64(len(buf))-pos)
		}
		seg := Segment{Marker: m, Offset: start, Length: int(length), Data: data}
		seg.classify()
		segs = append(segs, seg)
		pos += int64(length)

		if m == SOS {
			return appendTrailer(segs, buf, pos), nil
		}
	}
}

func appendTrailer(segs []Segment, buf []byte, pos int64) []Segment {
	if pos >= int64(len(buf)) {
		return segs
	}
	return append(segs, Segment{Marker: ScanData, Offset: pos, Data: buf[pos:]})
}

// Index returns the position of the first segment of kind k, or -1.
func Index(segs []Segment, k Kind) int {
	for i, s := range segs {
		if s.Kind == k {
			return i
		}
	}
	return -1
}

// ExtractExif returns the TIFF payload of the first Exif APP1 segment and
// its offset in buf.
func ExtractExif(buf []byte) ([]byte, int64, error) {
	segs, err := Scan(buf)
	if err != nil {
		return nil, 0, err
	}
	i := Index(segs, KindExif)
	if i < 0 {
		return nil, 0, core.ErrNoExif
	}
	s := segs[i]
	return s.Body(), s.Offset + 4 + int64(len(s.Identifier)), nil
}

// segmentBytes frames payload as a complete marker segment.
func segmentBytes(m Marker, ident string, payload []byte) ([]byte, error) {
	length := len(ident) + len(payload) + 2
	if length > MaxLength {
		return nil, core.Errorf("frame segment", -1, core.ErrPayloadTooLarge,
			"%s segment needs length %d, limit is %d", m.Name(), length, MaxLength)
	}
	out := make([]byte, 0, length+2)
	out = append(out, 0xFF, byte(m), byte(length>>8), byte(length))
	out = append(out, ident...)
	return append(out, payload...), nil
}

// ReplacePayload rebuilds src with the payload of segs[idx] (the bytes
// after its identifier) replaced and its length field recomputed. Every
// other byte of src is copied unchanged.
func ReplacePayload(src []byte, segs []Segment, idx int, payload []byte) ([]byte, error) {
	if idx < 0 || idx >= len(segs) {
		return nil, fmt.Errorf("replace payload: segment %d of %d", idx, len(segs))
	}
	seg := segs[idx]
	if seg.Marker == ScanData || seg.Marker.Standalone() {
		return nil, core.Errorf("replace payload", seg.Offset, core.ErrMalformedContainer, "%s has no payload", seg.Marker.Name())
	}
	framed, err := segmentBytes(seg.Marker, seg.Identifier, payload)
	if err != nil {
		return nil, err
	}
	end := seg.End()
	out := make([]byte, 0, int64(len(src))-(end-seg.Offset)+int64(len(framed)))
	out = append(out, src[:seg.Offset]...)
	out = append(out, framed...)
	return append(out, src[end:]...), nil
}

// RewriteExif replaces the payload of the first Exif APP1 segment of src
// with tiff, or inserts a new Exif segment after SOI (and after a leading
// JFIF APP0, which must stay first) when src has none.
func RewriteExif(src, tiff []byte) ([]byte, error) {
	segs, err := Scan(src)
	if err != nil {
		return nil, err
	}
	if i := Index(segs, KindExif); i >= 0 {
		return ReplacePayload(src, segs, i, tiff)
	}
	framed, err := segmentBytes(APP1, ExifIdent, tiff)
	if err != nil {
		return nil, err
	}
	at := segs[0].End()
	if len(segs) > 1 && segs[1].Kind == KindJFIF {
		at = segs[1].End()
	}
	out := make([]byte, 0, len(src)+len(framed))
	out = append(out, src[:at]...)
	out = append(out, framed...)
	return append(out, src[at:]...), nil
}

// RemoveSegments returns a copy of src without the segments for which drop
// returns true. Bytes between segments are preserved.
func RemoveSegments(src []byte, segs []Segment, drop func(Segment) bool) []byte {
	out := make([]byte, 0, len(src))
	prev := int64(0)
	for _, s := range segs {
		if s.Marker == SOI || s.Marker == ScanData || !drop(s) {
			continue
		}
		out = append(out, src[prev:s.Offset]...)
		prev = s.End()
	}
	return append(out, src[prev:]...)
}
