package tags

import "fmt"

// Type is a TIFF field data type code.
type Type uint16

// TIFF 6.0 data types.
const (
	Byte      Type = 1
	ASCII     Type = 2
	Short     Type = 3
	Long      Type = 4
	Rational  Type = 5
	SByte     Type = 6
	Undefined Type = 7
	SShort    Type = 8
	SLong     Type = 9
	SRational Type = 10
	Float     Type = 11
	Double    Type = 12
)

var typeNames = [...]string{
	Byte:      "Byte",
	ASCII:     "ASCII",
	Short:     "Short",
	Long:      "Long",
	Rational:  "Rational",
	SByte:     "SByte",
	Undefined: "Undefined",
	SShort:    "SShort",
	SLong:     "SLong",
	SRational: "SRational",
	Float:     "Float",
	Double:    "Double",
}

var typeSizes = [...]uint32{
	Byte:      1,
	ASCII:     1,
	Short:     2,
	Long:      4,
	Rational:  8,
	SByte:     1,
	Undefined: 1,
	SShort:    2,
	SLong:     4,
	SRational: 8,
	Float:     4,
	Double:    8,
}

// Valid reports whether t is one of the twelve TIFF 6.0 types.
func (t Type) Valid() bool {
	return t >= Byte && t <= Double
}

// Size returns the byte size of one value of type t, or 0 for an
// unsupported type.
func (t Type) Size() uint32 {
	if !t.Valid() {
		return 0
	}
	return typeSizes[t]
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint16(t))
	}
	return typeNames[t]
}

// Inline reports whether count values of type t fit in the 4-byte value
// slot of an IFD entry. Both the decoder and the encoder use this rule.
func Inline(t Type, count uint32) bool {
	return uint64(t.Size())*uint64(count) <= 4
}

// Namespace identifies which directory a tag id is interpreted in.
type Namespace uint8

const (
	Image     Namespace = iota // IFD0
	Thumbnail                  // IFD1
	Exif
	GPS
	Interop
)

// Namespaces lists every namespace in directory order.
var Namespaces = []Namespace{Image, Thumbnail, Exif, GPS, Interop}

func (ns Namespace) String() string {
	switch ns {
	case Image:
		return "IFD0"
	case Thumbnail:
		return "IFD1"
	case Exif:
		return "Exif"
	case GPS:
		return "GPS"
	case Interop:
		return "Interop"
	}
	return fmt.Sprintf("Namespace(%d)", uint8(ns))
}

// ParseNamespace is the inverse of Namespace.String, case-sensitive.
func ParseNamespace(s string) (Namespace, bool) {
	for _, ns := range Namespaces {
		if ns.String() == s {
			return ns, true
		}
	}
	return 0, false
}

// Sub-IFD pointer tags. Their Long value is the offset of a nested IFD.
const (
	ExifPointer    uint16 = 0x8769
	GPSPointer     uint16 = 0x8825
	InteropPointer uint16 = 0xA005
)

// SubIFD reports the namespace of the directory a pointer tag refers to.
func SubIFD(id uint16) (Namespace, bool) {
	switch id {
	case ExifPointer:
		return Exif, true
	case GPSPointer:
		return GPS, true
	case InteropPointer:
		return Interop, true
	}
	return 0, false
}

// PointerTag returns the tag that links a namespace's directory to its
// parent, and the parent namespace.
func PointerTag(ns Namespace) (tag uint16, parent Namespace, ok bool) {
	switch ns {
	case Exif:
		return ExifPointer, Image, true
	case GPS:
		return GPSPointer, Image, true
	case Interop:
		return InteropPointer, Exif, true
	}
	return 0, 0, false
}

// ImagePair is an offset/byte-count tag pair whose offsets reference blobs
// elsewhere in the TIFF payload.
type ImagePair struct {
	OffsetTag uint16
	SizeTag   uint16
}

// ImagePairs lists the offset/size pairs the codec relocates on encode.
var ImagePairs = []ImagePair{
	{OffsetTag: 0x0111, SizeTag: 0x0117}, // StripOffsets, StripByteCounts
	{OffsetTag: 0x0144, SizeTag: 0x0145}, // TileOffsets, TileByteCounts
	{OffsetTag: 0x0201, SizeTag: 0x0202}, // JPEGInterchangeFormat, JPEGInterchangeFormatLength
}
