package exif

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

var minimalBE = []byte{
	0x4D, 0x4D, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
	0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

var minimalLE = []byte{
	0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00,
	0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// rawEntry is an IFD entry written verbatim by tiffBuilder. When inline is
// set it fills the value slot, otherwise slot is written as an offset.
type rawEntry struct {
	tag    uint16
	typ    tags.Type
	count  uint32
	slot   uint32
	inline []byte
}

func pointer(tag uint16, off uint32) rawEntry {
	return rawEntry{tag: tag, typ: tags.Long, count: 1, slot: off}
}

type tiffBuilder struct {
	buf   []byte
	order binary.ByteOrder
}

func newTIFF(t *testing.T, order binary.ByteOrder, size int) *tiffBuilder {
	t.Helper()
	b := &tiffBuilder{buf: make([]byte, size), order: order}
	require.NoError(t, PutHeader(b.buf, order, 8))
	return b
}

// ifd writes a directory table at off and returns the offset just past it.
func (b *tiffBuilder) ifd(off int, next uint32, entries ...rawEntry) int {
	b.order.PutUint16(b.buf[off:], uint16(len(entries)))
	for i, e := range entries {
		p := off + 2 + i*entrySize
		b.order.PutUint16(b.buf[p:], e.tag)
		b.order.PutUint16(b.buf[p+2:], uint16(e.typ))
		b.order.PutUint32(b.buf[p+4:], e.count)
		if e.inline != nil {
			copy(b.buf[p+8:p+12], e.inline)
		} else {
			b.order.PutUint32(b.buf[p+8:], e.slot)
		}
	}
	end := off + 2 + len(entries)*entrySize
	b.order.PutUint32(b.buf[end:], next)
	return end + 4
}

func shortSlot(order binary.ByteOrder, v uint16) []byte {
	slot := make([]byte, 4)
	order.PutUint16(slot, v)
	return slot
}

var testThumbnail = []byte{0xFF, 0xD8, 0x01, 0xFF, 0xD9}

func richDocument(t *testing.T, order binary.ByteOrder) *Document {
	t.Helper()
	doc := New(order)
	sets := []struct {
		ns  tags.Namespace
		tag uint16
		v   Value
	}{
		{tags.Image, 0x010F, ASCII("Canon")},
		{tags.Image, 0x0112, Shorts{1}},
		{tags.Image, 0x011A, Rationals{{72, 1}}},
		{tags.Exif, 0x829A, Rationals{{1, 125}}},
		{tags.Exif, 0x9000, Undefined("0230")},
		{tags.Exif, 0x9204, SRationals{{-1, 3}}},
		{tags.Exif, 0xFE00, Bytes{1, 2, 3, 4, 5}},
		{tags.Exif, 0xFE01, SBytes{-1}},
		{tags.Exif, 0xFE02, SShorts{-2, 3, -4}},
		{tags.Exif, 0xFE03, SLongs{-70000}},
		{tags.Exif, 0xFE04, Floats{0.5, 1.5}},
		{tags.Exif, 0xFE05, Doubles{1.25}},
		{tags.Exif, 0xFE06, Longs{1, 2}},
		{tags.GPS, 0x0001, ASCII("N")},
		{tags.GPS, 0x0002, Rationals{{35, 1}, {41, 1}, {2859, 100}}},
		{tags.Interop, 0x0001, ASCII("R98")},
	}
	for _, s := range sets {
		require.NoError(t, doc.Set(s.ns, s.tag, s.v))
	}
	doc.SetThumbnail(testThumbnail)
	return doc
}

func snapshot(t *testing.T, doc *Document) []string {
	t.Helper()
	var out []string
	require.NoError(t, doc.Walk(func(ns tags.Namespace, e Entry) error {
		out = append(out, fmt.Sprintf("%s/0x%04X %s[%d] %s", ns, e.Tag, e.Value.Type(), e.Value.Count(), e.Value))
		return nil
	}))
	return out
}

func TestMinimalRoundTrip(t *testing.T) {
	for name, raw := range map[string][]byte{"big endian": minimalBE, "little endian": minimalLE} {
		t.Run(name, func(t *testing.T) {
			doc, err := Decode(raw, DecodeOptions{})
			require.NoError(t, err)
			require.Len(t, doc.Dirs, 1)
			assert.Empty(t, doc.Dirs[0].Entries)
			assert.Equal(t, -1, doc.Dirs[0].Next)
			assert.Nil(t, doc.Warnings)

			out, err := Encode(doc)
			require.NoError(t, err)
			assert.Equal(t, raw, out, "minimal TIFF must re-encode byte for byte")
		})
	}
}

func TestNewDocumentEncodesMinimal(t *testing.T) {
	out, err := Encode(New(binary.BigEndian))
	require.NoError(t, err)
	assert.Equal(t, minimalBE, out)
}

func TestInlineBoundary(t *testing.T) {
	doc := New(binary.BigEndian)
	require.NoError(t, doc.Set(tags.Image, 0x0112, Shorts{1}))
	require.NoError(t, doc.Set(tags.Image, 0x0102, Shorts{8, 8, 8}))

	out, err := Encode(doc)
	require.NoError(t, err)
	want := []byte{
		0x4D, 0x4D, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x02,
		0x01, 0x02, 0x00, 0x03, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x26,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x08, 0x00, 0x08, 0x00, 0x08,
	}
	assert.Equal(t, want, out)

	back, err := Decode(out, DecodeOptions{})
	require.NoError(t, err)
	v, ok := back.Get(tags.Image, 0x0102)
	require.True(t, ok)
	assert.Equal(t, Shorts{8, 8, 8}, v)
	v, ok = back.Get(tags.Image, 0x0112)
	require.True(t, ok)
	assert.Equal(t, Shorts{1}, v)
}

func TestRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		t.Run(order.String(), func(t *testing.T) {
			enc1, err := Encode(richDocument(t, order))
			require.NoError(t, err)

			dec1, err := Decode(enc1, DecodeOptions{})
			require.NoError(t, err)
			assert.Nil(t, dec1.Warnings)

			enc2, err := Encode(dec1)
			require.NoError(t, err)
			assert.Equal(t, enc1, enc2, "encode(decode(x)) must be stable")

			dec2, err := Decode(enc2, DecodeOptions{})
			require.NoError(t, err)
			assert.Equal(t, snapshot(t, dec1), snapshot(t, dec2))

			v, ok := dec1.Get(tags.Image, 0x010F)
			require.True(t, ok)
			assert.Equal(t, ASCII("Canon"), v)
			v, ok = dec1.Get(tags.Exif, 0xFE03)
			require.True(t, ok)
			assert.Equal(t, SLongs{-70000}, v)
			v, ok = dec1.Get(tags.GPS, 0x0002)
			require.True(t, ok)
			assert.Equal(t, Rationals{{35, 1}, {41, 1}, {2859, 100}}, v)
			v, ok = dec1.Get(tags.Interop, 0x0001)
			require.True(t, ok)
			assert.Equal(t, ASCII("R98"), v)

			thumb, ok := dec1.Thumbnail()
			require.True(t, ok)
			assert.Equal(t, testThumbnail, thumb)

			// Pointer tags are structure, not entries.
			_, ok = dec1.Get(tags.Image, tags.ExifPointer)
			assert.False(t, ok)
		})
	}
}

func TestDirectoriesAreWordAligned(t *testing.T) {
	enc, err := Encode(richDocument(t, binary.BigEndian))
	require.NoError(t, err)
	doc, err := Decode(enc, DecodeOptions{})
	require.NoError(t, err)
	for _, dir := range doc.Dirs {
		assert.Zero(t, dir.Offset%2, "%s IFD at odd offset %d", dir.Namespace, dir.Offset)
	}
}

func TestCyclicNextChain(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("length %d", n), func(t *testing.T) {
			b := newTIFF(t, binary.BigEndian, 8+n*6)
			for i := 0; i < n; i++ {
				next := uint32(8 + (i+1)*6)
				if i == n-1 {
					next = 8
				}
				b.ifd(8+i*6, next)
			}
			_, err := Decode(b.buf, DecodeOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrCyclicDirectory), "got %v", err)
			assert.Equal(t, core.KindIntegrity, core.KindOf(err))
		})
	}
}

func TestCyclicSubIFD(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		b := newTIFF(t, binary.LittleEndian, 26)
		b.ifd(8, 0, pointer(tags.ExifPointer, 8))
		_, err := Decode(b.buf, DecodeOptions{})
		assert.True(t, errors.Is(err, core.ErrCyclicDirectory), "got %v", err)
	})
	t.Run("back to root", func(t *testing.T) {
		b := newTIFF(t, binary.BigEndian, 44)
		b.ifd(8, 0, pointer(tags.ExifPointer, 26))
		b.ifd(26, 0, pointer(tags.InteropPointer, 8))
		_, err := Decode(b.buf, DecodeOptions{})
		assert.True(t, errors.Is(err, core.ErrCyclicDirectory), "got %v", err)
	})
	t.Run("cycles are not skippable", func(t *testing.T) {
		b := newTIFF(t, binary.BigEndian, 44)
		b.ifd(8, 0, pointer(tags.ExifPointer, 26))
		b.ifd(26, 0, pointer(tags.InteropPointer, 26))
		_, err := Decode(b.buf, DecodeOptions{SkipBadSubIFDs: true})
		assert.True(t, errors.Is(err, core.ErrCyclicDirectory), "got %v", err)
	})
}

func TestRepeatedPointerTag(t *testing.T) {
	b := newTIFF(t, binary.BigEndian, 74)
	b.ifd(8, 0, pointer(tags.ExifPointer, 38), pointer(tags.ExifPointer, 56))
	b.ifd(38, 0, rawEntry{tag: 0x8822, typ: tags.Short, count: 1, inline: shortSlot(binary.BigEndian, 2)})
	b.ifd(56, 0, rawEntry{tag: 0x8827, typ: tags.Short, count: 1, inline: shortSlot(binary.BigEndian, 100)})

	doc, err := Decode(b.buf, DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Dirs, 3)

	enc, err := Encode(doc)
	require.NoError(t, err)
	back, err := Decode(enc, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, snapshot(t, doc), snapshot(t, back))

	links := back.Dirs[0].Children
	require.Len(t, links, 2)
	assert.NotEqual(t, links[0].Dir, links[1].Dir)
	assert.Equal(t, []Entry{{Tag: 0x8822, Value: Shorts{2}}}, back.Dirs[links[0].Dir].Entries)
	assert.Equal(t, []Entry{{Tag: 0x8827, Value: Shorts{100}}}, back.Dirs[links[1].Dir].Entries)
}

// overlapping builds a payload whose n Undefined entries all point at the
// same 4000 bytes.
func overlapping(t *testing.T, n int) []byte {
	t.Helper()
	b := newTIFF(t, binary.LittleEndian, 4096)
	entries := make([]rawEntry, n)
	for i := range entries {
		entries[i] = rawEntry{tag: 0xC000 + uint16(i), typ: tags.Undefined, count: 4000, slot: 0}
	}
	b.ifd(8, 0, entries...)
	return b.buf
}

func TestOverlappingValuesAreBounded(t *testing.T) {
	doc, err := Decode(overlapping(t, 3), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Len())

	_, err = Decode(overlapping(t, 100), DecodeOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPayloadTooLarge), "got %v", err)

	// The budget is global, so skipping sub-IFDs does not lift it.
	_, err = Decode(overlapping(t, 100), DecodeOptions{SkipBadSubIFDs: true})
	assert.True(t, errors.Is(err, core.ErrPayloadTooLarge), "got %v", err)
}

func nestedTIFF(t *testing.T, levels int) []byte {
	t.Helper()
	b := newTIFF(t, binary.BigEndian, 8+levels*18+6)
	off := 8
	for i := 0; i < levels; i++ {
		off = b.ifd(off, 0, pointer(tags.ExifPointer, uint32(off+18)))
	}
	b.ifd(off, 0)
	return b.buf
}

func TestTooDeep(t *testing.T) {
	raw := nestedTIFF(t, 9)

	_, err := Decode(raw, DecodeOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTooDeep), "got %v", err)
	assert.Equal(t, core.KindIntegrity, core.KindOf(err))

	doc, err := Decode(raw, DecodeOptions{MaxDepth: 20})
	require.NoError(t, err)
	assert.Len(t, doc.Dirs, 10)

	_, err = Decode(nestedTIFF(t, 1), DecodeOptions{MaxDepth: 1})
	assert.True(t, errors.Is(err, core.ErrTooDeep), "got %v", err)
}

func TestCorruptedOffsets(t *testing.T) {
	enc, err := Encode(richDocument(t, binary.BigEndian))
	require.NoError(t, err)
	size := uint32(len(enc))
	rng := rand.New(rand.NewSource(1))

	t.Run("first IFD offset", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			buf := append([]byte(nil), enc...)
			off := size + rng.Uint32()%(math.MaxUint32-size)
			binary.BigEndian.PutUint32(buf[4:], off)
			_, err := Decode(buf, DecodeOptions{SkipBadSubIFDs: true})
			require.Error(t, err, "offset %d", off)
			assert.Equal(t, core.KindBounds, core.KindOf(err), "offset %d: %v", off, err)
		}
	})

	t.Run("value offset", func(t *testing.T) {
		count := int(binary.BigEndian.Uint16(enc[8:]))
		field := -1
		for i := 0; i < count; i++ {
			if binary.BigEndian.Uint16(enc[10+i*entrySize:]) == 0x010F {
				field = 10 + i*entrySize + 8
			}
		}
		require.NotEqual(t, -1, field, "Make entry not found")
		for i := 0; i < 200; i++ {
			buf := append([]byte(nil), enc...)
			off := size + rng.Uint32()%(math.MaxUint32-size)
			binary.BigEndian.PutUint32(buf[field:], off)
			_, err := Decode(buf, DecodeOptions{})
			require.Error(t, err, "offset %d", off)
			assert.Equal(t, core.KindBounds, core.KindOf(err), "offset %d: %v", off, err)
		}
	})

	t.Run("random bytes", func(t *testing.T) {
		for i := 0; i < 2000; i++ {
			buf := append([]byte(nil), enc...)
			for n := rng.Intn(4) + 1; n > 0; n-- {
				buf[8+rng.Intn(len(buf)-8)] = byte(rng.Intn(256))
			}
			opts := DecodeOptions{SkipBadSubIFDs: i%2 == 0}
			assert.NotPanics(t, func() {
				if _, err := Decode(buf, opts); err != nil {
					assert.NotEqual(t, core.KindUnknown, core.KindOf(err), "unclassified error: %v", err)
				}
			})
		}
	})
}

func TestSkipBadSubIFDs(t *testing.T) {
	order := binary.BigEndian
	badPointer := func(t *testing.T) []byte {
		b := newTIFF(t, order, 38)
		b.ifd(8, 0,
			rawEntry{tag: 0x0112, typ: tags.Short, count: 1, inline: shortSlot(order, 1)},
			pointer(tags.ExifPointer, 0x7FFFFFF0),
		)
		return b.buf
	}
	badType := func(t *testing.T) []byte {
		b := newTIFF(t, order, 56)
		b.ifd(8, 0,
			rawEntry{tag: 0x0112, typ: tags.Short, count: 1, inline: shortSlot(order, 1)},
			pointer(tags.GPSPointer, 38),
		)
		b.ifd(38, 0, rawEntry{tag: 0x0001, typ: tags.Type(13), count: 1})
		return b.buf
	}

	tests := []struct {
		name     string
		raw      func(*testing.T) []byte
		sentinel error
		skipped  tags.Namespace
	}{
		{"pointer out of bounds", badPointer, core.ErrOutOfBounds, tags.Exif},
		{"unsupported type in sub-IFD", badType, core.ErrUnsupportedDataType, tags.GPS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.raw(t)

			_, err := Decode(raw, DecodeOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)

			doc, err := Decode(raw, DecodeOptions{SkipBadSubIFDs: true})
			require.NoError(t, err)
			require.Error(t, doc.Warnings)
			assert.True(t, errors.Is(doc.Warnings, tt.sentinel), "got %v", doc.Warnings)
			assert.Equal(t, -1, doc.Find(tt.skipped))
			v, ok := doc.Get(tags.Image, 0x0112)
			require.True(t, ok)
			assert.Equal(t, Shorts{1}, v)
		})
	}

	t.Run("root errors still fail", func(t *testing.T) {
		b := newTIFF(t, order, 26)
		b.ifd(8, 0, rawEntry{tag: 0x0112, typ: tags.Type(0), count: 1})
		_, err := Decode(b.buf, DecodeOptions{SkipBadSubIFDs: true})
		assert.True(t, errors.Is(err, core.ErrUnsupportedDataType), "got %v", err)
		assert.Equal(t, core.KindStructural, core.KindOf(err))
	})
}

func TestStrictMode(t *testing.T) {
	order := binary.LittleEndian
	b := newTIFF(t, order, 26)
	b.ifd(8, 0, rawEntry{tag: 0x0112, typ: tags.Long, count: 1, slot: 1})

	doc, err := Decode(b.buf, DecodeOptions{})
	require.NoError(t, err)
	v, ok := doc.Get(tags.Image, 0x0112)
	require.True(t, ok)
	assert.Equal(t, Longs{1}, v)

	_, err = Decode(b.buf, DecodeOptions{Strict: true, Registry: tags.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTypeMismatch), "got %v", err)
	var cerr *core.Error
	require.True(t, errors.As(err, &cerr))
	assert.True(t, cerr.HasTag)
	assert.Equal(t, uint16(0x0112), cerr.Tag)
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"short", []byte{0x4D, 0x4D, 0x00}},
		{"bad order", []byte{0x4D, 0x49, 0x00, 0x2A, 0, 0, 0, 8}},
		{"bad magic", []byte{0x4D, 0x4D, 0x00, 0x2B, 0, 0, 0, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw, DecodeOptions{})
			assert.True(t, errors.Is(err, core.ErrBadHeader), "got %v", err)
		})
	}

	order, first, err := ParseHeader(minimalLE)
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, order)
	assert.Equal(t, uint32(8), first)
}

func TestStripAllIsIdempotent(t *testing.T) {
	enc, err := Encode(richDocument(t, binary.BigEndian))
	require.NoError(t, err)
	doc, err := Decode(enc, DecodeOptions{})
	require.NoError(t, err)

	doc.StripAll()
	once, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, minimalBE, once)
	assert.Zero(t, doc.Len())
	require.Len(t, doc.Dirs, 1)

	doc.StripAll()
	twice, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSetCreatesDirectories(t *testing.T) {
	doc := New(binary.LittleEndian)
	require.NoError(t, doc.Set(tags.Interop, 0x0001, ASCII("R98")))
	require.NoError(t, doc.Set(tags.GPS, 0x0001, ASCII("N")))

	exif := doc.Find(tags.Exif)
	require.NotEqual(t, -1, exif)
	assert.Contains(t, doc.Dirs[0].Children, Link{Tag: tags.ExifPointer, Dir: exif})
	interop := doc.Find(tags.Interop)
	require.NotEqual(t, -1, interop)
	assert.Contains(t, doc.Dirs[exif].Children, Link{Tag: tags.InteropPointer, Dir: interop})
	assert.NotEqual(t, -1, doc.Find(tags.GPS))

	enc, err := Encode(doc)
	require.NoError(t, err)
	back, err := Decode(enc, DecodeOptions{})
	require.NoError(t, err)
	v, ok := back.Get(tags.Interop, 0x0001)
	require.True(t, ok)
	assert.Equal(t, ASCII("R98"), v)
}

func TestSetKeepsTagOrder(t *testing.T) {
	doc := New(binary.BigEndian)
	for _, tag := range []uint16{0x0112, 0x010F, 0x0131, 0x0110} {
		require.NoError(t, doc.Set(tags.Image, tag, ASCII("x")))
	}
	require.NoError(t, doc.Set(tags.Image, 0x010F, ASCII("Nikon")))

	var got []uint16
	for _, e := range doc.Dirs[0].Entries {
		got = append(got, e.Tag)
	}
	assert.Equal(t, []uint16{0x010F, 0x0110, 0x0112, 0x0131}, got)
	v, _ := doc.Get(tags.Image, 0x010F)
	assert.Equal(t, ASCII("Nikon"), v)
}

func TestSetRejects(t *testing.T) {
	doc := New(binary.BigEndian)

	err := doc.Set(tags.Image, tags.ExifPointer, Longs{26})
	assert.True(t, errors.Is(err, core.ErrPointerTag), "got %v", err)

	err = doc.Set(tags.Image, 0x010F, nil)
	assert.True(t, errors.Is(err, core.ErrUnsupportedDataType), "got %v", err)
}

func TestRemove(t *testing.T) {
	doc := richDocument(t, binary.BigEndian)

	assert.True(t, doc.Remove(tags.Image, 0x010F))
	assert.False(t, doc.Remove(tags.Image, 0x010F))
	_, ok := doc.Get(tags.Image, 0x010F)
	assert.False(t, ok)

	assert.True(t, doc.Remove(tags.Thumbnail, 0x0201))
	_, ok = doc.Thumbnail()
	assert.False(t, ok)

	assert.True(t, doc.RemoveNamespace(tags.GPS))
	assert.False(t, doc.RemoveNamespace(tags.GPS))
	assert.False(t, doc.Remove(tags.GPS, 0x0001))

	enc, err := Encode(doc)
	require.NoError(t, err)
	back, err := Decode(enc, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, -1, back.Find(tags.GPS))
	assert.NotEqual(t, -1, back.Find(tags.Interop))
}

func TestRemoveDropsEmptyDirectory(t *testing.T) {
	doc := New(binary.BigEndian)
	require.NoError(t, doc.Set(tags.GPS, 0x0001, ASCII("N")))
	require.NotEqual(t, -1, doc.Find(tags.GPS))

	assert.True(t, doc.Remove(tags.GPS, 0x0001))
	assert.Equal(t, -1, doc.Find(tags.GPS))
	assert.Len(t, doc.Dirs, 1)

	enc, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, minimalBE, enc)
}

func TestEncodeRejectsEmptyDocument(t *testing.T) {
	_, err := Encode(&Document{})
	assert.True(t, errors.Is(err, core.ErrBadHeader), "got %v", err)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ  tags.Type
		text string
		want Value
	}{
		{tags.ASCII, "Canon EOS", ASCII("Canon EOS")},
		{tags.Short, "1", Shorts{1}},
		{tags.Short, "08", Shorts{8}},
		{tags.Short, "8, 8, 8", Shorts{8, 8, 8}},
		{tags.Long, "0x10", Longs{16}},
		{tags.Byte, "2,2,0,0", Bytes{2, 2, 0, 0}},
		{tags.SShort, "-3", SShorts{-3}},
		{tags.SLong, "-70000", SLongs{-70000}},
		{tags.Rational, "1/125", Rationals{{1, 125}}},
		{tags.Rational, "35/1, 41, 2859/100", Rationals{{35, 1}, {41, 1}, {2859, 100}}},
		{tags.SRational, "-1/3", SRationals{{-1, 3}}},
		{tags.Double, "1.25", Doubles{1.25}},
		{tags.Undefined, "0230", Undefined("0230")},
		{tags.Undefined, "1, 2", Undefined{1, 2}},
		{tags.Undefined, "ASCII\x00\x00\x00", Undefined("ASCII\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %q", tt.typ, tt.text), func(t *testing.T) {
			v, err := ParseValue(tt.typ, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	for _, bad := range []struct {
		typ  tags.Type
		text string
	}{
		{tags.Short, "70000"},
		{tags.Byte, "x"},
		{tags.Rational, "1/x"},
		{tags.Long, ""},
	} {
		_, err := ParseValue(bad.typ, bad.text)
		assert.Error(t, err, "%s %q", bad.typ, bad.text)
	}

	_, err := ParseValue(tags.Type(13), "1")
	assert.True(t, errors.Is(err, core.ErrUnsupportedDataType))
}

func TestFormatParsesBack(t *testing.T) {
	values := []Value{
		Rationals{{72, 1}, {1, 125}},
		SRationals{{-1, 3}, {4, 1}},
		Shorts{8, 8, 8},
		ASCII("Canon"),
		Doubles{1.25},
	}
	for _, v := range values {
		text := Format(v)
		back, err := ParseValue(v.Type(), text)
		require.NoError(t, err, text)
		assert.Equal(t, v, back, text)
	}
	assert.Equal(t, "72, 1/125", Format(Rationals{{72, 1}, {1, 125}}))
	assert.Equal(t, "", Format(nil))

	// Binary Undefined data is display only.
	assert.Equal(t, "01 02", Format(Undefined{0x01, 0x02}))
	back, err := ParseValue(tags.Undefined, "01 02")
	require.NoError(t, err)
	assert.NotEqual(t, Undefined{0x01, 0x02}, back)
}

func TestRetain(t *testing.T) {
	doc := richDocument(t, binary.LittleEndian)
	doc.Retain(func(ns tags.Namespace, e Entry) bool {
		return ns == tags.Image && e.Tag == 0x010F
	})
	assert.Equal(t, 1, doc.Len())
	require.Len(t, doc.Dirs, 1, "empty sub-IFDs and IFD1 are pruned")
	_, ok := doc.Thumbnail()
	assert.False(t, ok)

	enc, err := Encode(doc)
	require.NoError(t, err)
	back, err := Decode(enc, DecodeOptions{})
	require.NoError(t, err)
	v, ok := back.Get(tags.Image, 0x010F)
	require.True(t, ok)
	assert.Equal(t, ASCII("Canon"), v)
}

func TestUserComment(t *testing.T) {
	v, err := EncodeComment("shot at dusk", binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, Undefined("ASCII\x00\x00\x00shot at dusk"), v)
	text, ok := DecodeComment(v, binary.BigEndian)
	require.True(t, ok)
	assert.Equal(t, "shot at dusk", text)

	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		v, err := EncodeComment("crème brûlée", order)
		require.NoError(t, err)
		assert.Equal(t, []byte("UNICODE\x00"), []byte(v[:8]))
		assert.Len(t, v, 8+2*len([]rune("crème brûlée")))
		text, ok := DecodeComment(v, order)
		require.True(t, ok, order.String())
		assert.Equal(t, "crème brûlée", text)
	}

	text, ok = DecodeComment(Undefined(append(make([]byte, 8), "padded   "...)), binary.BigEndian)
	require.True(t, ok)
	assert.Equal(t, "padded", text)
	_, ok = DecodeComment(Undefined("JIS\x00\x00\x00\x00\x00abc"), binary.BigEndian)
	assert.False(t, ok)
	_, ok = DecodeComment(Undefined("short"), binary.BigEndian)
	assert.False(t, ok)

	doc := New(binary.LittleEndian)
	assert.Equal(t, "shot at dusk", doc.Text(tags.Exif, UserCommentTag, Undefined("ASCII\x00\x00\x00shot at dusk")))
	assert.Equal(t, "1/250", doc.Text(tags.Exif, 0x829A, Rationals{{1, 250}}))
}
