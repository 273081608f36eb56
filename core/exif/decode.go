package exif

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/cursor"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// HeaderSize is the size of the TIFF header: byte order (2), magic (2) and
// the offset of IFD0 (4).
const HeaderSize = 8

const (
	entrySize     = 12
	tableOverhead = 6 // entry count + next-IFD offset
)

// maxExpansion bounds the value bytes a decode may copy out, as a multiple
// of the payload length. Entries whose values overlap are otherwise free
// to copy the same region many times.
const maxExpansion = 4

// DefaultMaxDepth bounds sub-IFD nesting. IFD0 -> Exif -> Interop needs 3.
const DefaultMaxDepth = 8

// DecodeOptions controls Decode and DecodeAt. The zero value decodes
// permissively with DefaultMaxDepth.
type DecodeOptions struct {
	// MaxDepth is the depth budget of the root directory. Each sub-IFD
	// level costs one; a directory reached with a budget of 0 fails with
	// core.ErrTooDeep. Zero means DefaultMaxDepth.
	MaxDepth int
	// Registry is consulted in Strict mode.
	Registry *tags.Registry
	// Strict fails decoding when an entry's type disagrees with the
	// registry. Unknown tags are always kept.
	Strict bool
	// SkipBadSubIFDs records bounds and data-type errors inside non-root
	// directories in Document.Warnings and drops those directories instead
	// of failing the whole decode. Integrity errors always fail.
	SkipBadSubIFDs bool
}

// ParseHeader reads the TIFF header at the start of buf and returns the
// byte order and the offset of IFD0.
func ParseHeader(buf []byte) (binary.ByteOrder, uint32, error) {
	if len(buf) < HeaderSize {
		return nil, 0, core.Errorf("parse header", 0, core.ErrBadHeader, "need %d bytes, have %d", HeaderSize, len(buf))
	}
	var order binary.ByteOrder
	switch string(buf[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, 0, core.Errorf("parse header", 0, core.ErrBadHeader, "byte order %q", buf[:2])
	}
	if magic := order.Uint16(buf[2:]); magic != 0x002A {
		return nil, 0, core.Errorf("parse header", 2, core.ErrBadHeader, "magic 0x%04X", magic)
	}
	return order, order.Uint32(buf[4:]), nil
}

// PutHeader writes a TIFF header into the first 8 bytes of buf.
func PutHeader(buf []byte, order binary.ByteOrder, first uint32) error {
	c := cursor.New(buf, order)
	mark := []byte("MM")
	if order == binary.LittleEndian {
		mark = []byte("II")
	}
	if err := c.Put(0, mark); err != nil {
		return err
	}
	if err := c.PutU16(2, 0x002A); err != nil {
		return err
	}
	return c.PutU32(4, first)
}

// Decode parses a TIFF-structured payload (the body of an Exif APP1
// segment, or a whole TIFF file).
func Decode(payload []byte, opts DecodeOptions) (*Document, error) {
	order, first, err := ParseHeader(payload)
	if err != nil {
		return nil, err
	}
	return DecodeAt(payload, first, order, opts)
}

type job struct {
	offset uint32
	ns     tags.Namespace
	depth  int
	parent int // directory index of the referrer, -1 for the root
	tag    uint16
	next   bool // reached through the parent's next-IFD offset
}

type decoder struct {
	c     *cursor.Cursor
	opts  DecodeOptions
	spent uint64 // value and image bytes copied so far
	limit uint64
}

// charge accounts for n copied bytes and fails once the decode has copied
// more than maxExpansion times the payload.
func (d *decoder) charge(pos int64, n uint64) error {
	d.spent += n
	if d.spent > d.limit {
		return core.Errorf("decode", pos, core.ErrPayloadTooLarge,
			"values total %d bytes, limit %d for a %d-byte payload", d.spent, d.limit, d.c.Len())
	}
	return nil
}

// DecodeAt decodes the IFD at start and every directory reachable from
// it. The walk uses an explicit work list: memory stays bounded by the
// number of distinct directories, and a visited-offset set rejects any
// directory that is reached twice.
func DecodeAt(buf []byte, start uint32, order binary.ByteOrder, opts DecodeOptions) (*Document, error) {
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	d := &decoder{c: cursor.New(buf, order), opts: opts, limit: maxExpansion * uint64(len(buf))}
	doc := &Document{Order: order, Source: Range{Offset: 0, Length: int64(len(buf))}}

	visited := make(map[uint32]bool)
	var warnings *multierror.Error
	stack := []job{{offset: start, ns: tags.Image, depth: maxDepth, parent: -1}}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if j.depth <= 0 {
			return nil, core.Errorf("decode IFD", int64(j.offset), core.ErrTooDeep, "%s IFD exceeds depth %d", j.ns, maxDepth)
		}
		if visited[j.offset] {
			return nil, core.Errorf("decode IFD", int64(j.offset), core.ErrCyclicDirectory, "%s IFD already visited", j.ns)
		}
		visited[j.offset] = true

		dir, links, next, err := d.readDir(j.offset, j.ns)
		if err != nil {
			if j.parent >= 0 && opts.SkipBadSubIFDs && recoverable(err) {
				warnings = multierror.Append(warnings, fmt.Errorf("skipped %s IFD: %w", j.ns, err))
				continue
			}
			return nil, err
		}

		idx := len(doc.Dirs)
		doc.Dirs = append(doc.Dirs, dir)
		if j.parent >= 0 {
			if j.next {
				doc.Dirs[j.parent].Next = idx
			} else {
				doc.Dirs[j.parent].Children = append(doc.Dirs[j.parent].Children, Link{Tag: j.tag, Dir: idx})
			}
		}

		// Pushed in reverse so the next IFD is decoded after the children.
		if next != 0 {
			ns := j.ns
			if j.ns == tags.Image && j.parent < 0 {
				ns = tags.Thumbnail
			} else if j.ns == tags.Thumbnail {
				ns = tags.Image
			}
			stack = append(stack, job{offset: next, ns: ns, depth: j.depth, parent: idx, next: true})
		}
		for i := len(links) - 1; i >= 0; i-- {
			l := links[i]
			stack = append(stack, job{offset: l.offset, ns: l.ns, depth: j.depth - 1, parent: idx, tag: l.tag})
		}
	}
	if warnings != nil {
		doc.Warnings = warnings
	}
	return doc, nil
}

// recoverable reports whether a failure inside a sub-IFD may be skipped.
func recoverable(err error) bool {
	return errors.Is(err, core.ErrOutOfBounds) || errors.Is(err, core.ErrUnsupportedDataType)
}

type pendingLink struct {
	tag    uint16
	ns     tags.Namespace
	offset uint32
}

// readDir decodes one IFD table at off. Sub-IFD pointers are returned as
// links instead of entries.
func (d *decoder) readDir(off uint32, ns tags.Namespace) (Directory, []pendingLink, uint32, error) {
	dir := Directory{Namespace: ns, Offset: off, Next: -1}
	base := int64(off)
	count, err := d.c.U16(base)
	if err != nil {
		return dir, nil, 0, fmt.Errorf("%s IFD entry count: %w", ns, err)
	}
	// The whole table must fit before any entry is trusted.
	tableLen := int64(tableOverhead) + int64(count)*entrySize
	if _, err := d.c.Slice(base, tableLen); err != nil {
		return dir, nil, 0, fmt.Errorf("%s IFD table of %d entries: %w", ns, count, err)
	}

	var links []pendingLink
	dir.Entries = make([]Entry, 0, count)
	for i := 0; i < int(count); i++ {
		pos := base + 2 + int64(i)*entrySize
		e, link, err := d.readEntry(pos, ns)
		if err != nil {
			return dir, nil, 0, err
		}
		if link != nil {
			links = append(links, *link)
			continue
		}
		dir.Entries = append(dir.Entries, e)
	}
	next, err := d.c.U32(base + 2 + int64(count)*entrySize)
	if err != nil {
		return dir, nil, 0, err
	}
	if err := d.readImageData(&dir); err != nil {
		return dir, nil, 0, err
	}
	return dir, links, next, nil
}

func (d *decoder) readEntry(pos int64, ns tags.Namespace) (Entry, *pendingLink, error) {
	c := d.c
	tag, err := c.U16(pos)
	if err != nil {
		return Entry{}, nil, err
	}
	code, err := c.U16(pos + 2)
	if err != nil {
		return Entry{}, nil, core.WithTag(err, tag)
	}
	count, err := c.U32(pos + 4)
	if err != nil {
		return Entry{}, nil, core.WithTag(err, tag)
	}
	typ := tags.Type(code)
	if !typ.Valid() {
		return Entry{}, nil, core.WithTag(core.Errorf("decode entry", pos, core.ErrUnsupportedDataType, "type code %d", code), tag)
	}
	if d.opts.Strict && d.opts.Registry != nil {
		if def, ok := d.opts.Registry.Resolve(ns, tag); ok && !def.Accepts(typ) {
			return Entry{}, nil, core.WithTag(core.Errorf("decode entry", pos, core.ErrTypeMismatch, "%s is %s, want %s", def.Name, typ, def.Type()), tag)
		}
	}

	size := uint64(typ.Size()) * uint64(count)
	var raw []byte
	if tags.Inline(typ, count) {
		raw, err = c.Slice(pos+8, int64(size))
	} else {
		var valOff uint32
		if valOff, err = c.U32(pos + 8); err == nil {
			raw, err = c.Slice(int64(valOff), int64(size))
		}
	}
	if err == nil && !tags.Inline(typ, count) {
		err = d.charge(pos, size)
	}
	if err != nil {
		return Entry{}, nil, core.WithTag(err, tag)
	}

	if sub, ok := tags.SubIFD(tag); ok && count >= 1 && (typ == tags.Long || typ == tags.Short) {
		v, err := decodeValue(typ, count, raw, c.Order())
		if err != nil {
			return Entry{}, nil, core.WithTag(err, tag)
		}
		target, _ := firstUint(v)
		return Entry{}, &pendingLink{tag: tag, ns: sub, offset: target}, nil
	}

	v, err := decodeValue(typ, count, raw, c.Order())
	if err != nil {
		return Entry{}, nil, core.WithTag(err, tag)
	}
	return Entry{Tag: tag, Value: v}, nil, nil
}

// readImageData copies out the blobs referenced by offset/size tag pairs.
func (d *decoder) readImageData(dir *Directory) error {
	for _, pair := range tags.ImagePairs {
		oi, si := dir.index(pair.OffsetTag), dir.index(pair.SizeTag)
		if oi < 0 || si < 0 {
			continue
		}
		offsets, ok1 := uints(dir.Entries[oi].Value)
		sizes, ok2 := uints(dir.Entries[si].Value)
		if !ok1 || !ok2 || len(offsets) != len(sizes) {
			return core.WithTag(core.Errorf("image data", int64(dir.Offset), core.ErrOutOfBounds,
				"%d offsets for %d byte counts", len(offsets), len(sizes)), pair.OffsetTag)
		}
		data := ImageData{ImagePair: pair, Segments: make([][]byte, len(offsets))}
		for k := range offsets {
			seg, err := d.c.Slice(int64(offsets[k]), int64(sizes[k]))
			if err == nil {
				err = d.charge(int64(offsets[k]), uint64(sizes[k]))
			}
			if err != nil {
				return core.WithTag(err, pair.OffsetTag)
			}
			data.Segments[k] = append([]byte(nil), seg...)
		}
		dir.ImageData = append(dir.ImageData, data)
	}
	return nil
}

// uints widens unsigned integer values.
func uints(v Value) ([]uint32, bool) {
	switch x := v.(type) {
	case Shorts:
		out := make([]uint32, len(x))
		for i, s := range x {
			out[i] = uint32(s)
		}
		return out, true
	case Longs:
		return append([]uint32(nil), x...), true
	case Bytes:
		out := make([]uint32, len(x))
		for i, b := range x {
			out[i] = uint32(b)
		}
		return out, true
	}
	return nil, false
}

func firstUint(v Value) (uint32, bool) {
	u, ok := uints(v)
	if !ok || len(u) == 0 {
		return 0, false
	}
	return u[0], true
}
