package exif

import (
	"math"
	"sort"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/cursor"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// dirPlan is the layout of one directory computed by the first pass.
type dirPlan struct {
	dir     int
	offset  uint32
	entries []Entry
	dataOff []uint32       // out-of-line value offset per entry, 0 when inline
	blobOff [][]uint32     // offset of every image data segment
	links   []int          // child directory per entry, -1 for plain entries
	images  map[uint16]int // offset tag -> index into Directory.ImageData
}

func align(pos uint64) uint64 {
	return (pos + 1) &^ 1
}

// Encode serializes doc into a TIFF-structured payload starting with the
// TIFF header. The first pass assigns an offset to every directory, value
// and image blob; the second pass writes them. Out-of-line values follow
// their directory table, sub-IFDs follow their parent, the next IFD comes
// last.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil || doc.Order == nil || len(doc.Dirs) == 0 {
		return nil, core.Errorf("encode", -1, core.ErrBadHeader, "document has no byte order or root")
	}

	order := doc.order()
	plans := make(map[int]*dirPlan, len(order))
	pos := uint64(HeaderSize)
	for _, di := range order {
		p, err := planDir(doc, di)
		if err != nil {
			return nil, err
		}
		pos = align(pos)
		p.offset = uint32(pos)
		pos += tableOverhead + uint64(len(p.entries))*entrySize
		for k, e := range p.entries {
			if tags.Inline(e.Value.Type(), e.Value.Count()) {
				continue
			}
			pos = align(pos)
			p.dataOff[k] = uint32(pos)
			pos += Size(e.Value)
		}
		for _, k := range sortedImageIndexes(p.images) {
			data := doc.Dirs[di].ImageData[k]
			offs := make([]uint32, len(data.Segments))
			for s, seg := range data.Segments {
				pos = align(pos)
				offs[s] = uint32(pos)
				pos += uint64(len(seg))
			}
			p.blobOff[k] = offs
		}
		if pos > math.MaxUint32 {
			return nil, core.Errorf("encode", -1, core.ErrPayloadTooLarge, "payload reaches %d bytes", pos)
		}
		plans[di] = p
	}

	buf := make([]byte, pos)
	c := cursor.New(buf, doc.Order)
	if err := PutHeader(buf, doc.Order, plans[0].offset); err != nil {
		return nil, err
	}
	for _, di := range order {
		if err := writeDir(c, doc, plans, plans[di]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// planDir merges the directory's entries with synthesized pointer entries
// and placeholder image offsets, sorted by tag.
func planDir(doc *Document, di int) (*dirPlan, error) {
	dir := &doc.Dirs[di]
	p := &dirPlan{
		dir:    di,
		images: make(map[uint16]int, len(dir.ImageData)),
	}
	type planned struct {
		Entry
		child int
	}
	entries := make([]planned, 0, len(dir.Entries)+len(dir.Children))
	for _, e := range dir.Entries {
		if e.Value == nil || !e.Value.Type().Valid() {
			return nil, core.WithTag(core.Errorf("encode", -1, core.ErrUnsupportedDataType, "%s IFD", dir.Namespace), e.Tag)
		}
		if Size(e.Value) > math.MaxUint32 {
			return nil, core.WithTag(core.Errorf("encode", -1, core.ErrPayloadTooLarge, "value of %d bytes", Size(e.Value)), e.Tag)
		}
		entries = append(entries, planned{Entry: e, child: -1})
	}
	for k, data := range dir.ImageData {
		i := dir.index(data.OffsetTag)
		if i < 0 {
			continue
		}
		p.images[data.OffsetTag] = k
		for n := range entries {
			if entries[n].Tag == data.OffsetTag {
				entries[n].Value = make(Longs, len(data.Segments))
			}
		}
	}
	// Each link keeps its own child, even when a pointer tag repeats.
	for _, l := range dir.Children {
		entries = append(entries, planned{Entry: Entry{Tag: l.Tag, Value: Longs{0}}, child: l.Dir})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
	if len(entries) > math.MaxUint16 {
		return nil, core.Errorf("encode", -1, core.ErrPayloadTooLarge, "%s IFD has %d entries", dir.Namespace, len(entries))
	}
	p.entries = make([]Entry, len(entries))
	p.links = make([]int, len(entries))
	for k, e := range entries {
		p.entries[k] = e.Entry
		p.links[k] = e.child
	}
	p.dataOff = make([]uint32, len(entries))
	p.blobOff = make([][]uint32, len(dir.ImageData))
	return p, nil
}

func sortedImageIndexes(m map[uint16]int) []int {
	out := make([]int, 0, len(m))
	for _, k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func writeDir(c *cursor.Cursor, doc *Document, plans map[int]*dirPlan, p *dirPlan) error {
	dir := &doc.Dirs[p.dir]
	base := int64(p.offset)
	if err := c.PutU16(base, uint16(len(p.entries))); err != nil {
		return err
	}
	for k, e := range p.entries {
		v := e.Value
		if child := p.links[k]; child >= 0 {
			v = Longs{plans[child].offset}
		}
		if img, ok := p.images[e.Tag]; ok {
			v = Longs(p.blobOff[img])
		}

		pos := base + 2 + int64(k)*entrySize
		if err := c.PutU16(pos, e.Tag); err != nil {
			return err
		}
		if err := c.PutU16(pos+2, uint16(v.Type())); err != nil {
			return err
		}
		if err := c.PutU32(pos+4, v.Count()); err != nil {
			return err
		}
		target := pos + 8
		if !tags.Inline(v.Type(), v.Count()) {
			if err := c.PutU32(pos+8, p.dataOff[k]); err != nil {
				return err
			}
			target = int64(p.dataOff[k])
		}
		if err := v.put(c, target); err != nil {
			return core.WithTag(err, e.Tag)
		}
	}

	var next uint32
	if dir.Next >= 0 {
		if np, ok := plans[dir.Next]; ok {
			next = np.offset
		}
	}
	if err := c.PutU32(base+2+int64(len(p.entries))*entrySize, next); err != nil {
		return err
	}

	for tag, img := range p.images {
		data := dir.ImageData[img]
		for s, seg := range data.Segments {
			if err := c.Put(int64(p.blobOff[img][s]), seg); err != nil {
				return core.WithTag(err, tag)
			}
		}
	}
	return nil
}
