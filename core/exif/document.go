// Package exif decodes and encodes TIFF/Exif Image File Directories.
//
// A payload is decoded into a Document: an arena of Directory values that
// refer to each other by index, mirroring how the on-disk IFDs refer to
// each other by offset. Tag edits only touch the in-memory entries; Encode
// is the only place bytes are produced.
package exif

import (
	"encoding/binary"
	"sort"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// Entry is one IFD entry with its decoded value.
type Entry struct {
	Tag   uint16
	Value Value
}

// Link connects a parent directory to a sub-IFD through a pointer tag.
type Link struct {
	Tag uint16
	Dir int
}

// ImageData holds the blobs referenced by an offset/byte-count tag pair,
// such as the Exif thumbnail or TIFF strips.
type ImageData struct {
	tags.ImagePair
	Segments [][]byte
}

// Directory is one decoded IFD. Pointer entries are not part of Entries;
// they are represented by Children and synthesized again on encode.
type Directory struct {
	Namespace tags.Namespace
	Offset    uint32 // position in the source payload, 0 for new directories
	Entries   []Entry
	Children  []Link
	ImageData []ImageData
	Next      int // index of the next IFD in the chain, -1 for none
}

// Range is a byte range of the host file.
type Range struct {
	Offset int64
	Length int64
}

// Document is the decoded directory tree. Dirs[0] is the root (IFD0).
type Document struct {
	Order  binary.ByteOrder
	Dirs   []Directory
	Source Range
	// Warnings collects sub-IFD problems skipped under
	// DecodeOptions.SkipBadSubIFDs. It is nil when nothing was skipped.
	Warnings error
}

// New returns a document with a single empty root directory.
func New(order binary.ByteOrder) *Document {
	return &Document{
		Order: order,
		Dirs:  []Directory{{Namespace: tags.Image, Next: -1}},
	}
}

func (d *Document) addDir(ns tags.Namespace, offset uint32) int {
	d.Dirs = append(d.Dirs, Directory{Namespace: ns, Offset: offset, Next: -1})
	return len(d.Dirs) - 1
}

// Find returns the index of the first directory of ns reachable from the
// root, or -1.
func (d *Document) Find(ns tags.Namespace) int {
	idx := -1
	d.walkDirs(func(i int) bool {
		if d.Dirs[i].Namespace == ns {
			idx = i
			return false
		}
		return true
	})
	return idx
}

// walkDirs visits reachable directories root first, children before the
// next IFD. It stops when fn returns false.
func (d *Document) walkDirs(fn func(int) bool) {
	if len(d.Dirs) == 0 {
		return
	}
	seen := make([]bool, len(d.Dirs))
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i < 0 || i >= len(d.Dirs) || seen[i] {
			continue
		}
		seen[i] = true
		if !fn(i) {
			return
		}
		dir := &d.Dirs[i]
		if dir.Next >= 0 {
			stack = append(stack, dir.Next)
		}
		for c := len(dir.Children) - 1; c >= 0; c-- {
			stack = append(stack, dir.Children[c].Dir)
		}
	}
}

// order returns reachable directory indexes in encode order.
func (d *Document) order() []int {
	var out []int
	d.walkDirs(func(i int) bool {
		out = append(out, i)
		return true
	})
	return out
}

func (dir *Directory) index(tag uint16) int {
	for i, e := range dir.Entries {
		if e.Tag == tag {
			return i
		}
	}
	return -1
}

// Get returns the value of tag in the first directory of ns. Absence is
// reported with ok == false, never as an error.
func (d *Document) Get(ns tags.Namespace, tag uint16) (Value, bool) {
	di := d.Find(ns)
	if di < 0 {
		return nil, false
	}
	dir := &d.Dirs[di]
	if i := dir.index(tag); i >= 0 {
		return dir.Entries[i].Value, true
	}
	return nil, false
}

// Set inserts or overwrites tag in the directory of ns, creating that
// directory (and its parents) when needed. New entries are kept in tag
// order.
func (d *Document) Set(ns tags.Namespace, tag uint16, v Value) error {
	if _, ok := tags.SubIFD(tag); ok {
		return core.WithTag(core.Errorf("set", -1, core.ErrPointerTag, ""), tag)
	}
	if v == nil || !v.Type().Valid() {
		return core.WithTag(core.Errorf("set", -1, core.ErrUnsupportedDataType, ""), tag)
	}
	di := d.ensure(ns)
	dir := &d.Dirs[di]
	if i := dir.index(tag); i >= 0 {
		dir.Entries[i].Value = v
		return nil
	}
	pos := sort.Search(len(dir.Entries), func(i int) bool { return dir.Entries[i].Tag > tag })
	dir.Entries = append(dir.Entries, Entry{})
	copy(dir.Entries[pos+1:], dir.Entries[pos:])
	dir.Entries[pos] = Entry{Tag: tag, Value: v}
	return nil
}

// Remove deletes tag from the directory of ns and reports whether it was
// present. A directory left without entries or children is dropped.
func (d *Document) Remove(ns tags.Namespace, tag uint16) bool {
	di := d.Find(ns)
	if di < 0 {
		return false
	}
	dir := &d.Dirs[di]
	i := dir.index(tag)
	if i < 0 {
		return false
	}
	dir.Entries = append(dir.Entries[:i], dir.Entries[i+1:]...)
	for p := range dir.ImageData {
		if dir.ImageData[p].OffsetTag == tag {
			dir.ImageData = append(dir.ImageData[:p], dir.ImageData[p+1:]...)
			break
		}
	}
	if di > 0 && len(dir.Entries) == 0 && len(dir.Children) == 0 {
		d.prune()
	}
	return true
}

// RemoveNamespace unlinks the directory of ns (and everything below it).
// For Thumbnail the IFD1 chain is cut.
func (d *Document) RemoveNamespace(ns tags.Namespace) bool {
	di := d.Find(ns)
	if di <= 0 {
		return false
	}
	removed := false
	for i := range d.Dirs {
		dir := &d.Dirs[i]
		if dir.Next == di {
			dir.Next = -1
			removed = true
		}
		for c := 0; c < len(dir.Children); c++ {
			if dir.Children[c].Dir == di {
				dir.Children = append(dir.Children[:c], dir.Children[c+1:]...)
				c--
				removed = true
			}
		}
	}
	return removed
}

// ensure returns the index of the directory for ns, creating and linking
// it if it does not exist.
func (d *Document) ensure(ns tags.Namespace) int {
	if len(d.Dirs) == 0 {
		d.Dirs = []Directory{{Namespace: tags.Image, Next: -1}}
	}
	if i := d.Find(ns); i >= 0 {
		return i
	}
	if ns == tags.Thumbnail {
		i := d.addDir(tags.Thumbnail, 0)
		d.Dirs[i].Next = d.Dirs[0].Next
		d.Dirs[0].Next = i
		return i
	}
	ptr, parentNS, ok := tags.PointerTag(ns)
	if !ok {
		return 0
	}
	parent := d.ensure(parentNS)
	i := d.addDir(ns, 0)
	d.Dirs[parent].Children = append(d.Dirs[parent].Children, Link{Tag: ptr, Dir: i})
	return i
}

// StripAll clears every entry at every level and drops the directories
// that become empty, leaving an empty root. Applying it twice yields the
// same document as applying it once.
func (d *Document) StripAll() {
	if len(d.Dirs) == 0 {
		d.Dirs = []Directory{{Namespace: tags.Image, Next: -1}}
		return
	}
	for i := range d.Dirs {
		d.Dirs[i].Entries = nil
		d.Dirs[i].ImageData = nil
	}
	d.prune()
}

// Retain removes every entry for which keep returns false, together with
// image data whose offset tag is gone, then drops directories left empty.
func (d *Document) Retain(keep func(ns tags.Namespace, e Entry) bool) {
	if len(d.Dirs) == 0 {
		d.Dirs = []Directory{{Namespace: tags.Image, Next: -1}}
		return
	}
	for i := range d.Dirs {
		dir := &d.Dirs[i]
		kept := dir.Entries[:0]
		for _, e := range dir.Entries {
			if keep(dir.Namespace, e) {
				kept = append(kept, e)
			}
		}
		dir.Entries = kept
		images := dir.ImageData[:0]
		for _, data := range dir.ImageData {
			if dir.index(data.OffsetTag) >= 0 {
				images = append(images, data)
			}
		}
		dir.ImageData = images
	}
	d.prune()
}

// prune drops directories without entries or children, bottom up, and
// compacts the arena to the reachable directories. The root is kept.
func (d *Document) prune() {
	var empty func(i int, seen map[int]bool) bool
	empty = func(i int, seen map[int]bool) bool {
		if seen[i] {
			return true
		}
		seen[i] = true
		dir := &d.Dirs[i]
		kept := dir.Children[:0]
		for _, l := range dir.Children {
			if !empty(l.Dir, seen) {
				kept = append(kept, l)
			}
		}
		dir.Children = kept
		if dir.Next >= 0 && empty(dir.Next, seen) {
			dir.Next = d.Dirs[dir.Next].Next
		}
		return len(dir.Entries) == 0 && len(dir.Children) == 0 && dir.Next < 0
	}
	empty(0, map[int]bool{})
	d.compact()
}

// compact rebuilds the arena so that it holds only reachable directories,
// in encode order.
func (d *Document) compact() {
	order := d.order()
	remap := make(map[int]int, len(order))
	for n, i := range order {
		remap[i] = n
	}
	dirs := make([]Directory, len(order))
	for n, i := range order {
		dir := d.Dirs[i]
		if dir.Next >= 0 {
			dir.Next = remap[dir.Next]
		}
		links := make([]Link, 0, len(dir.Children))
		for _, l := range dir.Children {
			links = append(links, Link{Tag: l.Tag, Dir: remap[l.Dir]})
		}
		dir.Children = links
		dirs[n] = dir
	}
	d.Dirs = dirs
}

// Walk calls fn for every entry of every reachable directory.
func (d *Document) Walk(fn func(ns tags.Namespace, e Entry) error) error {
	var err error
	d.walkDirs(func(i int) bool {
		for _, e := range d.Dirs[i].Entries {
			if err = fn(d.Dirs[i].Namespace, e); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

// Len returns the number of entries in reachable directories.
func (d *Document) Len() int {
	n := 0
	d.walkDirs(func(i int) bool {
		n += len(d.Dirs[i].Entries)
		return true
	})
	return n
}

// Thumbnail returns the JPEG thumbnail referenced from IFD1.
func (d *Document) Thumbnail() ([]byte, bool) {
	di := d.Find(tags.Thumbnail)
	if di < 0 {
		return nil, false
	}
	for _, data := range d.Dirs[di].ImageData {
		if data.OffsetTag == 0x0201 && len(data.Segments) == 1 {
			return data.Segments[0], true
		}
	}
	return nil, false
}

// SetThumbnail stores jpeg as the IFD1 thumbnail, creating IFD1 when
// needed. The offset tag is placeholder data until Encode relocates it.
func (d *Document) SetThumbnail(jpeg []byte) {
	di := d.ensure(tags.Thumbnail)
	_ = d.Set(tags.Thumbnail, 0x0103, Shorts{6})
	_ = d.Set(tags.Thumbnail, 0x0201, Longs{0})
	_ = d.Set(tags.Thumbnail, 0x0202, Longs{uint32(len(jpeg))})
	dir := &d.Dirs[di]
	data := ImageData{
		ImagePair: tags.ImagePair{OffsetTag: 0x0201, SizeTag: 0x0202},
		Segments:  [][]byte{append([]byte(nil), jpeg...)},
	}
	for k := range dir.ImageData {
		if dir.ImageData[k].OffsetTag == 0x0201 {
			dir.ImageData[k] = data
			return
		}
	}
	dir.ImageData = append(dir.ImageData, data)
}
