// Package cursor provides bounds-checked, byte-order aware access to a
// fixed byte buffer. It is the only place the codec touches raw bytes.
package cursor

import (
	"encoding/binary"
	"math"

	"github.com/ankit-chaubey/exif-surgery/core"
)

// Cursor reads and writes fixed-width values at absolute offsets of a
// buffer. The buffer is never resized: growth is the caller's business.
type Cursor struct {
	buf   []byte
	order binary.ByteOrder
	pos   int
}

// New returns a Cursor over buf using the given byte order.
func New(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// Order returns the cursor's byte order.
func (c *Cursor) Order() binary.ByteOrder { return c.order }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Bytes returns the underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// Pos returns the current sequential offset.
func (c *Cursor) Pos() int { return c.pos }

// Seek moves the sequential offset. Seeking to len(buf) is allowed.
func (c *Cursor) Seek(off int64) error {
	if off < 0 || off > int64(len(c.buf)) {
		return core.Errorf("seek", off, core.ErrOutOfBounds, "buffer length %d", len(c.buf))
	}
	c.pos = int(off)
	return nil
}

// Skip advances the sequential offset by n bytes.
func (c *Cursor) Skip(n int) error {
	return c.Seek(int64(c.pos) + int64(n))
}

// check validates that [off, off+width) lies within the buffer and returns
// off as an int.
func (c *Cursor) check(op string, off int64, width int64) (int, error) {
	if off < 0 || width < 0 || off+width > int64(len(c.buf)) {
		return 0, core.Errorf(op, off, core.ErrOutOfBounds, "need %d bytes, buffer length %d", width, len(c.buf))
	}
	return int(off), nil
}

// Slice returns a view of n bytes at off. The view aliases the buffer.
func (c *Cursor) Slice(off int64, n int64) ([]byte, error) {
	o, err := c.check("slice", off, n)
	if err != nil {
		return nil, err
	}
	return c.buf[o : o+int(n) : o+int(n)], nil
}

func (c *Cursor) U8(off int64) (uint8, error) {
	o, err := c.check("read u8", off, 1)
	if err != nil {
		return 0, err
	}
	return c.buf[o], nil
}

func (c *Cursor) U16(off int64) (uint16, error) {
	o, err := c.check("read u16", off, 2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(c.buf[o:]), nil
}

func (c *Cursor) U32(off int64) (uint32, error) {
	o, err := c.check("read u32", off, 4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(c.buf[o:]), nil
}

func (c *Cursor) U64(off int64) (uint64, error) {
	o, err := c.check("read u64", off, 8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(c.buf[o:]), nil
}

// Rational reads an unsigned numerator/denominator pair.
func (c *Cursor) Rational(off int64) (num, den uint32, err error) {
	o, err := c.check("read rational", off, 8)
	if err != nil {
		return 0, 0, err
	}
	return c.order.Uint32(c.buf[o:]), c.order.Uint32(c.buf[o+4:]), nil
}

// SRational reads a signed numerator/denominator pair.
func (c *Cursor) SRational(off int64) (num, den int32, err error) {
	n, d, err := c.Rational(off)
	return int32(n), int32(d), err
}

func (c *Cursor) Float32(off int64) (float32, error) {
	v, err := c.U32(off)
	return math.Float32frombits(v), err
}

func (c *Cursor) Float64(off int64) (float64, error) {
	v, err := c.U64(off)
	return math.Float64frombits(v), err
}

func (c *Cursor) PutU8(off int64, v uint8) error {
	o, err := c.check("write u8", off, 1)
	if err != nil {
		return err
	}
	c.buf[o] = v
	return nil
}

func (c *Cursor) PutU16(off int64, v uint16) error {
	o, err := c.check("write u16", off, 2)
	if err != nil {
		return err
	}
	c.order.PutUint16(c.buf[o:], v)
	return nil
}

func (c *Cursor) PutU32(off int64, v uint32) error {
	o, err := c.check("write u32", off, 4)
	if err != nil {
		return err
	}
	c.order.PutUint32(c.buf[o:], v)
	return nil
}

func (c *Cursor) PutU64(off int64, v uint64) error {
	o, err := c.check("write u64", off, 8)
	if err != nil {
		return err
	}
	c.order.PutUint64(c.buf[o:], v)
	return nil
}

func (c *Cursor) PutRational(off int64, num, den uint32) error {
	o, err := c.check("write rational", off, 8)
	if err != nil {
		return err
	}
	c.order.PutUint32(c.buf[o:], num)
	c.order.PutUint32(c.buf[o+4:], den)
	return nil
}

func (c *Cursor) PutSRational(off int64, num, den int32) error {
	return c.PutRational(off, uint32(num), uint32(den))
}

// Put copies b into the buffer at off.
func (c *Cursor) Put(off int64, b []byte) error {
	o, err := c.check("write bytes", off, int64(len(b)))
	if err != nil {
		return err
	}
	copy(c.buf[o:], b)
	return nil
}

// NextU16 reads at the sequential offset and advances it.
func (c *Cursor) NextU16() (uint16, error) {
	v, err := c.U16(int64(c.pos))
	if err == nil {
		c.pos += 2
	}
	return v, err
}

// NextU32 reads at the sequential offset and advances it.
func (c *Cursor) NextU32() (uint32, error) {
	v, err := c.U32(int64(c.pos))
	if err == nil {
		c.pos += 4
	}
	return v, err
}
