package cursor

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadsHonorByteOrder(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x56, 0x78}

	be := New(buf, binary.BigEndian)
	v16, err := be.U16(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)
	v32, err := be.U32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v32)

	le := New(buf, binary.LittleEndian)
	v16, err = le.U16(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3412), v16)
	v32, err = le.U32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x78563412), v32)
}

func TestOutOfBounds(t *testing.T) {
	c := New(make([]byte, 4), binary.BigEndian)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"u8 past end", func() error { _, err := c.U8(4); return err }},
		{"u16 straddles end", func() error { _, err := c.U16(3); return err }},
		{"u32 straddles end", func() error { _, err := c.U32(1); return err }},
		{"rational too wide", func() error { _, _, err := c.Rational(0); return err }},
		{"negative offset", func() error { _, err := c.U8(-1); return err }},
		{"slice too long", func() error { _, err := c.Slice(2, 3); return err }},
		{"write past end", func() error { return c.PutU32(2, 1) }},
		{"huge offset", func() error { _, err := c.U16(1 << 40); return err }},
		{"seek past end", func() error { return c.Seek(5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrOutOfBounds))
			assert.Equal(t, core.KindBounds, core.KindOf(err))
		})
	}
}

func TestWritesRoundTrip(t *testing.T) {
	buf := make([]byte, 24)
	c := New(buf, binary.LittleEndian)

	require.NoError(t, c.PutU8(0, 0xAB))
	require.NoError(t, c.PutU16(2, 0xBEEF))
	require.NoError(t, c.PutU32(4, 0xDEADBEEF))
	require.NoError(t, c.PutRational(8, 72, 1))
	require.NoError(t, c.PutSRational(16, -1, 3))

	v8, _ := c.U8(0)
	v16, _ := c.U16(2)
	v32, _ := c.U32(4)
	n, d, _ := c.Rational(8)
	sn, sd, _ := c.SRational(16)
	assert.Equal(t, uint8(0xAB), v8)
	assert.Equal(t, uint16(0xBEEF), v16)
	assert.Equal(t, uint32(0xDEADBEEF), v32)
	assert.Equal(t, [2]uint32{72, 1}, [2]uint32{n, d})
	assert.Equal(t, [2]int32{-1, 3}, [2]int32{sn, sd})
	assert.Equal(t, []byte{0xEF, 0xBE}, buf[2:4])
	assert.Len(t, c.Bytes(), 24, "writes never grow the buffer")
}

func TestSequentialReads(t *testing.T) {
	c := New([]byte{0x00, 0x02, 0x00, 0x00, 0x00, 0x08}, binary.BigEndian)

	n, err := c.NextU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), n)
	off, err := c.NextU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(8), off)
	assert.Equal(t, 6, c.Pos())

	_, err = c.NextU16()
	assert.ErrorIs(t, err, core.ErrOutOfBounds)
	assert.Equal(t, 6, c.Pos(), "failed read must not advance")
}

func TestSliceAliasesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	c := New(buf, binary.BigEndian)
	s, err := c.Slice(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, s)
	assert.Equal(t, 2, cap(s))
}
