package exif

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/cursor"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// Value is a decoded tag value. The concrete types below are the only
// implementations; a type switch over them is exhaustive.
type Value interface {
	// Type is the TIFF type the value is encoded with.
	Type() tags.Type
	// Count is the number of values as written in the entry's count field.
	Count() uint32
	fmt.Stringer

	put(c *cursor.Cursor, off int64) error
}

// Rational is an unsigned fraction.
type Rational struct{ Num, Den uint32 }

// SRational is a signed fraction.
type SRational struct{ Num, Den int32 }

func (r Rational) String() string  { return fmt.Sprintf("%d/%d", r.Num, r.Den) }
func (r SRational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }

// Float64 returns the fraction's value, or 0 when the denominator is 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

type (
	Bytes      []uint8
	ASCII      string // stored without the NUL terminator
	Shorts     []uint16
	Longs      []uint32
	Rationals  []Rational
	SBytes     []int8
	Undefined  []byte
	SShorts    []int16
	SLongs     []int32
	SRationals []SRational
	Floats     []float32
	Doubles    []float64
)

func (Bytes) Type() tags.Type      { return tags.Byte }
func (ASCII) Type() tags.Type      { return tags.ASCII }
func (Shorts) Type() tags.Type     { return tags.Short }
func (Longs) Type() tags.Type      { return tags.Long }
func (Rationals) Type() tags.Type  { return tags.Rational }
func (SBytes) Type() tags.Type     { return tags.SByte }
func (Undefined) Type() tags.Type  { return tags.Undefined }
func (SShorts) Type() tags.Type    { return tags.SShort }
func (SLongs) Type() tags.Type     { return tags.SLong }
func (SRationals) Type() tags.Type { return tags.SRational }
func (Floats) Type() tags.Type     { return tags.Float }
func (Doubles) Type() tags.Type    { return tags.Double }

func (v Bytes) Count() uint32      { return uint32(len(v)) }
func (v ASCII) Count() uint32      { return uint32(len(v)) + 1 }
func (v Shorts) Count() uint32     { return uint32(len(v)) }
func (v Longs) Count() uint32      { return uint32(len(v)) }
func (v Rationals) Count() uint32  { return uint32(len(v)) }
func (v SBytes) Count() uint32     { return uint32(len(v)) }
func (v Undefined) Count() uint32  { return uint32(len(v)) }
func (v SShorts) Count() uint32    { return uint32(len(v)) }
func (v SLongs) Count() uint32     { return uint32(len(v)) }
func (v SRationals) Count() uint32 { return uint32(len(v)) }
func (v Floats) Count() uint32     { return uint32(len(v)) }
func (v Doubles) Count() uint32    { return uint32(len(v)) }

// Size is the encoded byte size of v.
func Size(v Value) uint64 {
	return uint64(v.Type().Size()) * uint64(v.Count())
}

// Marshal returns the encoded bytes of v in the given byte order.
func Marshal(v Value, order binary.ByteOrder) ([]byte, error) {
	buf := make([]byte, Size(v))
	if err := v.put(cursor.New(buf, order), 0); err != nil {
		return nil, err
	}
	return buf, nil
}

func (v Bytes) put(c *cursor.Cursor, off int64) error { return c.Put(off, v) }

func (v ASCII) put(c *cursor.Cursor, off int64) error {
	if err := c.Put(off, []byte(v)); err != nil {
		return err
	}
	return c.PutU8(off+int64(len(v)), 0)
}

func (v Shorts) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU16(off+int64(i)*2, x); err != nil {
			return err
		}
	}
	return nil
}

func (v Longs) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU32(off+int64(i)*4, x); err != nil {
			return err
		}
	}
	return nil
}

func (v Rationals) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutRational(off+int64(i)*8, x.Num, x.Den); err != nil {
			return err
		}
	}
	return nil
}

func (v SBytes) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU8(off+int64(i), uint8(x)); err != nil {
			return err
		}
	}
	return nil
}

func (v Undefined) put(c *cursor.Cursor, off int64) error { return c.Put(off, v) }

func (v SShorts) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU16(off+int64(i)*2, uint16(x)); err != nil {
			return err
		}
	}
	return nil
}

func (v SLongs) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU32(off+int64(i)*4, uint32(x)); err != nil {
			return err
		}
	}
	return nil
}

func (v SRationals) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutSRational(off+int64(i)*8, x.Num, x.Den); err != nil {
			return err
		}
	}
	return nil
}

func (v Floats) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU32(off+int64(i)*4, math.Float32bits(x)); err != nil {
			return err
		}
	}
	return nil
}

func (v Doubles) put(c *cursor.Cursor, off int64) error {
	for i, x := range v {
		if err := c.PutU64(off+int64(i)*8, math.Float64bits(x)); err != nil {
			return err
		}
	}
	return nil
}

// decodeValue reads count values of type t from raw, which is exactly
// count*t.Size() bytes long.
func decodeValue(t tags.Type, count uint32, raw []byte, order binary.ByteOrder) (Value, error) {
	c := cursor.New(raw, order)
	n := int(count)
	switch t {
	case tags.Byte:
		return Bytes(append([]byte(nil), raw...)), nil
	case tags.ASCII:
		s := raw
		if len(s) > 0 && s[len(s)-1] == 0 {
			s = s[:len(s)-1]
		}
		return ASCII(s), nil
	case tags.Undefined:
		return Undefined(append([]byte(nil), raw...)), nil
	case tags.SByte:
		v := make(SBytes, n)
		for i := range v {
			v[i] = int8(raw[i])
		}
		return v, nil
	case tags.Short:
		v := make(Shorts, n)
		for i := range v {
			x, err := c.U16(int64(i) * 2)
			if err != nil {
				return nil, err
			}
			v[i] = x
		}
		return v, nil
	case tags.SShort:
		v := make(SShorts, n)
		for i := range v {
			x, err := c.U16(int64(i) * 2)
			if err != nil {
				return nil, err
			}
			v[i] = int16(x)
		}
		return v, nil
	case tags.Long:
		v := make(Longs, n)
		for i := range v {
			x, err := c.U32(int64(i) * 4)
			if err != nil {
				return nil, err
			}
			v[i] = x
		}
		return v, nil
	case tags.SLong:
		v := make(SLongs, n)
		for i := range v {
			x, err := c.U32(int64(i) * 4)
			if err != nil {
				return nil, err
			}
			v[i] = int32(x)
		}
		return v, nil
	case tags.Rational:
		v := make(Rationals, n)
		for i := range v {
			num, den, err := c.Rational(int64(i) * 8)
			if err != nil {
				return nil, err
			}
			v[i] = Rational{num, den}
		}
		return v, nil
	case tags.SRational:
		v := make(SRationals, n)
		for i := range v {
			num, den, err := c.SRational(int64(i) * 8)
			if err != nil {
				return nil, err
			}
			v[i] = SRational{num, den}
		}
		return v, nil
	case tags.Float:
		v := make(Floats, n)
		for i := range v {
			x, err := c.Float32(int64(i) * 4)
			if err != nil {
				return nil, err
			}
			v[i] = x
		}
		return v, nil
	case tags.Double:
		v := make(Doubles, n)
		for i := range v {
			x, err := c.Float64(int64(i) * 8)
			if err != nil {
				return nil, err
			}
			v[i] = x
		}
		return v, nil
	}
	return nil, core.Errorf("decode value", -1, core.ErrUnsupportedDataType, "type code %d", uint16(t))
}

// ─── Text form ───────────────────────────────────────────────────────────────

func joinValues[T any](v []T, format func(T) string) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = format(x)
	}
	return strings.Join(parts, ", ")
}

func (v Bytes) String() string {
	return joinValues(v, func(x uint8) string { return strconv.Itoa(int(x)) })
}

func (v ASCII) String() string { return string(v) }

func (v Shorts) String() string {
	return joinValues(v, func(x uint16) string { return strconv.Itoa(int(x)) })
}

func (v Longs) String() string {
	return joinValues(v, func(x uint32) string { return strconv.FormatUint(uint64(x), 10) })
}

func (v Rationals) String() string {
	return joinValues(v, Rational.String)
}

func (v SBytes) String() string {
	return joinValues(v, func(x int8) string { return strconv.Itoa(int(x)) })
}

// String shows printable undefined data as text and everything else as hex,
// truncated after 64 bytes.
func (v Undefined) String() string {
	printable := true
	for _, b := range v {
		if (b < 0x20 || b > 0x7E) && b != 0 {
			printable = false
			break
		}
	}
	if printable {
		return strings.TrimRight(string(v), "\x00")
	}
	const limit = 64
	if len(v) > limit {
		return fmt.Sprintf("% X ... (%d bytes)", []byte(v[:limit]), len(v))
	}
	return fmt.Sprintf("% X", []byte(v))
}

func (v SShorts) String() string {
	return joinValues(v, func(x int16) string { return strconv.Itoa(int(x)) })
}

func (v SLongs) String() string {
	return joinValues(v, func(x int32) string { return strconv.Itoa(int(x)) })
}

func (v SRationals) String() string {
	return joinValues(v, SRational.String)
}

func (v Floats) String() string {
	return joinValues(v, func(x float32) string { return strconv.FormatFloat(float64(x), 'g', -1, 32) })
}

func (v Doubles) String() string {
	return joinValues(v, func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) })
}
