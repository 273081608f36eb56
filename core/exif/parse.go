package exif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// ParseValue converts user text into a value of type t. Lists are comma
// separated, integers are decimal or 0x-prefixed hex, rationals are written
// "num/den" (a plain integer means den 1). Undefined takes raw text unless
// the text is a comma separated byte list.
func ParseValue(t tags.Type, text string) (Value, error) {
	if t == tags.ASCII {
		return ASCII(text), nil
	}
	if t == tags.Undefined {
		if strings.Contains(text, ",") {
			if v, err := parseList(text, func(s string) (byte, error) { return parseUint[byte](s, 8) }); err == nil {
				return Undefined(v), nil
			}
		}
		return Undefined(text), nil
	}

	var (
		v   Value
		err error
	)
	switch t {
	case tags.Byte:
		var b []byte
		b, err = parseList(text, func(s string) (byte, error) { return parseUint[byte](s, 8) })
		v = Bytes(b)
	case tags.Short:
		var s []uint16
		s, err = parseList(text, func(s string) (uint16, error) { return parseUint[uint16](s, 16) })
		v = Shorts(s)
	case tags.Long:
		var l []uint32
		l, err = parseList(text, func(s string) (uint32, error) { return parseUint[uint32](s, 32) })
		v = Longs(l)
	case tags.SByte:
		var b []int8
		b, err = parseList(text, func(s string) (int8, error) { return parseInt[int8](s, 8) })
		v = SBytes(b)
	case tags.SShort:
		var s []int16
		s, err = parseList(text, func(s string) (int16, error) { return parseInt[int16](s, 16) })
		v = SShorts(s)
	case tags.SLong:
		var l []int32
		l, err = parseList(text, func(s string) (int32, error) { return parseInt[int32](s, 32) })
		v = SLongs(l)
	case tags.Rational:
		var r []Rational
		r, err = parseList(text, parseRational)
		v = Rationals(r)
	case tags.SRational:
		var r []SRational
		r, err = parseList(text, parseSRational)
		v = SRationals(r)
	case tags.Float:
		var f []float32
		f, err = parseList(text, func(s string) (float32, error) {
			x, err := strconv.ParseFloat(s, 32)
			return float32(x), err
		})
		v = Floats(f)
	case tags.Double:
		var f []float64
		f, err = parseList(text, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		v = Doubles(f)
	default:
		return nil, core.Errorf("parse value", -1, core.ErrUnsupportedDataType, "type %s", t)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s value %q: %w", t, text, err)
	}
	return v, nil
}

func parseList[T any](text string, parse func(string) (T, error)) ([]T, error) {
	fields := strings.Split(text, ",")
	out := make([]T, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		x, err := parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", text)
	}
	return out, nil
}

func parseUint[T uint8 | uint16 | uint32](s string, bits int) (T, error) {
	base := 10
	if h, ok := cutHex(s); ok {
		s, base = h, 16
	}
	x, err := strconv.ParseUint(s, base, bits)
	return T(x), err
}

func parseInt[T int8 | int16 | int32](s string, bits int) (T, error) {
	x, err := strconv.ParseInt(s, 10, bits)
	return T(x), err
}

func cutHex(s string) (string, bool) {
	if h, ok := strings.CutPrefix(s, "0x"); ok {
		return h, true
	}
	return strings.CutPrefix(s, "0X")
}

func splitFraction(s string) (string, string) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return s, "1"
	}
	return strings.TrimSpace(num), strings.TrimSpace(den)
}

func parseRational(s string) (Rational, error) {
	n, d := splitFraction(s)
	num, err := parseUint[uint32](n, 32)
	if err != nil {
		return Rational{}, err
	}
	den, err := parseUint[uint32](d, 32)
	return Rational{num, den}, err
}

func parseSRational(s string) (SRational, error) {
	n, d := splitFraction(s)
	num, err := parseInt[int32](n, 32)
	if err != nil {
		return SRational{}, err
	}
	den, err := parseInt[int32](d, 32)
	return SRational{num, den}, err
}

// Format renders v for display. Whole rationals drop their "/1". Numeric
// and ASCII values parse back to v with ParseValue; Undefined does not, as
// binary data is shown as hex and trailing NULs are trimmed from text.
func Format(v Value) string {
	switch x := v.(type) {
	case Rationals:
		return joinValues(x, func(r Rational) string {
			if r.Den == 1 {
				return strconv.FormatUint(uint64(r.Num), 10)
			}
			return r.String()
		})
	case SRationals:
		return joinValues(x, func(r SRational) string {
			if r.Den == 1 {
				return strconv.Itoa(int(r.Num))
			}
			return r.String()
		})
	case nil:
		return ""
	}
	return v.String()
}
