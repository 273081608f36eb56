package jpeg

import (
	"encoding/binary"
	"fmt"

	"github.com/ankit-chaubey/exif-surgery/core/cursor"
)

// DensityUnit is the unit of the JFIF X/Y density fields.
type DensityUnit uint8

const (
	DensityNone   DensityUnit = 0 // aspect ratio only
	PixelsPerInch DensityUnit = 1
	PixelsPerCm   DensityUnit = 2
)

func (u DensityUnit) String() string {
	switch u {
	case DensityNone:
		return "none"
	case PixelsPerInch:
		return "inch"
	case PixelsPerCm:
		return "cm"
	}
	return "unknown"
}

// JFIF is the content of a JFIF APP0 segment.
type JFIF struct {
	Major, Minor           uint8
	Unit                   DensityUnit
	XDensity, YDensity     uint16
	XThumbnail, YThumbnail uint8
	// Thumbnail is the uncompressed 24-bit RGB thumbnail, 3*X*Y bytes.
	Thumbnail []byte
}

// Version returns the version as written in documentation, e.g. "1.02".
func (j *JFIF) Version() string {
	return fmt.Sprintf("%d.%02d", j.Major, j.Minor)
}

// ParseJFIF decodes the body of a JFIF segment (the bytes after "JFIF\0").
func ParseJFIF(body []byte) (*JFIF, error) {
	c := cursor.New(body, binary.BigEndian)
	var (
		j   JFIF
		err error
	)
	read8 := func(off int64, dst *uint8) {
		if err == nil {
			*dst, err = c.U8(off)
		}
	}
	read16 := func(off int64, dst *uint16) {
		if err == nil {
			*dst, err = c.U16(off)
		}
	}
	var unit uint8
	read8(0, &j.Major)
	read8(1, &j.Minor)
	read8(2, &unit)
	read16(3, &j.XDensity)
	read16(5, &j.YDensity)
	read8(7, &j.XThumbnail)
	read8(8, &j.YThumbnail)
	if err != nil {
		return nil, fmt.Errorf("JFIF header: %w", err)
	}
	j.Unit = DensityUnit(unit)

	if n := 3 * int64(j.XThumbnail) * int64(j.YThumbnail); n > 0 {
		thumb, err := c.Slice(9, n)
		if err != nil {
			return nil, fmt.Errorf("JFIF %dx%d thumbnail: %w", j.XThumbnail, j.YThumbnail, err)
		}
		j.Thumbnail = append([]byte(nil), thumb...)
	}
	return &j, nil
}
