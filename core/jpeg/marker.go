// Package jpeg walks the marker stream of a JPEG file, classifies its
// segments and splices metadata payloads back in without touching the
// entropy-coded image data.
package jpeg

import "fmt"

// Marker is the second byte of a JPEG marker (the first is always 0xFF).
type Marker uint8

const (
	// ScanData is not a real marker. It labels the pseudo segment that holds
	// the bytes following the SOS header or EOI, kept verbatim.
	ScanData Marker = 0x00

	TEM   Marker = 0x01
	SOF0  Marker = 0xC0 // SOFn = SOF0+n, n = 0-15 excluding 4, 8 and 12
	DHT   Marker = 0xC4
	JPG   Marker = 0xC8
	DAC   Marker = 0xCC
	RST0  Marker = 0xD0 // RSTn = RST0+n, n = 0-7
	SOI   Marker = 0xD8
	EOI   Marker = 0xD9
	SOS   Marker = 0xDA
	DQT   Marker = 0xDB
	DNL   Marker = 0xDC
	DRI   Marker = 0xDD
	DHP   Marker = 0xDE
	EXP   Marker = 0xDF
	APP0  Marker = 0xE0 // APPn = APP0+n, n = 0-15
	APP1  Marker = 0xE1
	APP2  Marker = 0xE2
	APP13 Marker = 0xED
	JPG0  Marker = 0xF0 // JPGn = JPG0+n, n = 0-13
	COM   Marker = 0xFE
)

var markerNames [256]string

func init() {
	markerNames[ScanData] = "DATA"
	markerNames[TEM] = "TEM"
	markerNames[DHT] = "DHT"
	markerNames[JPG] = "JPG"
	markerNames[DAC] = "DAC"
	markerNames[SOI] = "SOI"
	markerNames[EOI] = "EOI"
	markerNames[SOS] = "SOS"
	markerNames[DQT] = "DQT"
	markerNames[DNL] = "DNL"
	markerNames[DRI] = "DRI"
	markerNames[DHP] = "DHP"
	markerNames[EXP] = "EXP"
	markerNames[COM] = "COM"
	markerNames[0xFF] = "FILL"

	for m := Marker(0x02); m <= 0xBF; m++ {
		markerNames[m] = fmt.Sprintf("RES%02X", uint8(m))
	}
	for m := SOF0; m <= SOF0+0xF; m++ {
		if m == DHT || m == JPG || m == DAC {
			continue
		}
		markerNames[m] = fmt.Sprintf("SOF%d", m-SOF0)
	}
	for m := RST0; m <= RST0+7; m++ {
		markerNames[m] = fmt.Sprintf("RST%d", m-RST0)
	}
	for m := APP0; m <= APP0+0xF; m++ {
		markerNames[m] = fmt.Sprintf("APP%d", m-APP0)
	}
	for m := JPG0; m <= JPG0+0xD; m++ {
		markerNames[m] = fmt.Sprintf("JPG%d", m-JPG0)
	}
}

// Name returns the conventional name of m, e.g. "APP1" or "SOF0".
func (m Marker) Name() string {
	return markerNames[m]
}

func (m Marker) String() string {
	return fmt.Sprintf("%s (0xFF%02X)", m.Name(), uint8(m))
}

// Standalone reports whether m is followed directly by the next marker
// rather than by a length field.
func (m Marker) Standalone() bool {
	return m == SOI || m == EOI || m == TEM || (m >= RST0 && m <= RST0+7)
}
