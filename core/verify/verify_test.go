package verify

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/jpeg"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// baseJPEG is SOI, a minimal SOS header, two bytes of scan data and EOI.
var baseJPEG = []byte{
	0xFF, 0xD8,
	0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00,
	0x12, 0x34, 0xFF, 0xD9,
}

var thumbnail = []byte{0xFF, 0xD8, 0x00, 0x01, 0x02, 0xFF, 0xD9}

func buildFile(t *testing.T, order binary.ByteOrder) ([]byte, *exif.Document) {
	t.Helper()
	doc := exif.New(order)
	require.NoError(t, doc.Set(tags.Image, 0x010F, exif.ASCII("Canon")))
	require.NoError(t, doc.Set(tags.Image, 0x0110, exif.ASCII("EOS 5D")))
	require.NoError(t, doc.Set(tags.Image, 0x0112, exif.Shorts{6}))
	require.NoError(t, doc.Set(tags.Exif, 0x9003, exif.ASCII("2024:01:02 03:04:05")))
	require.NoError(t, doc.Set(tags.Exif, 0x829A, exif.Rationals{{Num: 1, Den: 250}}))
	require.NoError(t, doc.Set(tags.GPS, 0x0001, exif.ASCII("N")))
	require.NoError(t, doc.Set(tags.GPS, 0x0002, exif.Rationals{{Num: 35, Den: 1}, {Num: 41, Den: 1}, {Num: 2859, Den: 100}}))
	doc.SetThumbnail(thumbnail)

	payload, err := exif.Encode(doc)
	require.NoError(t, err)
	file, err := jpeg.RewriteExif(baseJPEG, payload)
	require.NoError(t, err)

	decoded, err := exif.Decode(payload, exif.DecodeOptions{})
	require.NoError(t, err)
	return file, decoded
}

func TestCheckAgrees(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		t.Run(order.String(), func(t *testing.T) {
			file, doc := buildFile(t, order)
			report, err := Check(file, doc, nil)
			require.NoError(t, err)
			assert.True(t, report.OK(), "%v", report.Mismatches)
			assert.GreaterOrEqual(t, report.Checked, 7)
			assert.Empty(t, report.Warning)
		})
	}
}

func TestCheckFindsDifferences(t *testing.T) {
	file, doc := buildFile(t, binary.BigEndian)
	require.NoError(t, doc.Set(tags.Image, 0x010F, exif.ASCII("Nikon")))
	require.NoError(t, doc.Set(tags.Exif, 0x829A, exif.Rationals{{Num: 1, Den: 250}, {Num: 1, Den: 500}}))
	require.True(t, doc.Remove(tags.GPS, 0x0001))
	doc.SetThumbnail([]byte{0xFF, 0xD8, 0xFF, 0xD9})

	report, err := Check(file, doc, tags.New())
	require.NoError(t, err)
	assert.False(t, report.OK())

	reasons := map[string]string{}
	for _, m := range report.Mismatches {
		reasons[m.Field] = m.Reason
	}
	assert.Contains(t, reasons["Make"], "value")
	assert.Contains(t, reasons["ExposureTime"], "count 2")
	assert.Equal(t, "missing from document", reasons["GPSLatitudeRef"])
	assert.Contains(t, reasons["ThumbnailImage"], "4 bytes")
	assert.NotContains(t, reasons, "Model")
}

func TestCheckRejectsNonExif(t *testing.T) {
	_, err := Check([]byte("not an image"), exif.New(binary.BigEndian), nil)
	assert.Error(t, err)
}
