package core

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("other"), KindUnknown},
		{ErrNotAContainer, KindStructural},
		{Errorf("scan", 4, ErrMalformedContainer, "bad length"), KindStructural},
		{fmt.Errorf("wrapped: %w", Errorf("read u16", 9, ErrOutOfBounds, "")), KindBounds},
		{WithTag(Errorf("decode IFD", 8, ErrCyclicDirectory, ""), 0x8769), KindIntegrity},
		{ErrTooDeep, KindIntegrity},
		{Errorf("frame segment", -1, ErrPayloadTooLarge, "length 70000"), KindCapacity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := WithTag(Errorf("decode entry", 26, ErrUnsupportedDataType, "type code %d", 13), 0x0112)
	assert.Equal(t, "decode entry at offset 26 (tag 0x0112): unsupported data type: type code 13", err.Error())
	assert.True(t, errors.Is(err, ErrUnsupportedDataType))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, int64(26), e.Offset)

	bare := WithTag(errors.New("boom"), 0x010F)
	assert.Equal(t, "tag (tag 0x010F): boom", bare.Error())
	assert.Nil(t, WithTag(nil, 1))
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"a.bin":  {0xFF, 0xD8, 0xFF, 0xE0},
		"b.bin":  {0x49, 0x49, 0x2A, 0x00, 0x08},
		"c.bin":  {0x4D, 0x4D, 0x00, 0x2A, 0x00},
		"d.bin":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
		"e.bin":  []byte("GIF89a.."),
		"f.bin":  []byte("RIFF\x00\x00\x00\x00WEBPVP8 "),
		"g.jpeg": []byte("not really"),
		"h.bin":  []byte("plain text"),
	}
	want := map[string]FormatID{
		"a.bin":  FmtJPEG,
		"b.bin":  FmtTIFF,
		"c.bin":  FmtTIFF,
		"d.bin":  FmtPNG,
		"e.bin":  FmtGIF,
		"f.bin":  FmtWebP,
		"g.jpeg": FmtJPEG,
		"h.bin":  FmtUnknown,
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		got, err := DetectFormat(path)
		require.NoError(t, err)
		assert.Equal(t, want[name], got, name)
	}

	_, err := DetectFormat(filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}

func sampleMetadata() *Metadata {
	return &Metadata{
		FilePath: "photo.jpg",
		Format:   "JPEG",
		Fields: []MetaField{
			{Key: "Make", Value: "Canon", Category: "IFD0", Type: "ASCII", Tag: 0x010F, Editable: true},
			{Key: "GPSLatitudeRef", Value: "N", Category: "GPS", Type: "ASCII", Tag: 0x0001, Editable: true},
		},
	}
}

func TestPrinterFormats(t *testing.T) {
	_, err := NewPrinter("xml", false)
	assert.Error(t, err)

	var buf bytes.Buffer
	p, err := NewPrinter("", false)
	require.NoError(t, err)
	p.Writer = &buf
	require.NoError(t, p.PrintMetadata(sampleMetadata()))
	assert.Contains(t, buf.String(), "── GPS ──")
	assert.Contains(t, buf.String(), "Canon [editable]")

	buf.Reset()
	p.Format = OutputYAML
	require.NoError(t, p.PrintMetadata(sampleMetadata()))
	var back Metadata
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *sampleMetadata(), back)

	buf.Reset()
	p.Format = OutputJSON
	require.NoError(t, p.PrintMetadata(sampleMetadata()))
	assert.Contains(t, buf.String(), `"key": "Make"`)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	p := &Printer{Format: OutputTable, Writer: &buf}
	require.NoError(t, p.PrintTable([]string{"MARKER", "OFFSET"}, [][]string{{"SOI", "0"}, {"APP1", "2"}}))
	assert.Equal(t, "MARKER  OFFSET\n------  ------\nSOI     0\nAPP1    2\n", buf.String())
}

func TestParseKV(t *testing.T) {
	k, v, ok := ParseKV(" Make = Canon EOS ")
	require.True(t, ok)
	assert.Equal(t, "Make", k)
	assert.Equal(t, "Canon EOS", v)

	_, _, ok = ParseKV("=x")
	assert.False(t, ok)
	assert.Equal(t, "b", ResolveOutPath("a", "b"))
	assert.Equal(t, "a", ResolveOutPath("a", ""))
}
