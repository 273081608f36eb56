package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/image"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// plainJPEG has no metadata: SOI, a minimal SOS header, scan data, EOI.
var plainJPEG = []byte{
	0xFF, 0xD8,
	0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00,
	0x12, 0x34, 0xFF, 0xD9,
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	outPath, dryRun = "", false
	stripAll, stripGPS, stripThumbnail, stripKeep = false, false, false, nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func load(t *testing.T, path string) *exif.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := image.New(core.FmtJPEG, exif.DecodeOptions{}).LoadDocument(data)
	require.NoError(t, err)
	return doc
}

func TestEditWorkflow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, plainJPEG, 0o644))

	require.NoError(t, run(t, "set", path, "Make=Canon", "GPSLatitudeRef=N", "GPSLatitude=1/1,2/1,3/1"))
	doc := load(t, path)
	v, ok := doc.Get(tags.Image, 0x010F)
	require.True(t, ok)
	assert.Equal(t, exif.ASCII("Canon"), v)
	assert.GreaterOrEqual(t, doc.Find(tags.GPS), 0)

	require.NoError(t, run(t, "get", path, "Make", "Model"))
	require.NoError(t, run(t, "verify", path))
	require.NoError(t, run(t, "segments", path))
	require.NoError(t, run(t, "view", path))

	require.NoError(t, run(t, "strip", "--dry-run", "--gps", path))
	assert.GreaterOrEqual(t, load(t, path).Find(tags.GPS), 0)

	require.NoError(t, run(t, "strip", "--gps", path))
	assert.Negative(t, load(t, path).Find(tags.GPS))

	copyPath := filepath.Join(t.TempDir(), "copy.jpg")
	require.NoError(t, run(t, "remove", "--out", copyPath, path, "Make"))
	_, ok = load(t, copyPath).Get(tags.Image, 0x010F)
	assert.False(t, ok)
	_, ok = load(t, path).Get(tags.Image, 0x010F)
	assert.True(t, ok, "source untouched when --out is set")
}

func TestCommandErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, plainJPEG, 0o644))

	assert.Error(t, run(t, "set", path, "NotATag=1"))
	assert.Error(t, run(t, "set", path, "=oops"))
	assert.ErrorIs(t, run(t, "get", path, "Make"), core.ErrNoExif)
	assert.Error(t, run(t, "tags", "IFD7"))
	assert.Error(t, run(t, "view"))
	assert.NoError(t, run(t, "tags", "GPS"))
	assert.NoError(t, run(t, "formats"))

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	assert.ErrorIs(t, run(t, "segments", txt), core.ErrNotAContainer)
	assert.ErrorIs(t, run(t, "get", txt, "Make"), core.ErrUnsupportedFormat)
}
