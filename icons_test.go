package sage

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 30, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestGenerateFavicon(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeTestPNG(t, src, 300, 120)

	dst := filepath.Join(dir, "public", "favicon.png")
	require.NoError(t, GenerateFavicon(src, dst, 64))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
}

func TestGenerateFaviconICO(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	writeTestPNG(t, src, 120, 300)

	dst := filepath.Join(dir, "favicon.ico")
	require.NoError(t, GenerateFaviconICO(src, dst, 48))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Greater(t, len(data), 22)
	assert.Equal(t, []byte{0, 0, 1, 0, 1, 0}, data[:6])
	assert.Equal(t, byte(48), data[6])
	assert.Equal(t, byte(48), data[7])
	assert.EqualValues(t, len(data)-22, binary.LittleEndian.Uint32(data[14:18]))
	assert.EqualValues(t, 22, binary.LittleEndian.Uint32(data[18:22]))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data[22:]))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 48, cfg.Width)
}

func TestGenerateFaviconICORejectsLargeSize(t *testing.T) {
	err := GenerateFaviconICO("unused.png", filepath.Join(t.TempDir(), "f.ico"), 512)
	assert.Error(t, err)
}

func TestGenerateFaviconBadSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "not-an-image.png")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	err := GenerateFavicon(src, filepath.Join(dir, "out.png"), 32)
	assert.ErrorContains(t, err, "decode favicon source")
}

func TestCenterSquare(t *testing.T) {
	assert.Equal(t, image.Rect(90, 0, 210, 120), centerSquare(image.Rect(0, 0, 300, 120)))
	assert.Equal(t, image.Rect(0, 40, 100, 140), centerSquare(image.Rect(0, 0, 100, 180)))
	assert.Equal(t, image.Rect(0, 0, 50, 50), centerSquare(image.Rect(0, 0, 50, 50)))
}
