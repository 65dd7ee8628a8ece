package sage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

const (
	faviconSize    = 192
	faviconICOSize = 48
)

// GenerateFavicon decodes src, crops it to a centered square, scales it to
// size x size and writes it to dst as PNG.
func GenerateFavicon(src, dst string, size int) error {
	data, err := scaledPNG(src, size)
	if err != nil {
		return err
	}
	return writeIcon(dst, data)
}

// GenerateFaviconICO is GenerateFavicon for favicon.ico: a single-image ICO
// with a PNG payload. size must be at most 256.
func GenerateFaviconICO(src, dst string, size int) error {
	if size <= 0 || size > 256 {
		return fmt.Errorf("ico size %d out of range", size)
	}
	data, err := scaledPNG(src, size)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	// ICONDIR then one ICONDIRENTRY; 0 in the width/height bytes means 256.
	dim := byte(size % 256)
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	buf.Write([]byte{dim, dim, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(data)), 22})
	buf.Write(data)
	return writeIcon(dst, buf.Bytes())
}

func scaledPNG(src string, size int) ([]byte, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open favicon source: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode favicon source: %w", err)
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), img, centerSquare(img.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode favicon: %w", err)
	}
	return buf.Bytes(), nil
}

func writeIcon(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create favicon dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write favicon: %w", err)
	}
	return nil
}

func centerSquare(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	switch {
	case w > h:
		x := b.Min.X + (w-h)/2
		return image.Rect(x, b.Min.Y, x+h, b.Max.Y)
	case h > w:
		y := b.Min.Y + (h-w)/2
		return image.Rect(b.Min.X, y, b.Max.X, y+w)
	}
	return b
}

// ensureFavicon generates favicon.png and favicon.ico in the static dir from
// FaviconSource when the source is configured and a file does not exist yet.
// Missing files are otherwise served from the embedded defaults.
func (a *App) ensureFavicon() error {
	if a.Config.FaviconSource == "" {
		return nil
	}
	icons := []struct {
		name string
		size int
		gen  func(src, dst string, size int) error
	}{
		{"favicon.png", faviconSize, GenerateFavicon},
		{"favicon.ico", faviconICOSize, GenerateFaviconICO},
	}
	for _, icon := range icons {
		dst := filepath.Join(a.Config.StaticDir, icon.name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := icon.gen(a.Config.FaviconSource, dst, icon.size); err != nil {
			return err
		}
		a.Log.Info().Str("path", dst).Int("size", icon.size).Msg("generated favicon")
	}
	return nil
}
