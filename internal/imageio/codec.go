package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Format is an export encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	WebP
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case WebP:
		return "webp"
	}
	return "png"
}

// Ext returns the usual file extension including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case WebP:
		return ".webp"
	}
	return ".png"
}

// ParseFormat accepts png, jpeg/jpg and webp.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png", "":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	}
	return PNG, fmt.Errorf("unsupported export format %q", s)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".webp" {
		return WebP, nil
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return PNG, fmt.Errorf("unsupported export format %q", ext)
	}
	switch f {
	case imaging.PNG:
		return PNG, nil
	case imaging.JPEG:
		return JPEG, nil
	}
	return PNG, fmt.Errorf("unsupported export format %q", ext)
}

// EncodeOptions tunes lossy encoders.
type EncodeOptions struct {
	Quality  int
	Lossless bool
}

// DefaultEncodeOptions is used when callers pass a zero value.
var DefaultEncodeOptions = EncodeOptions{Quality: 90}

var errNoImage = errors.New("no image")

// Decode decodes a photograph, applying its EXIF orientation. WebP is
// tried explicitly when the registered decoders fail.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, nil
	}
	return nil, fmt.Errorf("decode image: %w", err)
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, f Format, opts EncodeOptions) error {
	if img == nil {
		return errNoImage
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultEncodeOptions.Quality
	}
	switch f {
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	case WebP:
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.Quality)})
	}
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

// Save writes img to path using the format implied by its extension.
func Save(path string, img image.Image, opts EncodeOptions) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f, opts); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
