// Package render draws the photograph, committed annotations and the live
// preview onto an owned drawing surface.
package render

import (
	"image"

	"github.com/example/champimark/internal/geom"
	"github.com/fogleman/gg"
)

// Surface is a drawable buffer of known pixel size. It is owned by whoever
// created it and passed explicitly to the renderer.
type Surface struct {
	img *image.RGBA
	dc  *gg.Context
}

// NewSurface allocates a w by h surface. Sizes below one pixel are raised
// to one.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Resize reallocates the buffer when the size changes.
func (s *Surface) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if s.img != nil && s.img.Bounds().Dx() == w && s.img.Bounds().Dy() == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.dc = gg.NewContextForRGBA(s.img)
}

// Size returns the surface size in buffer pixels.
func (s *Surface) Size() geom.Size { return geom.SizeOf(s.img.Bounds()) }

// Bounds returns the pixel bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Image exposes the pixels drawn by the last render.
func (s *Surface) Image() *image.RGBA { return s.img }

// Context returns the drawing context bound to the buffer.
func (s *Surface) Context() *gg.Context { return s.dc }
