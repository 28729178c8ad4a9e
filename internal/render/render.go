package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"strconv"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/geom"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// Scene is everything needed to draw one frame.
type Scene struct {
	Image   image.Image
	View    geom.Transform
	Shapes  []annotation.Shape
	Preview *annotation.Shape
}

// Renderer paints scenes onto surfaces. It is not safe for concurrent use.
type Renderer struct {
	pal       Palette
	labels    bool
	labelFace font.Face

	backdrop *image.RGBA
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLabels numbers each committed shape in drawing order.
func WithLabels(on bool) Option { return func(r *Renderer) { r.labels = on } }

// New creates a Renderer using palette p.
func New(p Palette, opts ...Option) *Renderer {
	r := &Renderer{pal: p}
	for _, o := range opts {
		o(r)
	}
	if p.CheckerSize <= 0 {
		r.pal.CheckerSize = 8
	}
	if r.labels {
		r.labelFace = loadLabelFace(12)
	}
	return r
}

func loadLabelFace(size float64) font.Face {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse label font: %v", err)
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// Palette returns the colours in use.
func (r *Renderer) Palette() Palette { return r.pal }

// SetPalette swaps the colours, for example after a theme change.
func (r *Renderer) SetPalette(p Palette) {
	if p.CheckerSize <= 0 {
		p.CheckerSize = 8
	}
	r.pal = p
	r.backdrop = nil
}

// Render clears s and draws the scene. Without an image only the
// background is drawn.
func (r *Renderer) Render(s *Surface, sc Scene) {
	dc := s.Context()
	dc.Identity()
	dc.SetColor(r.pal.Background)
	dc.Clear()
	if sc.Image == nil || sc.View.Zoom <= 0 {
		return
	}

	b := sc.Image.Bounds()
	r.drawBackdrop(s, coverRect(sc.View, geom.SizeOf(b)))

	dc.Push()
	dc.Translate(sc.View.Pan.X, sc.View.Pan.Y)
	dc.Scale(sc.View.Zoom, sc.View.Zoom)
	dc.DrawImage(sc.Image, -b.Min.X, -b.Min.Y)
	for _, sh := range sc.Shapes {
		drawShape(dc, sh, r.pal.For(sh.Kind))
	}
	if sc.Preview != nil {
		drawShape(dc, *sc.Preview, r.pal.Preview)
	}
	dc.Pop()

	if r.labels {
		for i, sh := range sc.Shapes {
			r.drawLabel(dc, i+1, sc.View.ImageToBuffer(sh.Origin))
		}
	}
}

// Annotate returns a copy of img at its natural size with shapes drawn on
// top. Stroke widths grow with the image so boxes stay visible on large
// photographs.
func (r *Renderer) Annotate(img image.Image, shapes []annotation.Shape) *image.RGBA {
	b := img.Bounds()
	s := NewSurface(b.Dx(), b.Dy())
	dc := s.Context()
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	scale := math.Max(1, math.Min(float64(b.Dx()), float64(b.Dy()))/800)
	for _, sh := range shapes {
		st := r.pal.For(sh.Kind)
		st.LineWidth *= scale
		drawShape(dc, sh, st)
	}
	if r.labels {
		for i, sh := range shapes {
			r.drawLabel(dc, i+1, sh.Origin)
		}
	}
	return s.Image()
}

func drawShape(dc *gg.Context, sh annotation.Shape, st Style) {
	if sh.Kind == annotation.Circle {
		c, radius := sh.CircleGeometry()
		dc.DrawCircle(c.X, c.Y, radius)
	} else {
		dc.DrawRectangle(sh.Origin.X, sh.Origin.Y, sh.Width, sh.Height)
	}
	dc.SetColor(st.Fill)
	dc.FillPreserve()
	dc.SetColor(st.Stroke)
	dc.SetLineWidth(st.LineWidth)
	dc.Stroke()
}

func (r *Renderer) drawLabel(dc *gg.Context, n int, at geom.Point) {
	if r.labelFace == nil {
		return
	}
	dc.SetFontFace(r.labelFace)
	txt := strconv.Itoa(n)
	w, h := dc.MeasureString(txt)
	dc.SetColor(color.RGBA{0, 0, 0, 160})
	dc.DrawRectangle(at.X, at.Y, w+4, h+4)
	dc.Fill()
	dc.SetColor(r.pal.Label)
	dc.DrawString(txt, at.X+2, at.Y+h+1)
}

// coverRect is the smallest pixel rectangle covering an image of the given
// natural size once placed by view.
func coverRect(view geom.Transform, natural geom.Size) image.Rectangle {
	tl := view.ImageToBuffer(geom.Point{})
	br := view.ImageToBuffer(geom.Pt(natural.W, natural.H))
	return image.Rect(
		int(math.Floor(tl.X)), int(math.Floor(tl.Y)),
		int(math.Ceil(br.X)), int(math.Ceil(br.Y)),
	)
}

// drawBackdrop fills rect with a cached checkerboard so transparent pixels
// of the photograph stay visible.
func (r *Renderer) drawBackdrop(s *Surface, rect image.Rectangle) {
	dst := s.Image()
	b := dst.Bounds()
	rect = rect.Intersect(b)
	if rect.Empty() {
		return
	}
	if r.backdrop == nil || r.backdrop.Bounds() != b {
		r.backdrop = image.NewRGBA(b)
		drawCheckerboard(r.backdrop, b, r.pal.CheckerSize, r.pal.CheckerLight, r.pal.CheckerDark)
	}
	draw.Draw(dst, rect, r.backdrop, rect.Min, draw.Src)
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
