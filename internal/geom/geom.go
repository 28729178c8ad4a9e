// Package geom holds the pure coordinate math shared by the viewport, the
// shape editor and the renderer. Three spaces are involved:
//
//   - display space: client pixels of the window or widget hosting the canvas
//   - buffer space: pixels of the drawing surface, which may be rendered at a
//     different resolution than it is displayed
//   - image space: pixels of the loaded photograph at its natural size
package geom

import (
	"image"
	"math"
)

// Point is a 2D coordinate. The space it lives in is given by context.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromImagePoint converts an integer image.Point.
func FromImagePoint(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Mid returns the midpoint between p and q.
func (p Point) Mid(q Point) Point { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

// Size is a width and height pair.
type Size struct {
	W, H float64
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h float64) Size { return Size{W: w, H: h} }

// SizeOf returns the size of an image rectangle.
func SizeOf(r image.Rectangle) Size { return Size{W: float64(r.Dx()), H: float64(r.Dy())} }

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis aligned rectangle with Min as its top-left corner.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the bounding box of two arbitrary corners.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// FromImageRect converts an integer image.Rectangle.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{Min: FromImagePoint(r.Min), Max: FromImagePoint(r.Max)}
}

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Size { return Size{r.Dx(), r.Dy()} }
func (r Rect) Center() Point { return r.Min.Mid(r.Max) }
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Transform maps image space onto buffer space: first scale by Zoom, then
// translate by Pan. Pan is expressed in buffer pixels.
type Transform struct {
	Zoom float64
	Pan  Point
}

// Identity is the transform used right after an image loads.
var Identity = Transform{Zoom: 1}

// ImageToBuffer is the render direction.
func (t Transform) ImageToBuffer(p Point) Point { return p.Mul(t.Zoom).Add(t.Pan) }

// BufferToImage is the exact inverse of ImageToBuffer.
func (t Transform) BufferToImage(p Point) Point { return p.Sub(t.Pan).Div(t.Zoom) }

// Layout describes where the drawing buffer is shown on screen. Display is
// the rectangle in client pixels, Buffer the pixel size of the surface.
type Layout struct {
	Display Rect
	Buffer  Size
}

// scale returns the buffer pixels per display pixel on each axis. A
// degenerate display rectangle maps one to one.
func (l Layout) scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if d := l.Display.Dx(); d > 0 && l.Buffer.W > 0 {
		sx = l.Buffer.W / d
	}
	if d := l.Display.Dy(); d > 0 && l.Buffer.H > 0 {
		sy = l.Buffer.H / d
	}
	return sx, sy
}

// DisplayToBuffer converts a client coordinate to buffer pixels.
func (l Layout) DisplayToBuffer(p Point) Point {
	sx, sy := l.scale()
	d := p.Sub(l.Display.Min)
	return Point{d.X * sx, d.Y * sy}
}

// BufferToDisplay converts buffer pixels back to a client coordinate.
func (l Layout) BufferToDisplay(p Point) Point {
	sx, sy := l.scale()
	return Point{p.X/sx + l.Display.Min.X, p.Y/sy + l.Display.Min.Y}
}

// ClientToImage runs the full display to image chain.
func ClientToImage(p Point, l Layout, t Transform) Point {
	return t.BufferToImage(l.DisplayToBuffer(p))
}

// ImageToClient runs the full image to display chain.
func ImageToClient(p Point, l Layout, t Transform) Point {
	return l.BufferToDisplay(t.ImageToBuffer(p))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
