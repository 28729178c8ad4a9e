// Package viewport owns the zoom level and pan offset used to show an image
// on a canvas. It never looks at annotations.
package viewport

import (
	"math"

	"github.com/example/champimark/internal/geom"
)

const (
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 10
)

// Controller tracks the transform from image space to buffer space. All
// operations are no-ops until an image has been loaded.
type Controller struct {
	zoom   float64
	pan    geom.Point
	canvas geom.Size
	image  geom.Size
	loaded bool

	minZoom, maxZoom float64
	onChange         func(geom.Transform)
}

// Option configures a Controller.
type Option func(*Controller)

// WithZoomLimits bounds the zoom level. Invalid limits are ignored.
func WithZoomLimits(min, max float64) Option {
	return func(c *Controller) {
		if min > 0 && max >= min {
			c.minZoom, c.maxZoom = min, max
		}
	}
}

// WithCanvasSize sets the initial canvas size in buffer pixels.
func WithCanvasSize(s geom.Size) Option { return func(c *Controller) { c.canvas = s } }

// OnChange registers a callback fired whenever zoom or pan changes.
func OnChange(fn func(geom.Transform)) Option { return func(c *Controller) { c.onChange = fn } }

// New creates a Controller with the provided options.
func New(opts ...Option) *Controller {
	c := &Controller{
		zoom:    1,
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Transform returns the current image to buffer transform.
func (c *Controller) Transform() geom.Transform { return geom.Transform{Zoom: c.zoom, Pan: c.pan} }

// Loaded reports whether an image is attached.
func (c *Controller) Loaded() bool { return c.loaded }

// ImageSize returns the natural size of the attached image.
func (c *Controller) ImageSize() geom.Size { return c.image }

// CanvasSize returns the canvas size in buffer pixels.
func (c *Controller) CanvasSize() geom.Size { return c.canvas }

// ZoomLimits returns the configured zoom bounds.
func (c *Controller) ZoomLimits() (float64, float64) { return c.minZoom, c.maxZoom }

// LoadImage attaches an image of the given natural size and resets the view
// to zoom 1, centring the image when it is smaller than the canvas.
func (c *Controller) LoadImage(natural geom.Size) {
	prev := c.Transform()
	c.image = natural
	c.loaded = !natural.Empty()
	c.zoom = 1
	c.pan = geom.Point{}
	c.clamp()
	c.changed(prev)
}

// Unload forgets the attached image.
func (c *Controller) Unload() {
	prev := c.Transform()
	c.loaded = false
	c.image = geom.Size{}
	c.zoom = 1
	c.pan = geom.Point{}
	c.changed(prev)
}

// Resize changes the canvas size and re-clamps the pan offset.
func (c *Controller) Resize(canvas geom.Size) {
	prev := c.Transform()
	c.canvas = canvas
	c.clamp()
	c.changed(prev)
}

// ZoomBy multiplies the zoom level by factor keeping the buffer point focal
// fixed on screen.
func (c *Controller) ZoomBy(factor float64, focal geom.Point) {
	if !c.loaded || factor <= 0 {
		return
	}
	c.zoomAround(c.Transform(), c.zoom*factor, focal)
}

// ZoomTo sets an absolute zoom level around focal.
func (c *Controller) ZoomTo(zoom float64, focal geom.Point) {
	if !c.loaded || zoom <= 0 {
		return
	}
	c.zoomAround(c.Transform(), zoom, focal)
}

// PinchFrom applies a cumulative pinch scale relative to the transform
// recorded when the pinch began, anchored at focal.
func (c *Controller) PinchFrom(start geom.Transform, scale float64, focal geom.Point) {
	if !c.loaded || scale <= 0 || start.Zoom <= 0 {
		return
	}
	c.zoomAround(start, start.Zoom*scale, focal)
}

func (c *Controller) zoomAround(from geom.Transform, zoom float64, focal geom.Point) {
	prev := c.Transform()
	zoom = geom.Clamp(zoom, c.minZoom, c.maxZoom)
	ratio := zoom / from.Zoom
	c.zoom = zoom
	c.pan = focal.Sub(focal.Sub(from.Pan).Mul(ratio))
	c.clamp()
	c.changed(prev)
}

// PanBy shifts the view by delta buffer pixels.
func (c *Controller) PanBy(delta geom.Point) {
	if !c.loaded {
		return
	}
	prev := c.Transform()
	c.pan = c.pan.Add(delta)
	c.clamp()
	c.changed(prev)
}

// Fit picks the largest zoom that shows the whole image and centres it.
func (c *Controller) Fit() {
	if !c.loaded || c.canvas.Empty() {
		return
	}
	prev := c.Transform()
	zoom := math.Min(c.canvas.W/c.image.W, c.canvas.H/c.image.H)
	c.zoom = geom.Clamp(zoom, c.minZoom, c.maxZoom)
	c.pan = geom.Point{
		X: (c.canvas.W - c.image.W*c.zoom) / 2,
		Y: (c.canvas.H - c.image.H*c.zoom) / 2,
	}
	c.clamp()
	c.changed(prev)
}

func (c *Controller) clamp() {
	if !c.loaded || c.canvas.Empty() {
		return
	}
	c.pan.X = clampAxis(c.pan.X, c.image.W*c.zoom, c.canvas.W)
	c.pan.Y = clampAxis(c.pan.Y, c.image.H*c.zoom, c.canvas.H)
}

// clampAxis centres content that fits and otherwise keeps the canvas covered.
func clampAxis(pan, scaled, canvas float64) float64 {
	if scaled <= canvas {
		return (canvas - scaled) / 2
	}
	return geom.Clamp(pan, canvas-scaled, 0)
}

func (c *Controller) changed(prev geom.Transform) {
	if c.onChange == nil || prev == c.Transform() {
		return
	}
	c.onChange(c.Transform())
}
