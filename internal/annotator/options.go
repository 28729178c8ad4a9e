package annotator

import (
	"errors"
	"image"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/imageio"
	"github.com/example/champimark/internal/input"
	"github.com/example/champimark/internal/render"
	"github.com/example/champimark/internal/theme"
	"github.com/example/champimark/internal/viewport"
)

var (
	errNoImage    = errors.New("no image loaded")
	errEmptyImage = errors.New("image has no pixels")
)

// DefaultCanvas is the buffer size used until the host calls SetLayout.
var DefaultCanvas = image.Pt(800, 600)

type config struct {
	canvas    image.Point
	minZoom   float64
	maxZoom   float64
	minSize   float64
	wheelStep float64
	kind      annotation.Kind
	mode      input.Mode
	seed      []annotation.Shape
	palette   render.Palette
	labels    bool
	fitOnLoad bool
	fetcher   *imageio.Fetcher
	schedule  Scheduler

	onAnnotations func([]annotation.Shape)
	onFrame       func(*image.RGBA)
	onLoad        func(string, error)
}

func defaults() config {
	return config{
		canvas:    DefaultCanvas,
		minZoom:   viewport.DefaultMinZoom,
		maxZoom:   viewport.DefaultMaxZoom,
		minSize:   annotation.DefaultMinSize,
		wheelStep: input.DefaultWheelStep,
		kind:      annotation.Rectangle,
		mode:      input.ModeAnnotate,
		palette:   render.PaletteFromTheme(theme.Default()),
		labels:    true,
		fetcher:   imageio.NewFetcher(),
	}
}

// Option configures a Tool.
type Option func(*config)

// WithCanvasSize sets the initial buffer size.
func WithCanvasSize(w, h int) Option {
	return func(c *config) { c.canvas = image.Pt(w, h) }
}

// WithZoomLimits bounds the zoom factor.
func WithZoomLimits(min, max float64) Option {
	return func(c *config) { c.minZoom, c.maxZoom = min, max }
}

// WithMinSize sets the smallest committed shape side in image pixels.
func WithMinSize(v float64) Option { return func(c *config) { c.minSize = v } }

// WithWheelStep sets the zoom change per wheel notch.
func WithWheelStep(step float64) Option { return func(c *config) { c.wheelStep = step } }

// WithKind sets the initial shape kind.
func WithKind(k annotation.Kind) Option { return func(c *config) { c.kind = k } }

// WithMode sets the initial interaction mode.
func WithMode(m input.Mode) Option { return func(c *config) { c.mode = m } }

// WithAnnotations seeds the annotation list. The slice is copied.
func WithAnnotations(shapes []annotation.Shape) Option {
	return func(c *config) { c.seed = append([]annotation.Shape(nil), shapes...) }
}

// WithPalette sets the drawing colours.
func WithPalette(p render.Palette) Option { return func(c *config) { c.palette = p } }

// WithLabels toggles the shape index labels.
func WithLabels(on bool) Option { return func(c *config) { c.labels = on } }

// WithFitOnLoad makes every loaded image start fitted to the canvas instead
// of at zoom 1.
func WithFitOnLoad(on bool) Option { return func(c *config) { c.fitOnLoad = on } }

// WithFetcher replaces the image fetcher.
func WithFetcher(f *imageio.Fetcher) Option {
	return func(c *config) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithScheduler makes Load asynchronous, delivering results to the event
// thread through s.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.schedule = s
		}
	}
}

// OnAnnotationsChange registers the host callback for committed shape
// changes. It receives a copy of the full list.
func OnAnnotationsChange(fn func([]annotation.Shape)) Option {
	return func(c *config) { c.onAnnotations = fn }
}

// OnFrame is called after every rendered frame.
func OnFrame(fn func(*image.RGBA)) Option { return func(c *config) { c.onFrame = fn } }

// OnLoad is called when a load finishes, with a nil error on success.
func OnLoad(fn func(src string, err error)) Option { return func(c *config) { c.onLoad = fn } }
