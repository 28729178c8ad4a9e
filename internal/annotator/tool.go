// Package annotator is the embeddable annotation tool: it owns the viewport,
// the shape editor, the input dispatcher and the renderer, loads images off
// the event thread and reports committed shapes to its host.
package annotator

import (
	"context"
	"image"
	"log"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/geom"
	"github.com/example/champimark/internal/imageio"
	"github.com/example/champimark/internal/input"
	"github.com/example/champimark/internal/render"
	"github.com/example/champimark/internal/viewport"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// Scheduler runs fn on the host's event thread. Without one, Load fetches
// and decodes on the calling goroutine.
type Scheduler func(fn func())

// Tool is not safe for concurrent use; every method must be called from the
// event thread the Scheduler delivers to.
type Tool struct {
	vp      *viewport.Controller
	ed      *annotation.Editor
	in      *input.Dispatcher
	rd      *render.Renderer
	surface *render.Surface
	fetcher *imageio.Fetcher

	schedule  Scheduler
	fitOnLoad bool

	img    image.Image
	source string

	seq    uint64
	cancel context.CancelFunc
	closed bool

	depth int
	dirty bool

	onAnnotations func([]annotation.Shape)
	onFrame       func(*image.RGBA)
	onLoad        func(src string, err error)
}

// New creates a Tool drawing into a surface of the configured canvas size.
func New(opts ...Option) *Tool {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}
	t := &Tool{
		schedule:      cfg.schedule,
		fitOnLoad:     cfg.fitOnLoad,
		fetcher:       cfg.fetcher,
		onAnnotations: cfg.onAnnotations,
		onFrame:       cfg.onFrame,
		onLoad:        cfg.onLoad,
	}
	w, h := cfg.canvas.X, cfg.canvas.Y
	t.surface = render.NewSurface(w, h)
	t.vp = viewport.New(
		viewport.WithZoomLimits(cfg.minZoom, cfg.maxZoom),
		viewport.WithCanvasSize(t.surface.Size()),
		viewport.OnChange(func(geom.Transform) { t.invalidate() }),
	)
	t.ed = annotation.NewEditor(
		annotation.WithKind(cfg.kind),
		annotation.WithMinSize(cfg.minSize),
		annotation.WithShapes(cfg.seed),
		annotation.OnChange(t.annotationsChanged),
		annotation.OnPreview(t.invalidate),
	)
	t.in = input.NewDispatcher(t.vp, t.ed,
		input.WithMode(cfg.mode),
		input.WithWheelStep(cfg.wheelStep),
		input.WithLayout(geom.Layout{
			Display: geom.Rect{Max: geom.Pt(float64(w), float64(h))},
			Buffer:  t.surface.Size(),
		}),
	)
	t.rd = render.New(cfg.palette, render.WithLabels(cfg.labels))
	return t
}

// Load replaces the image with the one behind src. With a Scheduler the
// fetch and decode happen on a goroutine and, when several loads overlap,
// only the last one is applied; drags are ignored until it completes.
// Without a Scheduler Load blocks until the image is installed.
func (t *Tool) Load(ctx context.Context, src string) {
	if t.closed {
		return
	}
	seq := t.begin()
	if t.schedule == nil {
		img, err := t.fetcher.Load(ctx, src)
		t.finish(seq, src, img, err)
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	go func() {
		img, err := t.fetcher.Load(ctx, src)
		t.schedule(func() { t.finish(seq, src, img, err) })
	}()
}

// LoadImage installs an already decoded image, superseding pending loads.
func (t *Tool) LoadImage(img image.Image, source string) {
	if t.closed {
		return
	}
	t.finish(t.begin(), source, img, nil)
}

func (t *Tool) begin() uint64 {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
	t.ed.SetReady(false)
	return t.seq
}

func (t *Tool) finish(seq uint64, src string, img image.Image, err error) {
	if t.closed || seq != t.seq {
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.batch(func() {
		if err == nil && (img == nil || img.Bounds().Empty()) {
			err = errEmptyImage
		}
		if err != nil {
			log.Printf("load image %s: %v", imageio.Describe(src), err)
			t.img = nil
			t.source = ""
			t.vp.Unload()
			t.ed.SetReady(false)
			t.invalidate()
		} else {
			t.img = img
			t.source = src
			t.vp.LoadImage(geom.SizeOf(img.Bounds()))
			if t.fitOnLoad {
				t.vp.Fit()
			}
			t.ed.SetReady(true)
			t.invalidate()
		}
		if t.onLoad != nil {
			t.onLoad(src, err)
		}
	})
}

// Close detaches the tool. Pending loads are dropped, later events are
// ignored and the drawing surface is released.
func (t *Tool) Close() {
	if t.closed {
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.in.Abort()
	t.closed = true
	t.surface = nil
}

// Closed reports whether Close was called.
func (t *Tool) Closed() bool { return t.closed }

// SetLayout tells the tool where its buffer is displayed and how large the
// buffer should be.
func (t *Tool) SetLayout(display geom.Rect, bufferW, bufferH int) {
	if t.closed {
		return
	}
	t.batch(func() {
		t.surface.Resize(bufferW, bufferH)
		t.in.SetLayout(geom.Layout{Display: display, Buffer: t.surface.Size()})
		t.vp.Resize(t.surface.Size())
		t.invalidate()
	})
}

// Pointer routes a normalised pointer sample.
func (t *Tool) Pointer(p input.Pointer) { t.event(func() { t.in.Pointer(p) }) }

// Mouse routes a mouse event.
func (t *Tool) Mouse(e mouse.Event) { t.event(func() { t.in.Mouse(e) }) }

// Touch routes a touch event.
func (t *Tool) Touch(e touch.Event) { t.event(func() { t.in.Touch(e) }) }

// Wheel zooms around a client point.
func (t *Tool) Wheel(pos geom.Point, up bool) { t.event(func() { t.in.Wheel(pos, up) }) }

// Key handles zoom and pan keys; it reports whether the key was consumed.
func (t *Tool) Key(e key.Event) bool {
	handled := false
	t.event(func() { handled = t.in.Key(e) })
	return handled
}

// Cancel ends the active gesture, for example when focus is lost. A shape
// being drawn is committed if it is large enough.
func (t *Tool) Cancel() { t.event(t.in.Cancel) }

// Abort ends the active gesture and drops any shape being drawn.
func (t *Tool) Abort() { t.event(t.in.Abort) }

// Mode returns the interaction mode.
func (t *Tool) Mode() input.Mode { return t.in.Mode() }

// SetMode switches between annotating and panning.
func (t *Tool) SetMode(m input.Mode) {
	t.event(func() {
		t.in.SetMode(m)
		t.invalidate()
	})
}

// Kind returns the shape kind new drags produce.
func (t *Tool) Kind() annotation.Kind { return t.ed.Kind() }

// SetKind changes the shape kind for new drags.
func (t *Tool) SetKind(k annotation.Kind) {
	t.event(func() {
		t.ed.SetKind(k)
		t.invalidate()
	})
}

// Undo removes the most recent annotation.
func (t *Tool) Undo() { t.event(t.ed.UndoLast) }

// Clear removes every annotation.
func (t *Tool) Clear() { t.event(t.ed.ClearAll) }

// Replace swaps the annotation list.
func (t *Tool) Replace(shapes []annotation.Shape) { t.event(func() { t.ed.Replace(shapes) }) }

// Fit zooms so the whole image is visible.
func (t *Tool) Fit() { t.event(t.vp.Fit) }

// ResetZoom returns to zoom 1 around the canvas centre.
func (t *Tool) ResetZoom() {
	t.event(func() {
		c := t.surface.Size()
		t.vp.ZoomTo(1, geom.Pt(c.W/2, c.H/2))
	})
}

// Annotations returns the committed shapes in drawing order.
func (t *Tool) Annotations() []annotation.Shape { return t.ed.Shapes() }

// Preview returns the shape being dragged, if any.
func (t *Tool) Preview() (annotation.Shape, bool) { return t.ed.Preview() }

// Image returns the loaded image, or nil.
func (t *Tool) Image() image.Image { return t.img }

// Source returns the source string of the loaded image.
func (t *Tool) Source() string { return t.source }

// Loaded reports whether an image is ready for annotating.
func (t *Tool) Loaded() bool { return t.img != nil && t.ed.Ready() }

// ImageSize returns the natural size of the loaded image.
func (t *Tool) ImageSize() geom.Size { return t.vp.ImageSize() }

// Transform returns the current image to buffer transform.
func (t *Tool) Transform() geom.Transform { return t.vp.Transform() }

// Busy reports whether a gesture is in progress.
func (t *Tool) Busy() bool { return t.in.Busy() }

// Frame returns the last rendered frame, or nil once the tool is closed.
func (t *Tool) Frame() *image.RGBA {
	if t.surface == nil {
		return nil
	}
	return t.surface.Image()
}

// SetPalette changes the colours used for future frames.
func (t *Tool) SetPalette(p render.Palette) {
	t.event(func() {
		t.rd.SetPalette(p)
		t.invalidate()
	})
}

// Export renders the annotations onto a natural size copy of the image.
func (t *Tool) Export() (*image.RGBA, error) {
	if t.img == nil {
		return nil, errNoImage
	}
	return t.rd.Annotate(t.img, t.ed.Shapes()), nil
}

// Document returns the sidecar document for the current state.
func (t *Tool) Document() *annotation.Document {
	return annotation.NewDocument(t.source, t.vp.ImageSize(), t.ed.Shapes())
}

// Render draws a frame now regardless of pending changes.
func (t *Tool) Render() {
	if t.closed {
		return
	}
	t.dirty = false
	sc := render.Scene{View: t.vp.Transform(), Shapes: t.ed.Shapes()}
	if t.img != nil && t.vp.Loaded() {
		sc.Image = t.img
	}
	if p, ok := t.ed.Preview(); ok {
		sc.Preview = &p
	}
	t.rd.Render(t.surface, sc)
	if t.onFrame != nil {
		t.onFrame(t.surface.Image())
	}
}

func (t *Tool) event(fn func()) {
	if t.closed {
		return
	}
	t.batch(fn)
}

// batch coalesces every invalidation raised inside fn into one render.
func (t *Tool) batch(fn func()) {
	t.depth++
	fn()
	t.depth--
	if t.depth == 0 && t.dirty {
		t.Render()
	}
}

func (t *Tool) invalidate() {
	t.dirty = true
	if t.depth == 0 {
		t.Render()
	}
}

func (t *Tool) annotationsChanged(shapes []annotation.Shape) {
	if t.onAnnotations != nil {
		t.onAnnotations(shapes)
	}
	t.invalidate()
}
