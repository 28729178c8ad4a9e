// Package appstate hosts the annotation tool in a shiny window: it owns the
// toolbar, the status bar and the keyboard shortcuts, and wires file,
// clipboard and notification actions around the tool.
package appstate

import (
	"image"
	"log"
	"sync"
	"time"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/annotator"
	"github.com/example/champimark/internal/config"
	"github.com/example/champimark/internal/input"
	"github.com/example/champimark/internal/notify"
	"github.com/example/champimark/internal/render"
	"github.com/example/champimark/internal/theme"
)

// messageDuration is how long transient notices stay on screen.
const messageDuration = 2 * time.Second

// AppState holds application configuration for the UI.
type AppState struct {
	Source     string
	Image      image.Image
	Sidecar    string
	ExportPath string
	Config     *config.Config
	Theme      *theme.Theme
	Themes     *theme.Loader
	Notifier   *notify.Notifier

	seed []annotation.Shape
	tool *annotator.Tool
	bar  *toolbar
	keys keymap

	send         func(event any)
	paintPending bool
	message      string
	messageUntil time.Time
	confirmClear bool
	quit         bool

	onAnnotations func([]annotation.Shape)
	onClose       func()
	closeOnce     sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSource sets the image path or URL loaded when the window opens.
func WithSource(src string) Option { return func(a *AppState) { a.Source = src } }

// WithImage sets an already decoded image, for example one from the
// clipboard. It takes precedence over WithSource.
func WithImage(img image.Image) Option { return func(a *AppState) { a.Image = img } }

// WithAnnotations seeds the annotation list.
func WithAnnotations(shapes []annotation.Shape) Option {
	return func(a *AppState) { a.seed = shapes }
}

// WithSidecar sets where Ctrl+S writes the annotations document.
func WithSidecar(path string) Option { return func(a *AppState) { a.Sidecar = path } }

// WithExportPath sets where Ctrl+E writes the annotated image.
func WithExportPath(path string) Option { return func(a *AppState) { a.ExportPath = path } }

// WithConfig applies user configuration.
func WithConfig(cfg *config.Config) Option { return func(a *AppState) { a.Config = cfg } }

// WithTheme sets the colour theme.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithThemeLoader enables cycling through the themes it knows.
func WithThemeLoader(l *theme.Loader) Option { return func(a *AppState) { a.Themes = l } }

// WithNotifier sets the desktop notifier used after saves, exports and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithAnnotationsListener registers a callback for committed shape changes.
func WithAnnotationsListener(fn func([]annotation.Shape)) Option {
	return func(a *AppState) { a.onAnnotations = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Config == nil {
		a.Config = config.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	a.tool = annotator.New(toolOptions(a)...)
	return a
}

// Tool exposes the embedded annotation tool.
func (a *AppState) Tool() *annotator.Tool { return a.tool }

func toolOptions(a *AppState) []annotator.Option {
	ac := a.Config.Annotate
	kind, err := annotation.ParseKind(ac.Shape)
	if err != nil {
		log.Printf("config: %v, using rectangle", err)
		kind = annotation.Rectangle
	}
	return []annotator.Option{
		annotator.WithKind(kind),
		annotator.WithMinSize(ac.MinSize),
		annotator.WithZoomLimits(ac.MinZoom, ac.MaxZoom),
		annotator.WithWheelStep(ac.WheelStep),
		annotator.WithFitOnLoad(ac.FitOnLoad),
		annotator.WithLabels(ac.Labels),
		annotator.WithPalette(render.PaletteFromTheme(a.Theme)),
		annotator.WithAnnotations(a.seed),
		annotator.WithScheduler(a.schedule),
		annotator.OnAnnotationsChange(a.annotationsChanged),
		annotator.OnFrame(func(*image.RGBA) { a.requestPaint() }),
		annotator.OnLoad(a.loaded),
	}
}

// scheduled is a callback posted to the window's event queue.
type scheduled func()

func (a *AppState) schedule(fn func()) {
	if a.send == nil {
		fn()
		return
	}
	a.send(scheduled(fn))
}

func (a *AppState) requestPaint() {
	if a.send == nil || a.paintPending {
		return
	}
	a.paintPending = true
	a.send(paintEvent)
}

func (a *AppState) annotationsChanged(shapes []annotation.Shape) {
	a.confirmClear = false
	if a.onAnnotations != nil {
		a.onAnnotations(shapes)
	}
}

func (a *AppState) loaded(src string, err error) {
	if err != nil {
		a.flash("could not load image")
		return
	}
	log.Printf("loaded %s (%vx%v)", describe(src), a.tool.ImageSize().W, a.tool.ImageSize().H)
}

// flash shows msg over the canvas for a moment and logs it.
func (a *AppState) flash(msg string) {
	a.message = msg
	a.messageUntil = time.Now().Add(messageDuration)
	log.Print(msg)
	a.requestPaint()
	if send := a.send; send != nil {
		time.AfterFunc(messageDuration, func() { send(paintEvent) })
	}
}

func (a *AppState) activeMessage() string {
	if a.message == "" || time.Now().After(a.messageUntil) {
		return ""
	}
	return a.message
}

func (a *AppState) status() status {
	shape := a.tool.Kind().String()
	mode := a.tool.Mode().String()
	if a.tool.Mode() == input.ModePan {
		shape = "-"
	}
	return status{
		mode:   mode,
		shape:  shape,
		zoom:   a.tool.Transform().Zoom,
		count:  len(a.tool.Annotations()),
		loaded: a.tool.Loaded(),
		source: describe(a.Source),
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}
