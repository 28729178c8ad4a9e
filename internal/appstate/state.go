package appstate

import (
	"context"
	"image"
	"image/draw"
	"log"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/geom"
	"github.com/example/champimark/internal/input"
	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
	maxWidth      = 1600
	maxHeight     = 1000
)

var paintEvent = paint.Event{}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main opens the window and runs the event loop until it is closed.
func (a *AppState) Main(s screen.Screen) {
	width, height := a.initialSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title()})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	a.send = w.Send
	defer a.tool.Close()

	actions := a.actions()
	a.keys = newKeymap(bindings)
	a.bar = newToolbar(a.Theme, a.buttons(actions))

	canvas := canvasRect(width, height)
	relayout := func() {
		canvas = canvasRect(width, height)
		buf := bufferSize(canvas, a.Config.Annotate.RenderScale)
		a.tool.SetLayout(geom.FromImageRect(canvas), buf.X, buf.Y)
	}
	relayout()
	a.start()

	for {
		switch e := w.NextEvent().(type) {
		case scheduled:
			e()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				a.tool.Cancel()
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			relayout()
			a.requestPaint()
		case paint.Event:
			a.paintPending = false
			a.paint(s, w, width, height, canvas)
		case mouse.Event:
			a.handleMouse(e, canvas)
		case touch.Event:
			a.tool.Touch(e)
		case key.Event:
			a.handleKey(e, actions)
		case error:
			log.Print(e)
		}
		if a.quit {
			return
		}
	}
}

func (a *AppState) title() string {
	if a.Source == "" {
		return "Champimark"
	}
	return "Champimark - " + describe(a.Source)
}

// initialSize fits a pre-decoded image plus chrome, bounded to a sensible
// desktop window.
func (a *AppState) initialSize() (int, int) {
	if a.Image == nil {
		return defaultWidth, defaultHeight
	}
	b := a.Image.Bounds()
	w := min(max(b.Dx(), 480), maxWidth)
	h := min(max(b.Dy(), 320)+toolbarHeight+statusHeight, maxHeight)
	return w, h
}

// start installs the initial image.
func (a *AppState) start() {
	switch {
	case a.Image != nil:
		a.tool.LoadImage(a.Image, a.Source)
	case a.Source != "":
		a.tool.Load(context.Background(), a.Source)
	default:
		a.requestPaint()
	}
}

func (a *AppState) buttons(actions map[string]func()) []buttonSpec {
	mode := func(m input.Mode) func() bool { return func() bool { return a.tool.Mode() == m } }
	kind := func(k annotation.Kind) func() bool {
		return func() bool { return a.tool.Mode() == input.ModeAnnotate && a.tool.Kind() == k }
	}
	return []buttonSpec{
		{label: "Pan", onClick: actions["pan"], selected: mode(input.ModePan)},
		{label: "Rectangle", onClick: actions["rectangle"], selected: kind(annotation.Rectangle)},
		{label: "Circle", onClick: actions["circle"], selected: kind(annotation.Circle)},
		{label: "Undo", onClick: actions["undo"]},
		{label: "Clear", onClick: actions["clear"]},
		{label: "Fit", onClick: actions["fit"]},
		{label: "100%", onClick: actions["actual"]},
		{label: "Save", onClick: actions["save"]},
		{label: "Export", onClick: actions["export"]},
		{label: "Copy", onClick: actions["copy"]},
		{label: "Paste", onClick: actions["paste"]},
	}
}

func (a *AppState) handleMouse(e mouse.Event, canvas image.Rectangle) {
	p := image.Pt(int(e.X), int(e.Y))
	if a.tool.Busy() || p.In(canvas) {
		if a.bar.hover != -1 {
			a.bar.hover = -1
			a.requestPaint()
		}
		a.tool.Mouse(e)
		return
	}
	idx := a.bar.at(p)
	if idx != a.bar.hover {
		a.bar.hover = idx
		a.requestPaint()
	}
	if idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
		a.bar.buttons[idx].Activate()
		a.requestPaint()
	}
}

func (a *AppState) handleKey(e key.Event, actions map[string]func()) {
	if e.Direction == key.DirRelease {
		return
	}
	if name, ok := a.keys.lookup(e); ok {
		if name != "clear" {
			a.confirmClear = false
		}
		if fn := actions[name]; fn != nil {
			fn()
			a.requestPaint()
		}
		return
	}
	a.tool.Key(e)
}

func (a *AppState) paint(s screen.Screen, w screen.Window, width, height int, canvas image.Rectangle) {
	b, err := s.NewBuffer(image.Pt(width, height))
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{a.Theme.Background}, image.Point{}, draw.Src)
	frame := a.tool.Frame()
	if frame.Bounds().Size() == canvas.Size() {
		draw.Draw(dst, canvas, frame, frame.Bounds().Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, canvas, frame, frame.Bounds(), draw.Src, nil)
	}

	a.bar.draw(dst, a.Theme)
	drawStatus(dst, a.Theme, a.status().String())
	if msg := a.activeMessage(); msg != "" {
		drawMessage(dst, a.Theme, msg)
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
