package input

import (
	"github.com/example/champimark/internal/geom"
	"golang.org/x/mobile/event/key"
)

const (
	DefaultWheelStep = 0.1
	DefaultKeyPan    = 20
	// minPinchDistance guards the pinch ratio when two touches land on the
	// same pixel.
	minPinchDistance = 1
)

// Dispatcher owns the interaction mode and transient gesture state. It never
// stores viewport values or annotations.
type Dispatcher struct {
	vp     Viewport
	ed     Editor
	layout geom.Layout
	mode   Mode

	wheelStep float64
	keyPan    float64

	active map[int64]geom.Point

	drawing bool
	drawID  int64

	panning bool
	panID   int64
	panLast geom.Point

	pinching   bool
	pinchIDs   [2]int64
	pinchDist  float64
	pinchStart geom.Transform
	pinchFocal geom.Point

	trace func(Event)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMode sets the initial mode.
func WithMode(m Mode) Option { return func(d *Dispatcher) { d.mode = m } }

// WithWheelStep sets the fractional zoom change per wheel notch.
func WithWheelStep(step float64) Option {
	return func(d *Dispatcher) {
		if step > 0 && step < 1 {
			d.wheelStep = step
		}
	}
}

// WithLayout sets the initial display to buffer layout.
func WithLayout(l geom.Layout) Option { return func(d *Dispatcher) { d.layout = l } }

// WithTrace registers a hook that sees every classified event before it is
// applied.
func WithTrace(fn func(Event)) Option { return func(d *Dispatcher) { d.trace = fn } }

// NewDispatcher creates a Dispatcher feeding vp and ed.
func NewDispatcher(vp Viewport, ed Editor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		vp:        vp,
		ed:        ed,
		wheelStep: DefaultWheelStep,
		keyPan:    DefaultKeyPan,
		active:    map[int64]geom.Point{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Mode returns the current mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// SetMode switches modes, abandoning any gesture in progress.
func (d *Dispatcher) SetMode(m Mode) {
	if m == d.mode {
		return
	}
	d.reset(false)
	d.mode = m
}

// SetLayout updates where the buffer is shown.
func (d *Dispatcher) SetLayout(l geom.Layout) { d.layout = l }

// Layout returns the current layout.
func (d *Dispatcher) Layout() geom.Layout { return d.layout }

// Cancel ends whatever gesture is active, as if every pointer was lifted.
// Hosts call it when the canvas loses focus.
func (d *Dispatcher) Cancel() { d.reset(true) }

// Abort drops the active gesture without committing a drawn shape.
func (d *Dispatcher) Abort() { d.reset(false) }

// Busy reports whether a gesture is in progress.
func (d *Dispatcher) Busy() bool { return d.drawing || d.panning || d.pinching }

func (d *Dispatcher) reset(commit bool) {
	if d.drawing {
		if commit {
			d.ed.EndDrag()
		} else {
			d.ed.CancelDrag()
		}
	}
	d.drawing, d.panning, d.pinching = false, false, false
	clear(d.active)
}

// Pointer classifies and applies one pointer sample.
func (d *Dispatcher) Pointer(p Pointer) {
	pos := d.layout.DisplayToBuffer(p.Pos)
	for _, ev := range d.classify(p.ID, p.Phase, pos) {
		d.apply(ev)
	}
}

// Wheel zooms around the client point pos. up zooms in.
func (d *Dispatcher) Wheel(pos geom.Point, up bool) {
	factor := 1 - d.wheelStep
	if up {
		factor = 1 + d.wheelStep
	}
	d.apply(Event{Intent: Zoom, Pos: d.layout.DisplayToBuffer(pos), Factor: factor})
}

// Key handles keyboard zoom and, in pan mode, arrow key panning. It reports
// whether the key was consumed.
func (d *Dispatcher) Key(e key.Event) bool {
	if e.Direction != key.DirPress && e.Direction != key.DirNone {
		return false
	}
	centre := geom.Pt(d.layout.Buffer.W/2, d.layout.Buffer.H/2)
	switch e.Rune {
	case '+', '=':
		d.apply(Event{Intent: Zoom, Pos: centre, Factor: 1 + d.wheelStep})
		return true
	case '-', '_':
		d.apply(Event{Intent: Zoom, Pos: centre, Factor: 1 - d.wheelStep})
		return true
	}
	if d.mode != ModePan {
		return false
	}
	var delta geom.Point
	switch e.Code {
	case key.CodeLeftArrow:
		delta = geom.Pt(d.keyPan, 0)
	case key.CodeRightArrow:
		delta = geom.Pt(-d.keyPan, 0)
	case key.CodeUpArrow:
		delta = geom.Pt(0, d.keyPan)
	case key.CodeDownArrow:
		delta = geom.Pt(0, -d.keyPan)
	default:
		return false
	}
	d.vp.PanBy(delta)
	return true
}

// classify maps a pointer sample onto zero or more intents given the
// current mode and gesture. It only updates the tracked pointer positions.
func (d *Dispatcher) classify(id int64, phase Phase, pos geom.Point) []Event {
	switch phase {
	case PhaseDown:
		if _, ok := d.active[id]; ok {
			return nil
		}
		d.active[id] = pos
		if d.mode == ModeAnnotate {
			if d.drawing {
				return nil
			}
			return []Event{{Intent: BeginShape, ID: id, Pos: pos}}
		}
		switch {
		case d.pinching:
			return nil
		case d.panning:
			return []Event{{Intent: BeginPinch, ID: id, Other: d.panID, Pos: pos}}
		}
		return []Event{{Intent: BeginPan, ID: id, Pos: pos}}

	case PhaseMove:
		if _, ok := d.active[id]; !ok {
			return nil
		}
		d.active[id] = pos
		if d.mode == ModeAnnotate {
			if d.drawing && id == d.drawID {
				return []Event{{Intent: UpdateShape, ID: id, Pos: pos}}
			}
			return nil
		}
		switch {
		case d.pinching && (id == d.pinchIDs[0] || id == d.pinchIDs[1]):
			return []Event{{Intent: UpdatePinch, ID: id, Pos: pos}}
		case d.panning && id == d.panID:
			return []Event{{Intent: UpdatePan, ID: id, Pos: pos}}
		}
		return nil

	case PhaseUp, PhaseCancel:
		if _, ok := d.active[id]; !ok {
			return nil
		}
		d.active[id] = pos
		defer delete(d.active, id)
		if d.mode == ModeAnnotate {
			if d.drawing && id == d.drawID {
				return []Event{{Intent: EndShape, ID: id, Pos: pos}}
			}
			return nil
		}
		switch {
		case d.pinching && (id == d.pinchIDs[0] || id == d.pinchIDs[1]):
			other := d.pinchIDs[0]
			if other == id {
				other = d.pinchIDs[1]
			}
			return []Event{{Intent: BeginPan, ID: other, Pos: d.active[other]}}
		case d.panning && id == d.panID:
			return []Event{{Intent: EndGesture, ID: id, Pos: pos}}
		}
	}
	return nil
}

func (d *Dispatcher) apply(ev Event) {
	if d.trace != nil {
		d.trace(ev)
	}
	switch ev.Intent {
	case BeginShape:
		d.drawing = true
		d.drawID = ev.ID
		d.ed.BeginDrag(d.toImage(ev.Pos))
	case UpdateShape:
		d.ed.UpdateDrag(d.toImage(ev.Pos))
	case EndShape:
		d.ed.UpdateDrag(d.toImage(ev.Pos))
		d.ed.EndDrag()
		d.drawing = false
	case BeginPan:
		d.pinching = false
		d.panning = true
		d.panID = ev.ID
		d.panLast = ev.Pos
	case UpdatePan:
		d.vp.PanBy(ev.Pos.Sub(d.panLast))
		d.panLast = ev.Pos
	case BeginPinch:
		a := d.active[ev.Other]
		d.panning = false
		d.pinching = true
		d.pinchIDs = [2]int64{ev.Other, ev.ID}
		d.pinchDist = max(a.Dist(ev.Pos), minPinchDistance)
		d.pinchStart = d.vp.Transform()
		d.pinchFocal = a.Mid(ev.Pos)
	case UpdatePinch:
		a, b := d.active[d.pinchIDs[0]], d.active[d.pinchIDs[1]]
		d.vp.PinchFrom(d.pinchStart, a.Dist(b)/d.pinchDist, d.pinchFocal)
	case EndGesture:
		d.panning = false
		d.pinching = false
	case Zoom:
		d.vp.ZoomBy(ev.Factor, ev.Pos)
	}
}

func (d *Dispatcher) toImage(p geom.Point) geom.Point {
	return d.vp.Transform().BufferToImage(p)
}
