package input

import (
	"github.com/example/champimark/internal/geom"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// MouseID is the pointer id used for the primary mouse button. Touch
// sequences are non-negative so they never collide with it.
const MouseID int64 = -1

// FromMouse normalises a left button mouse event. ok is false for events
// that are not part of a primary button gesture.
func FromMouse(e mouse.Event) (Pointer, bool) {
	p := Pointer{ID: MouseID, Pos: geom.Pt(float64(e.X), float64(e.Y))}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return p, false
		}
		p.Phase = PhaseDown
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return p, false
		}
		p.Phase = PhaseUp
	case mouse.DirNone:
		p.Phase = PhaseMove
	default:
		return p, false
	}
	return p, true
}

// FromTouch normalises a touch event.
func FromTouch(e touch.Event) Pointer {
	p := Pointer{ID: int64(e.Sequence), Pos: geom.Pt(float64(e.X), float64(e.Y)), Touch: true}
	switch e.Type {
	case touch.TypeBegin:
		p.Phase = PhaseDown
	case touch.TypeEnd:
		p.Phase = PhaseUp
	default:
		p.Phase = PhaseMove
	}
	return p
}

// Mouse routes a mouse event, including wheel steps.
func (d *Dispatcher) Mouse(e mouse.Event) {
	if e.Button.IsWheel() {
		if e.Direction == mouse.DirStep {
			d.Wheel(geom.Pt(float64(e.X), float64(e.Y)), e.Button == mouse.ButtonWheelUp)
		}
		return
	}
	if p, ok := FromMouse(e); ok {
		d.Pointer(p)
	}
}

// Touch routes a touch event.
func (d *Dispatcher) Touch(e touch.Event) { d.Pointer(FromTouch(e)) }
