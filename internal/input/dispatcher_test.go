package input

import (
	"math"
	"testing"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/geom"
	"github.com/example/champimark/internal/viewport"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

type rig struct {
	vp *viewport.Controller
	ed *annotation.Editor
	d  *Dispatcher
	ev []Intent
}

// newRig builds a 400x400 canvas shown at half size on screen, with a
// 2000x2000 image loaded.
func newRig(mode Mode) *rig {
	r := &rig{}
	r.vp = viewport.New(viewport.WithCanvasSize(geom.Sz(400, 400)))
	r.vp.LoadImage(geom.Sz(2000, 2000))
	r.ed = annotation.NewEditor()
	r.ed.SetReady(true)
	r.d = NewDispatcher(r.vp, r.ed,
		WithMode(mode),
		WithLayout(geom.Layout{Display: geom.Rect{Max: geom.Pt(200, 200)}, Buffer: geom.Sz(400, 400)}),
		WithTrace(func(e Event) { r.ev = append(r.ev, e.Intent) }),
	)
	return r
}

func (r *rig) touch(id int64, x, y float64, ph Phase) {
	r.d.Pointer(Pointer{ID: id, Pos: geom.Pt(x, y), Phase: ph, Touch: true})
}

func TestAnnotateDragCommitsInImageSpace(t *testing.T) {
	r := newRig(ModeAnnotate)
	r.vp.PanBy(geom.Pt(-100, -50))
	r.d.Mouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	r.d.Mouse(mouse.Event{X: 30, Y: 40, Direction: mouse.DirNone})
	r.d.Mouse(mouse.Event{X: 50, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	shapes := r.ed.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("shapes = %d, want 1", len(shapes))
	}
	// client (10,10) -> buffer (20,20) -> image (120,70)
	want := annotation.NewShape(annotation.Rectangle, geom.Pt(120, 70), geom.Pt(200, 130))
	if shapes[0] != want {
		t.Fatalf("shape = %+v, want %+v", shapes[0], want)
	}
	if r.vp.Transform().Pan != geom.Pt(-100, -50) {
		t.Fatal("annotate drag moved the viewport")
	}
}

func TestHoverMovesIgnored(t *testing.T) {
	r := newRig(ModeAnnotate)
	r.d.Mouse(mouse.Event{X: 30, Y: 40, Direction: mouse.DirNone})
	r.d.Mouse(mouse.Event{X: 30, Y: 40, Button: mouse.ButtonRight, Direction: mouse.DirPress})
	if len(r.ev) != 0 {
		t.Fatalf("unexpected intents %v", r.ev)
	}
}

func TestAnnotateIgnoresSecondTouch(t *testing.T) {
	r := newRig(ModeAnnotate)
	r.touch(1, 10, 10, PhaseDown)
	r.touch(2, 100, 100, PhaseDown)
	r.touch(2, 120, 120, PhaseMove)
	r.touch(1, 40, 40, PhaseMove)
	r.touch(2, 120, 120, PhaseUp)
	r.touch(1, 40, 40, PhaseUp)
	want := []Intent{BeginShape, UpdateShape, EndShape}
	if len(r.ev) != len(want) {
		t.Fatalf("intents = %v, want %v", r.ev, want)
	}
	for i := range want {
		if r.ev[i] != want[i] {
			t.Fatalf("intents = %v, want %v", r.ev, want)
		}
	}
	if r.ed.Len() != 1 {
		t.Fatalf("shapes = %d", r.ed.Len())
	}
}

func TestPanModeDragPans(t *testing.T) {
	r := newRig(ModePan)
	r.touch(1, 100, 100, PhaseDown)
	r.touch(1, 90, 80, PhaseMove)
	r.touch(1, 90, 80, PhaseUp)
	if got := r.vp.Transform().Pan; got != geom.Pt(-20, -40) {
		t.Fatalf("pan = %v, want (-20,-40)", got)
	}
	if r.ed.Len() != 0 || r.ed.Dragging() {
		t.Fatal("pan gesture reached the editor")
	}
}

func TestPinchAnchorsMidpoint(t *testing.T) {
	r := newRig(ModePan)
	r.vp.PanBy(geom.Pt(-400, -400))
	start := r.vp.Transform()
	// buffer points (100,200) and (300,200); midpoint (200,200)
	r.touch(1, 50, 100, PhaseDown)
	r.touch(2, 150, 100, PhaseDown)
	anchor := start.BufferToImage(geom.Pt(200, 200))

	// spread to twice the distance around the same midpoint
	r.touch(1, 0, 100, PhaseMove)
	r.touch(2, 200, 100, PhaseMove)
	tr := r.vp.Transform()
	if math.Abs(tr.Zoom-2) > 1e-9 {
		t.Fatalf("zoom = %v, want 2", tr.Zoom)
	}
	got := tr.BufferToImage(geom.Pt(200, 200))
	if math.Abs(got.X-anchor.X) > 1e-9 || math.Abs(got.Y-anchor.Y) > 1e-9 {
		t.Fatalf("anchor moved from %v to %v", anchor, got)
	}
}

func TestPinchLiftContinuesAsPan(t *testing.T) {
	r := newRig(ModePan)
	r.vp.PanBy(geom.Pt(-400, -400))
	r.touch(1, 50, 100, PhaseDown)
	r.touch(2, 150, 100, PhaseDown)
	r.touch(2, 150, 100, PhaseUp)
	before := r.vp.Transform()
	if before.Zoom != 1 {
		t.Fatalf("zoom changed without movement: %v", before.Zoom)
	}
	r.touch(1, 40, 100, PhaseMove)
	after := r.vp.Transform()
	if after.Pan != before.Pan.Add(geom.Pt(-20, 0)) {
		t.Fatalf("pan after lift = %v, want %v", after.Pan, before.Pan.Add(geom.Pt(-20, 0)))
	}
	want := []Intent{BeginPan, BeginPinch, BeginPan, UpdatePan}
	for i := range want {
		if i >= len(r.ev) || r.ev[i] != want[i] {
			t.Fatalf("intents = %v, want %v", r.ev, want)
		}
	}
}

func TestSetModeCancelsDrag(t *testing.T) {
	r := newRig(ModeAnnotate)
	r.touch(1, 10, 10, PhaseDown)
	r.touch(1, 60, 60, PhaseMove)
	r.d.SetMode(ModePan)
	if r.ed.Dragging() {
		t.Fatal("drag survived the mode switch")
	}
	r.touch(1, 80, 80, PhaseUp)
	if r.ed.Len() != 0 {
		t.Fatal("mode switch committed a shape")
	}
	if r.vp.Transform().Pan != geom.Pt(0, 0) {
		t.Fatal("mode switch moved the viewport")
	}
}

func TestSetModeDiscardsPinch(t *testing.T) {
	r := newRig(ModePan)
	r.touch(1, 50, 50, PhaseDown)
	r.touch(2, 150, 150, PhaseDown)
	r.touch(1, 30, 30, PhaseMove)
	r.touch(2, 170, 170, PhaseMove)
	before := r.vp.Transform()
	if before.Zoom == 1 {
		t.Fatal("pinch did not zoom")
	}

	r.d.SetMode(ModeAnnotate)
	r.touch(1, 10, 10, PhaseMove)
	r.touch(2, 190, 190, PhaseMove)
	r.touch(2, 190, 190, PhaseUp)
	r.touch(1, 60, 10, PhaseMove)
	r.touch(1, 60, 10, PhaseUp)

	if after := r.vp.Transform(); after != before {
		t.Fatalf("transform changed after mode switch: before %+v after %+v", before, after)
	}
	if r.ed.Dragging() || r.d.Busy() {
		t.Fatal("stale touches started a gesture in annotate mode")
	}
	if r.ed.Len() != 0 {
		t.Fatalf("shapes = %d, want 0", r.ed.Len())
	}
}

func TestSetModeDiscardsPan(t *testing.T) {
	r := newRig(ModePan)
	r.vp.ZoomTo(2, geom.Pt(200, 200))
	r.d.Mouse(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	r.d.Mouse(mouse.Event{X: 80, Y: 90, Direction: mouse.DirNone})
	before := r.vp.Transform()

	r.d.SetMode(ModeAnnotate)
	r.d.Mouse(mouse.Event{X: 40, Y: 40, Direction: mouse.DirNone})
	r.d.Mouse(mouse.Event{X: 20, Y: 20, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})

	if after := r.vp.Transform(); after != before {
		t.Fatalf("transform changed after mode switch: before %+v after %+v", before, after)
	}
	if r.ed.Dragging() || r.ed.Len() != 0 {
		t.Fatal("pan gesture leaked into annotate mode")
	}
}

func TestCancelCommitsDrag(t *testing.T) {
	r := newRig(ModeAnnotate)
	r.touch(1, 10, 10, PhaseDown)
	r.touch(1, 60, 60, PhaseMove)
	r.d.Cancel()
	if r.ed.Len() != 1 {
		t.Fatalf("shapes = %d, want 1", r.ed.Len())
	}
	if r.d.Busy() {
		t.Fatal("dispatcher still busy after cancel")
	}
}

func TestWheelZoomsInAnyMode(t *testing.T) {
	for _, m := range []Mode{ModeAnnotate, ModePan} {
		r := newRig(m)
		r.d.Mouse(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
		if z := r.vp.Transform().Zoom; math.Abs(z-1.1) > 1e-9 {
			t.Fatalf("%v: zoom after wheel up = %v", m, z)
		}
		r.d.Mouse(mouse.Event{X: 100, Y: 100, Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
		if z := r.vp.Transform().Zoom; math.Abs(z-1.1*0.9) > 1e-9 {
			t.Fatalf("%v: zoom after wheel down = %v", m, z)
		}
	}
}

func TestArrowKeysPanOnlyInPanMode(t *testing.T) {
	r := newRig(ModeAnnotate)
	if r.d.Key(key.Event{Code: key.CodeRightArrow, Direction: key.DirPress}) {
		t.Fatal("arrow key consumed in annotate mode")
	}
	r.d.SetMode(ModePan)
	if !r.d.Key(key.Event{Code: key.CodeRightArrow, Direction: key.DirPress}) {
		t.Fatal("arrow key not consumed in pan mode")
	}
	if got := r.vp.Transform().Pan; got != geom.Pt(-DefaultKeyPan, 0) {
		t.Fatalf("pan = %v", got)
	}
}

func TestFromTouch(t *testing.T) {
	p := FromTouch(touch.Event{X: 3, Y: 4, Sequence: 7, Type: touch.TypeEnd})
	if p.ID != 7 || p.Phase != PhaseUp || !p.Touch || p.Pos != geom.Pt(3, 4) {
		t.Fatalf("pointer = %+v", p)
	}
}
