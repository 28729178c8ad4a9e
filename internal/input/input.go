// Package input turns raw mouse, touch and wheel events into gesture
// intents and routes them to the viewport or the shape editor depending on
// the interaction mode.
package input

import (
	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/geom"
)

// Mode selects where single pointer drags go.
type Mode int

const (
	ModeAnnotate Mode = iota
	ModePan
)

func (m Mode) String() string {
	if m == ModePan {
		return "pan"
	}
	return "annotate"
}

// Phase is the normalised lifecycle of a pointer.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

// Pointer is one normalised pointer sample in client coordinates.
type Pointer struct {
	ID    int64
	Pos   geom.Point
	Phase Phase
	Touch bool
}

// Intent is what a pointer sample means once classified.
type Intent int

const (
	BeginShape Intent = iota
	UpdateShape
	EndShape
	BeginPan
	UpdatePan
	BeginPinch
	UpdatePinch
	EndGesture
	Zoom
)

var intentNames = [...]string{
	"BeginShape", "UpdateShape", "EndShape",
	"BeginPan", "UpdatePan",
	"BeginPinch", "UpdatePinch",
	"EndGesture", "Zoom",
}

func (i Intent) String() string {
	if int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "Intent(?)"
}

// Event is a classified intent. Pos is in buffer pixels. Other names the
// second pointer of a pinch, Factor the zoom multiplier.
type Event struct {
	Intent Intent
	ID     int64
	Other  int64
	Pos    geom.Point
	Factor float64
}

// Viewport is the subset of the viewport controller the dispatcher drives.
type Viewport interface {
	Transform() geom.Transform
	PanBy(delta geom.Point)
	ZoomBy(factor float64, focal geom.Point)
	PinchFrom(start geom.Transform, scale float64, focal geom.Point)
}

// Editor is the subset of the shape editor the dispatcher drives.
type Editor interface {
	BeginDrag(p geom.Point)
	UpdateDrag(p geom.Point)
	EndDrag() (annotation.Shape, bool)
	CancelDrag()
}
