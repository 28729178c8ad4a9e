package annotation

import "github.com/example/champimark/internal/geom"

// DefaultMinSize is the smallest width and height, in image pixels, a drag
// must cover to be committed.
const DefaultMinSize = 5

// Editor owns the committed annotation list and the in-progress drag.
// Calls that do not fit the current state are ignored.
type Editor struct {
	kind    Kind
	minSize float64
	ready   bool

	shapes []Shape

	dragging   bool
	start, end geom.Point

	onChange  func([]Shape)
	onPreview func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithKind sets the kind of shape new drags produce.
func WithKind(k Kind) Option { return func(e *Editor) { e.kind = k } }

// WithMinSize overrides DefaultMinSize. Negative values are ignored.
func WithMinSize(v float64) Option {
	return func(e *Editor) {
		if v >= 0 {
			e.minSize = v
		}
	}
}

// WithShapes seeds the committed list without notifying.
func WithShapes(shapes []Shape) Option {
	return func(e *Editor) { e.shapes = append([]Shape(nil), shapes...) }
}

// OnChange registers a callback receiving a copy of the list after each
// mutation.
func OnChange(fn func([]Shape)) Option { return func(e *Editor) { e.onChange = fn } }

// OnPreview registers a callback fired whenever the in-progress drag changes.
func OnPreview(fn func()) Option { return func(e *Editor) { e.onPreview = fn } }

// NewEditor creates an Editor. It starts not ready.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{minSize: DefaultMinSize}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Kind returns the kind used for new drags.
func (e *Editor) Kind() Kind { return e.kind }

// SetKind changes the kind used for new drags, including the current one.
func (e *Editor) SetKind(k Kind) {
	if e.kind == k {
		return
	}
	e.kind = k
	if e.dragging {
		e.preview()
	}
}

// MinSize returns the commit threshold.
func (e *Editor) MinSize() float64 { return e.minSize }

// Ready reports whether drags are accepted.
func (e *Editor) Ready() bool { return e.ready }

// SetReady gates drawing on an image being loaded. Turning it off cancels
// any drag in progress.
func (e *Editor) SetReady(ready bool) {
	e.ready = ready
	if !ready {
		e.CancelDrag()
	}
}

// Dragging reports whether a drag is in progress.
func (e *Editor) Dragging() bool { return e.dragging }

// BeginDrag starts a drag at p in image space.
func (e *Editor) BeginDrag(p geom.Point) {
	if !e.ready || e.dragging {
		return
	}
	e.dragging = true
	e.start, e.end = p, p
	e.preview()
}

// UpdateDrag moves the live corner of the drag.
func (e *Editor) UpdateDrag(p geom.Point) {
	if !e.dragging {
		return
	}
	e.end = p
	e.preview()
}

// EndDrag finishes the drag. Boxes narrower or shorter than the minimum
// size are discarded.
func (e *Editor) EndDrag() (Shape, bool) {
	if !e.dragging {
		return Shape{}, false
	}
	e.dragging = false
	s := NewShape(e.kind, e.start, e.end)
	e.preview()
	if s.Width < e.minSize || s.Height < e.minSize || !s.Valid() {
		return Shape{}, false
	}
	e.shapes = append(e.shapes, s)
	e.changed()
	return s, true
}

// CancelDrag drops the drag without committing.
func (e *Editor) CancelDrag() {
	if !e.dragging {
		return
	}
	e.dragging = false
	e.preview()
}

// Preview returns the shape under construction.
func (e *Editor) Preview() (Shape, bool) {
	if !e.dragging {
		return Shape{}, false
	}
	return NewShape(e.kind, e.start, e.end), true
}

// UndoLast removes the most recent shape.
func (e *Editor) UndoLast() {
	if len(e.shapes) == 0 {
		return
	}
	e.shapes = e.shapes[:len(e.shapes)-1]
	e.changed()
}

// ClearAll empties the list. Observers are notified even when it was
// already empty.
func (e *Editor) ClearAll() {
	e.shapes = nil
	e.changed()
}

// Replace swaps the whole list, for example after loading a sidecar file.
func (e *Editor) Replace(shapes []Shape) {
	e.shapes = append([]Shape(nil), shapes...)
	e.changed()
}

// Shapes returns a copy of the committed list in drawing order.
func (e *Editor) Shapes() []Shape { return append([]Shape(nil), e.shapes...) }

// Len returns the number of committed shapes.
func (e *Editor) Len() int { return len(e.shapes) }

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange(e.Shapes())
	}
}

func (e *Editor) preview() {
	if e.onPreview != nil {
		e.onPreview()
	}
}
