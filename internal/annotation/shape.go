// Package annotation holds the annotation shapes drawn over a photograph,
// the editor that turns drags into committed shapes, and their wire form.
package annotation

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/champimark/internal/geom"
)

// Kind selects how a shape's bounding box is drawn.
type Kind int

const (
	Rectangle Kind = iota
	Circle
)

// Kinds lists every supported kind in toolbar order.
var Kinds = []Kind{Rectangle, Circle}

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names produced by String plus a few short forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rect", "rectangle", "box":
		return Rectangle, nil
	case "circle", "circ":
		return Circle, nil
	}
	return Rectangle, fmt.Errorf("unknown shape %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k != Rectangle && k != Circle {
		return nil, fmt.Errorf("unknown shape kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Shape is one committed annotation in image space. Origin, Width and
// Height describe the bounding box of the drag; Source keeps the raw drag
// endpoints in the order they were produced.
type Shape struct {
	Kind   Kind
	Origin geom.Point
	Width  float64
	Height float64
	Source [2]geom.Point
}

// NewShape builds a shape from two drag endpoints in image space.
func NewShape(kind Kind, start, end geom.Point) Shape {
	r := geom.RectFromPoints(start, end)
	return Shape{
		Kind:   kind,
		Origin: r.Min,
		Width:  r.Dx(),
		Height: r.Dy(),
		Source: [2]geom.Point{start, end},
	}
}

// Bounds returns the bounding box.
func (s Shape) Bounds() geom.Rect {
	return geom.Rect{Min: s.Origin, Max: s.Origin.Add(geom.Pt(s.Width, s.Height))}
}

// CircleGeometry returns the circle inscribed in the bounding box: centred
// on the box with diameter min(width, height).
func (s Shape) CircleGeometry() (geom.Point, float64) {
	return s.Bounds().Center(), math.Min(s.Width, s.Height) / 2
}

// Valid reports whether the box has positive extents.
func (s Shape) Valid() bool { return s.Width > 0 && s.Height > 0 }

// Translate returns a copy shifted by d.
func (s Shape) Translate(d geom.Point) Shape {
	s.Origin = s.Origin.Add(d)
	s.Source[0] = s.Source[0].Add(d)
	s.Source[1] = s.Source[1].Add(d)
	return s
}
