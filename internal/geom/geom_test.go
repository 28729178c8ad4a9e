package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestTransformRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity,
		{Zoom: 2.5, Pan: Pt(-120, 33)},
		{Zoom: 0.5, Pan: Pt(40, 40)},
		{Zoom: 10, Pan: Pt(-9000.25, -1.5)},
	}
	points := []Point{Pt(0, 0), Pt(10, 10), Pt(123.456, 789.01), Pt(-5, 3)}
	for _, tr := range transforms {
		for _, p := range points {
			got := tr.BufferToImage(tr.ImageToBuffer(p))
			if !near(got, p) {
				t.Errorf("zoom %v pan %v: round trip %v -> %v", tr.Zoom, tr.Pan, p, got)
			}
		}
	}
}

func TestLayoutDisplayToBuffer(t *testing.T) {
	l := Layout{
		Display: Rect{Min: Pt(100, 50), Max: Pt(500, 350)},
		Buffer:  Sz(800, 600),
	}
	got := l.DisplayToBuffer(Pt(300, 200))
	if !near(got, Pt(400, 300)) {
		t.Fatalf("DisplayToBuffer = %v, want (400,300)", got)
	}
	back := l.BufferToDisplay(got)
	if !near(back, Pt(300, 200)) {
		t.Fatalf("BufferToDisplay = %v, want (300,200)", back)
	}
}

func TestLayoutDegenerateDisplay(t *testing.T) {
	l := Layout{Display: Rect{Min: Pt(10, 10), Max: Pt(10, 10)}, Buffer: Sz(200, 200)}
	got := l.DisplayToBuffer(Pt(15, 20))
	if !near(got, Pt(5, 10)) {
		t.Fatalf("degenerate layout mapped to %v", got)
	}
}

func TestClientToImage(t *testing.T) {
	l := Layout{Display: Rect{Max: Pt(400, 300)}, Buffer: Sz(800, 600)}
	tr := Transform{Zoom: 2, Pan: Pt(100, 0)}
	p := ClientToImage(Pt(100, 50), l, tr)
	if !near(p, Pt(50, 50)) {
		t.Fatalf("ClientToImage = %v, want (50,50)", p)
	}
	if c := ImageToClient(p, l, tr); !near(c, Pt(100, 50)) {
		t.Fatalf("ImageToClient = %v, want (100,50)", c)
	}
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Pt(50, 40), Pt(10, 10))
	if r.Min != Pt(10, 10) || r.Max != Pt(50, 40) {
		t.Fatalf("unexpected rect %+v", r)
	}
	if r.Dx() != 40 || r.Dy() != 30 {
		t.Fatalf("size %vx%v", r.Dx(), r.Dy())
	}
	if r.Center() != Pt(30, 25) {
		t.Fatalf("center %v", r.Center())
	}
}
