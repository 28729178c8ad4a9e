package annotation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/example/champimark/internal/geom"
)

func TestBBoxNormalize(t *testing.T) {
	s := NewShape(Rectangle, geom.Pt(50, 40), geom.Pt(10, 10))
	b := s.BBox()
	if b != (BBox{10, 10, 40, 30}) {
		t.Fatalf("bbox = %v", b)
	}
	n := b.Normalize(geom.Sz(100, 60))
	if n != (BBox{0.1, 10.0 / 60, 0.4, 0.5}) {
		t.Fatalf("normalized = %v", n)
	}
	if !n.LooksNormalized() {
		t.Fatal("normalized box not detected")
	}
}

func TestParsePixelBBox(t *testing.T) {
	if _, err := ParsePixelBBox([]float64{0.1, 0.2, 0.3, 0.4}); !errors.Is(err, ErrNormalizedBBox) {
		t.Fatalf("err = %v, want ErrNormalizedBBox", err)
	}
	if _, err := ParsePixelBBox([]float64{1, 2, 3}); !errors.Is(err, ErrInvalidBBox) {
		t.Fatalf("err = %v, want ErrInvalidBBox", err)
	}
	if _, err := ParsePixelBBox([]float64{10, 10, 0, 20}); !errors.Is(err, ErrInvalidBBox) {
		t.Fatalf("err = %v, want ErrInvalidBBox", err)
	}
	b, err := ParsePixelBBox([]float64{10, 10, 40, 30})
	if err != nil {
		t.Fatalf("ParsePixelBBox: %v", err)
	}
	s := ShapeFromBBox(Circle, b)
	if c, r := s.CircleGeometry(); c != geom.Pt(30, 25) || r != 15 {
		t.Fatalf("circle %v r=%v", c, r)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	shapes := []Shape{
		NewShape(Rectangle, geom.Pt(10, 10), geom.Pt(50, 40)),
		NewShape(Circle, geom.Pt(200, 100), geom.Pt(120, 20)),
	}
	var buf bytes.Buffer
	if err := WriteDocument(&buf, NewDocument("room3.jpg", geom.Sz(640, 480), shapes)); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	if !strings.Contains(buf.String(), `"kind": "circle"`) {
		t.Fatalf("kind not encoded as text:\n%s", buf.String())
	}
	doc, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if doc.Image.Width != 640 || doc.Image.Source != "room3.jpg" {
		t.Fatalf("image info = %+v", doc.Image)
	}
	got, err := doc.Shapes()
	if err != nil {
		t.Fatalf("Shapes: %v", err)
	}
	if len(got) != 2 || got[0] != shapes[0] || got[1] != shapes[1] {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, shapes)
	}
}

func TestReadDocumentLegacyBBox(t *testing.T) {
	in := `{"image":{"width":100,"height":100},"annotations":[{"bbox":[5,6,20,30]},{"kind":"circle","bbox":[0.1,0.1,0.2,0.2]}]}`
	doc, err := ReadDocument(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if _, err := doc.Shapes(); !errors.Is(err, ErrNormalizedBBox) {
		t.Fatalf("err = %v, want ErrNormalizedBBox", err)
	}
	doc.Annotations = doc.Annotations[:1]
	got, err := doc.Shapes()
	if err != nil {
		t.Fatalf("Shapes: %v", err)
	}
	if got[0].Kind != Rectangle || got[0].BBox() != (BBox{5, 6, 20, 30}) {
		t.Fatalf("legacy shape = %+v", got[0])
	}
}

func TestFromWireRejectsNormalizedPoints(t *testing.T) {
	in := []Wire{
		{Kind: Rectangle, Points: []WirePoint{{X: 12, Y: 8}, {X: 40, Y: 30}}},
		{Kind: Circle, Points: []WirePoint{{X: 0.1, Y: 0.2}, {X: 0.5, Y: 0.6}}},
	}
	if _, err := FromWire(in); !errors.Is(err, ErrNormalizedBBox) {
		t.Fatalf("err = %v, want ErrNormalizedBBox", err)
	}
	got, err := FromWire(in[:1])
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if got[0].BBox() != (BBox{12, 8, 28, 22}) {
		t.Fatalf("bbox = %v", got[0].BBox())
	}
}

func TestBoxes(t *testing.T) {
	shapes := []Shape{NewShape(Circle, geom.Pt(10, 20), geom.Pt(30, 60))}
	recs := Boxes(shapes, geom.Sz(100, 200), true)
	if len(recs) != 1 || recs[0].Box != (BBox{0.1, 0.1, 0.2, 0.2}) || recs[0].Kind != Circle {
		t.Fatalf("records = %+v", recs)
	}
}
