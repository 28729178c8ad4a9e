package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/example/champimark/internal/geom"
)

var (
	// ErrNormalizedBBox is returned when a box looks like it was scaled to
	// [0,1]. Stored boxes are always in image pixels.
	ErrNormalizedBBox = errors.New("bbox appears normalized, want pixel coordinates")
	ErrInvalidBBox    = errors.New("invalid bbox")
)

// WirePoint is the serialised form of a point.
type WirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Wire is the serialised form of a shape handed to form submission. Points
// are the raw drag endpoints; BBox is only read for legacy entries that
// carry no points.
type Wire struct {
	Kind   Kind        `json:"kind"`
	Points []WirePoint `json:"points,omitempty"`
	BBox   []float64   `json:"bbox,omitempty"`
}

// BBox is [x, y, width, height] with x, y the top-left corner.
type BBox [4]float64

// BBox returns the pixel bounding box of s.
func (s Shape) BBox() BBox {
	return BBox{s.Origin.X, s.Origin.Y, s.Width, s.Height}
}

// Normalize divides the box by the natural image size.
func (b BBox) Normalize(size geom.Size) BBox {
	if size.Empty() {
		return b
	}
	return BBox{b[0] / size.W, b[1] / size.H, b[2] / size.W, b[3] / size.H}
}

// Denormalize multiplies a [0,1] box by the natural image size.
func (b BBox) Denormalize(size geom.Size) BBox {
	return BBox{b[0] * size.W, b[1] * size.H, b[2] * size.W, b[3] * size.H}
}

// LooksNormalized reports whether every value is at most 1.
func (b BBox) LooksNormalized() bool {
	for _, v := range b {
		if v > 1 {
			return false
		}
	}
	return true
}

// ParsePixelBBox validates a raw [x, y, w, h] slice in image pixels.
func ParsePixelBBox(v []float64) (BBox, error) {
	if len(v) != 4 {
		return BBox{}, fmt.Errorf("%w: want 4 values, got %d", ErrInvalidBBox, len(v))
	}
	var b BBox
	copy(b[:], v)
	for _, f := range b {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return BBox{}, fmt.Errorf("%w: non-finite value", ErrInvalidBBox)
		}
	}
	if b.LooksNormalized() {
		return BBox{}, ErrNormalizedBBox
	}
	if b[2] <= 0 || b[3] <= 0 {
		return BBox{}, fmt.Errorf("%w: non-positive size %vx%v", ErrInvalidBBox, b[2], b[3])
	}
	return b, nil
}

// ShapeFromBBox rebuilds a shape from a pixel box.
func ShapeFromBBox(kind Kind, b BBox) Shape {
	return NewShape(kind, geom.Pt(b[0], b[1]), geom.Pt(b[0]+b[2], b[1]+b[3]))
}

// ToWire converts shapes into their serialised form.
func ToWire(shapes []Shape) []Wire {
	out := make([]Wire, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, Wire{
			Kind: s.Kind,
			Points: []WirePoint{
				{X: s.Source[0].X, Y: s.Source[0].Y},
				{X: s.Source[1].X, Y: s.Source[1].Y},
			},
		})
	}
	return out
}

// FromWire converts serialised shapes back, rejecting malformed entries.
func FromWire(in []Wire) ([]Shape, error) {
	out := make([]Shape, 0, len(in))
	for i, w := range in {
		switch {
		case len(w.Points) == 2:
			a := geom.Pt(w.Points[0].X, w.Points[0].Y)
			b := geom.Pt(w.Points[1].X, w.Points[1].Y)
			s := NewShape(w.Kind, a, b)
			if !s.Valid() {
				return nil, fmt.Errorf("annotation %d: %w: zero area", i, ErrInvalidBBox)
			}
			if s.BBox().LooksNormalized() {
				return nil, fmt.Errorf("annotation %d: points: %w", i, ErrNormalizedBBox)
			}
			out = append(out, s)
		case len(w.BBox) > 0:
			b, err := ParsePixelBBox(w.BBox)
			if err != nil {
				return nil, fmt.Errorf("annotation %d: %w", i, err)
			}
			out = append(out, ShapeFromBBox(w.Kind, b))
		default:
			return nil, fmt.Errorf("annotation %d: no points or bbox", i)
		}
	}
	return out, nil
}

// ImageInfo describes the photograph a document refers to.
type ImageInfo struct {
	Source string `json:"source,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Document is the sidecar file stored next to an annotated photograph.
type Document struct {
	Image       ImageInfo `json:"image"`
	Annotations []Wire    `json:"annotations"`
}

// NewDocument builds a document for shapes drawn on an image.
func NewDocument(source string, size geom.Size, shapes []Shape) *Document {
	return &Document{
		Image:       ImageInfo{Source: source, Width: int(size.W), Height: int(size.H)},
		Annotations: ToWire(shapes),
	}
}

// Shapes decodes the document's annotations.
func (d *Document) Shapes() ([]Shape, error) { return FromWire(d.Annotations) }

// ReadDocument decodes a document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	return &d, nil
}

// WriteDocument encodes d to w with indentation.
func WriteDocument(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}
	return nil
}

// BoxRecord is one line of the boxes listing: an index, the kind and the
// [x, y, w, h] box in pixels or normalised units.
type BoxRecord struct {
	Index int
	Kind  Kind
	Box   BBox
}

// Boxes lists the bounding boxes of shapes, optionally normalised by size.
func Boxes(shapes []Shape, size geom.Size, normalized bool) []BoxRecord {
	out := make([]BoxRecord, 0, len(shapes))
	for i, s := range shapes {
		b := s.BBox()
		if normalized {
			b = b.Normalize(size)
		}
		out = append(out, BoxRecord{Index: i, Kind: s.Kind, Box: b})
	}
	return out
}
