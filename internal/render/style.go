package render

import (
	"image/color"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/theme"
)

// Style is how one kind of shape is painted. Colours carry straight alpha.
type Style struct {
	Fill      color.NRGBA
	Stroke    color.NRGBA
	LineWidth float64
}

// Palette collects the colours used for a frame.
type Palette struct {
	Background   color.RGBA
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	CheckerSize  int
	Label        color.NRGBA

	Rectangle Style
	Circle    Style
	Preview   Style
}

// PaletteFromTheme derives a palette from a UI theme.
func PaletteFromTheme(t *theme.Theme) Palette {
	if t == nil {
		t = theme.Default()
	}
	return Palette{
		Background:   t.Background,
		CheckerLight: t.CheckerLight,
		CheckerDark:  t.CheckerDark,
		CheckerSize:  8,
		Label:        straight(t.LabelText),
		Rectangle:    Style{Fill: straight(t.RectFill), Stroke: straight(t.RectStroke), LineWidth: 2},
		Circle:       Style{Fill: straight(t.CircleFill), Stroke: straight(t.CircleStroke), LineWidth: 2},
		Preview:      Style{Fill: straight(t.PreviewFill), Stroke: straight(t.PreviewStroke), LineWidth: 1},
	}
}

// straight reinterprets a theme colour, written as #RRGGBBAA, as
// non-premultiplied.
func straight(c color.RGBA) color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// For returns the style of a committed shape of kind k.
func (p Palette) For(k annotation.Kind) Style {
	if k == annotation.Circle {
		return p.Circle
	}
	return p.Rectangle
}
