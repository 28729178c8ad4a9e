package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/example/champimark/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	toolbarHeight = 28
	statusHeight  = 22
	buttonPadding = 8
	buttonGap     = 4
)

var labelFace font.Face = basicfont.Face7x13

var messageFace = func() font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}()

// canvasRect is the part of a width x height window the photograph occupies.
func canvasRect(width, height int) image.Rectangle {
	r := image.Rect(0, toolbarHeight, width, height-statusHeight)
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	return r
}

// bufferSize is the render buffer size for a canvas at the given scale.
func bufferSize(canvas image.Rectangle, scale float64) image.Point {
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(float64(canvas.Dx())*scale+0.5))
	h := max(1, int(float64(canvas.Dy())*scale+0.5))
	return image.Pt(w, h)
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.Invalidate()
	}
}

// Invalidate drops the cached renderings, for example after a theme change.
func (cb *CacheButton) Invalidate() { cb.cache = [3]*image.RGBA{} }

// ActionButton is a labelled toolbar button.
type ActionButton struct {
	label    string
	rect     image.Rectangle
	theme    *theme.Theme
	onClick  func()
	selected func() bool
}

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.theme.ButtonBackground, b.theme.ButtonText
	switch state {
	case StateHover:
		bg = b.theme.ButtonBackgroundHover
	case StatePressed:
		bg, fg = b.theme.ButtonBackgroundActive, b.theme.ButtonTextActive
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	outline(dst, b.rect, b.theme.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: labelFace,
		Dot: fixed.P(b.rect.Min.X+buttonPadding/2, b.rect.Min.Y+b.rect.Dy()/2+4)}
	d.DrawString(b.label)
}

func (b *ActionButton) Rect() image.Rectangle     { return b.rect }
func (b *ActionButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *ActionButton) Activate() {
	if b.onClick != nil {
		b.onClick()
	}
}

// Selected reports whether the button reflects the current mode or shape.
func (b *ActionButton) Selected() bool { return b.selected != nil && b.selected() }

func buttonWidth(label string) int {
	d := &font.Drawer{Face: labelFace}
	return d.MeasureString(label).Ceil() + buttonPadding
}

// toolbar lays out and draws a row of buttons along the top of the window.
type toolbar struct {
	buttons []*CacheButton
	hover   int
}

func newToolbar(t *theme.Theme, specs []buttonSpec) *toolbar {
	tb := &toolbar{hover: -1}
	x := buttonGap
	for _, s := range specs {
		w := buttonWidth(s.label)
		b := &ActionButton{label: s.label, theme: t, onClick: s.onClick, selected: s.selected}
		b.SetRect(image.Rect(x, 3, x+w, toolbarHeight-3))
		tb.buttons = append(tb.buttons, &CacheButton{Button: b})
		x += w + buttonGap
	}
	return tb
}

type buttonSpec struct {
	label    string
	onClick  func()
	selected func() bool
}

func (tb *toolbar) setTheme(t *theme.Theme) {
	for _, cb := range tb.buttons {
		cb.Button.(*ActionButton).theme = t
		cb.Invalidate()
	}
}

// at returns the index of the button under p, or -1.
func (tb *toolbar) at(p image.Point) int {
	for i, cb := range tb.buttons {
		if p.In(cb.Rect()) {
			return i
		}
	}
	return -1
}

func (tb *toolbar) draw(dst *image.RGBA, t *theme.Theme) {
	bar := image.Rect(0, 0, dst.Bounds().Dx(), toolbarHeight)
	draw.Draw(dst, bar, &image.Uniform{t.ToolbarBackground}, image.Point{}, draw.Src)
	for i, cb := range tb.buttons {
		state := StateDefault
		if cb.Button.(*ActionButton).Selected() {
			state = StatePressed
		} else if i == tb.hover {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

// status is the text shown in the bottom bar.
type status struct {
	mode   string
	shape  string
	zoom   float64
	count  int
	loaded bool
	source string
}

func (s status) String() string {
	if !s.loaded {
		if s.source == "" {
			return "no image - Ctrl+V to paste one"
		}
		return "loading " + s.source
	}
	return fmt.Sprintf("%s | %s | %.0f%% | %d annotations | ^S save ^E export ^C copy ^Z undo F fit Q quit",
		s.mode, s.shape, s.zoom*100, s.count)
}

func drawStatus(dst *image.RGBA, t *theme.Theme, text string) {
	b := dst.Bounds()
	bar := image.Rect(0, b.Max.Y-statusHeight, b.Dx(), b.Max.Y)
	draw.Draw(dst, bar, &image.Uniform{t.StatusBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.StatusText), Face: labelFace,
		Dot: fixed.P(bar.Min.X+6, bar.Min.Y+statusHeight/2+4)}
	d.DrawString(text)
}

// drawMessage shows a transient notice centred in the window.
func drawMessage(dst *image.RGBA, t *theme.Theme, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.Foreground), Face: messageFace}
	w := d.MeasureString(msg).Ceil()
	m := messageFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	b := dst.Bounds()
	px := (b.Dx() - w) / 2
	py := (b.Dy()-ascent-descent)/2 + ascent
	box := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	bg := color.NRGBA{R: t.Background.R, G: t.Background.G, B: t.Background.B, A: 230}
	draw.Draw(dst, box, &image.Uniform{bg}, image.Point{}, draw.Over)
	outline(dst, box, t.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func outline(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := &image.Uniform{c}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
