package appstate

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/config"
	"github.com/example/champimark/internal/geom"
	"github.com/example/champimark/internal/imageio"
	"github.com/example/champimark/internal/input"
	"github.com/example/champimark/internal/theme"
	"golang.org/x/mobile/event/key"
)

func TestDerivePath(t *testing.T) {
	cases := []struct {
		source, dir, want string
	}{
		{"/photos/room3.jpg", "", "/photos/room3" + sidecarSuffix},
		{"/photos/room3.jpg", "/out", "/out/room3" + sidecarSuffix},
		{"file:///photos/tray.png", "", "/photos/tray" + sidecarSuffix},
		{"https://example.com/rooms/a1.webp?x=1", "/out", "/out/a1" + sidecarSuffix},
		{"https://example.com/", "/out", "/out/annotations" + sidecarSuffix},
		{"data:image/png;base64,AAAA", "/out", "/out/annotations" + sidecarSuffix},
		{"", "", "annotations" + sidecarSuffix},
	}
	for _, c := range cases {
		if got := derivePath(c.source, c.dir, sidecarSuffix); got != filepath.FromSlash(c.want) {
			t.Errorf("derivePath(%q, %q) = %q, want %q", c.source, c.dir, got, c.want)
		}
	}
}

func TestKeymapLookup(t *testing.T) {
	m := newKeymap(bindings)
	cases := []struct {
		ev   key.Event
		want string
	}{
		{key.Event{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl}, "save"},
		{key.Event{Rune: -1, Code: key.CodeE, Modifiers: key.ModControl}, "export"},
		{key.Event{Rune: 'C', Code: key.CodeC, Modifiers: key.ModControl | key.ModShift}, "copyjson"},
		{key.Event{Rune: 'F', Code: key.CodeF}, "fit"},
		{key.Event{Code: key.CodeEscape}, "cancel"},
		{key.Event{Code: key.CodeDeleteBackspace}, "undo"},
	}
	for _, c := range cases {
		got, ok := m.lookup(c.ev)
		if !ok || got != c.want {
			t.Errorf("lookup(%+v) = %q, %v; want %q", c.ev, got, ok, c.want)
		}
	}
	if got, ok := m.lookup(key.Event{Rune: '+', Code: key.CodeEqualSign, Modifiers: key.ModShift}); ok {
		t.Errorf("zoom key was captured as %q", got)
	}
}

func TestCanvasLayout(t *testing.T) {
	c := canvasRect(800, 600)
	if c != image.Rect(0, toolbarHeight, 800, 600-statusHeight) {
		t.Fatalf("canvas = %v", c)
	}
	if got := bufferSize(c, 2); got != image.Pt(1600, 2*c.Dy()) {
		t.Fatalf("bufferSize x2 = %v", got)
	}
	if got := bufferSize(c, 0); got != c.Size() {
		t.Fatalf("bufferSize default = %v", got)
	}
	if tiny := canvasRect(0, 10); tiny.Dx() < 1 || tiny.Dy() < 1 {
		t.Fatalf("degenerate canvas = %v", tiny)
	}
}

func drawBox(a *AppState) {
	// default 800x600 canvas, 100x100 image centred at (350, 250)
	a.tool.Pointer(input.Pointer{ID: input.MouseID, Pos: geom.Pt(360, 260), Phase: input.PhaseDown})
	a.tool.Pointer(input.Pointer{ID: input.MouseID, Pos: geom.Pt(400, 300), Phase: input.PhaseMove})
	a.tool.Pointer(input.Pointer{ID: input.MouseID, Pos: geom.Pt(400, 300), Phase: input.PhaseUp})
}

func TestSaveAnnotations(t *testing.T) {
	p := filepath.Join(t.TempDir(), "room.json")
	cfg := config.New()
	cfg.Annotate.FitOnLoad = false
	var seen int
	a := New(WithConfig(cfg), WithSidecar(p), WithAnnotationsListener(func(s []annotation.Shape) { seen = len(s) }))
	if _, err := a.saveAnnotations(); err == nil {
		t.Fatal("expected error saving before an image is loaded")
	}
	a.tool.LoadImage(image.NewRGBA(image.Rect(0, 0, 100, 100)), "room.png")
	drawBox(a)
	if seen != 1 {
		t.Fatalf("listener saw %d shapes", seen)
	}

	got, err := a.saveAnnotations()
	if err != nil || got != p {
		t.Fatalf("saveAnnotations = %q, %v", got, err)
	}
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := annotation.ReadDocument(f)
	if err != nil {
		t.Fatal(err)
	}
	shapes, err := doc.Shapes()
	if err != nil || len(shapes) != 1 {
		t.Fatalf("shapes = %v, %v", shapes, err)
	}
	if b := shapes[0].BBox(); b != (annotation.BBox{10, 10, 40, 40}) {
		t.Fatalf("bbox = %v", b)
	}
}

func TestExportImage(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.OutputDir = dir
	cfg.Export.Format = "jpeg"
	a := New(WithConfig(cfg))
	a.tool.LoadImage(image.NewRGBA(image.Rect(0, 0, 64, 48)), "/photos/room.png")

	p, err := a.exportImage()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "room"+exportSuffix+".jpg"); p != want {
		t.Fatalf("export path = %q, want %q", p, want)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	img, err := imageio.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Fatalf("exported bounds = %v", img.Bounds())
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	seed := []annotation.Shape{annotation.NewShape(annotation.Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))}
	a := New(WithAnnotations(seed))
	a.clear()
	if len(a.tool.Annotations()) != 1 || !strings.Contains(a.message, "again") {
		t.Fatalf("first clear removed shapes or did not warn: %q", a.message)
	}
	a.clear()
	if len(a.tool.Annotations()) != 0 {
		t.Fatal("second clear did not remove shapes")
	}
}

func TestSelectKindSwitchesToAnnotate(t *testing.T) {
	a := New()
	acts := a.actions()
	acts["pan"]()
	if a.tool.Mode() != input.ModePan {
		t.Fatal("pan action did not switch mode")
	}
	acts["circle"]()
	if a.tool.Mode() != input.ModeAnnotate || a.tool.Kind() != annotation.Circle {
		t.Fatalf("mode = %v, kind = %v", a.tool.Mode(), a.tool.Kind())
	}
	acts["quit"]()
	if !a.quit {
		t.Fatal("quit action did not stop the loop")
	}
}

func TestNextTheme(t *testing.T) {
	l := &theme.Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	a := New(WithThemeLoader(l))
	a.nextTheme()
	if a.Theme.Name != "dark" {
		t.Fatalf("theme = %q, want dark", a.Theme.Name)
	}
	a.nextTheme()
	if a.Theme.Name != "high_contrast" {
		t.Fatalf("theme = %q, want high_contrast", a.Theme.Name)
	}
}

func TestStatusText(t *testing.T) {
	a := New(WithSource("/photos/room.png"))
	if got := a.status().String(); !strings.HasPrefix(got, "loading /photos/room.png") {
		t.Fatalf("status before load = %q", got)
	}
	a.tool.LoadImage(image.NewRGBA(image.Rect(0, 0, 10, 10)), "/photos/room.png")
	if got := a.status().String(); !strings.HasPrefix(got, "annotate | rectangle |") {
		t.Fatalf("status = %q", got)
	}
}

func TestUnknownShapeFallsBack(t *testing.T) {
	cfg := config.New()
	cfg.Annotate.Shape = "hexagon"
	if k := New(WithConfig(cfg)).tool.Kind(); k != annotation.Rectangle {
		t.Fatalf("kind = %v", k)
	}
}
