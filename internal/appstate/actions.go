package appstate

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/clipboard"
	"github.com/example/champimark/internal/imageio"
	"github.com/example/champimark/internal/input"
	"github.com/example/champimark/internal/render"
	"github.com/example/champimark/internal/theme"
)

const (
	sidecarSuffix = ".annotations.json"
	exportSuffix  = "_annotated"
)

var errNothingLoaded = errors.New("no image loaded")

// actions maps action names, shared by shortcuts and toolbar buttons, to
// their handlers.
func (a *AppState) actions() map[string]func() {
	return map[string]func(){
		"save":      a.report("save", "saved", a.saveAnnotations),
		"export":    a.report("export", "exported", a.exportImage),
		"copy":      a.reportErr("copy", a.copyImage),
		"copyjson":  a.reportErr("copy", a.copyAnnotations),
		"paste":     a.reportErr("paste", a.pasteImage),
		"undo":      a.tool.Undo,
		"clear":     a.clear,
		"annotate":  func() { a.tool.SetMode(input.ModeAnnotate) },
		"pan":       func() { a.tool.SetMode(input.ModePan) },
		"rectangle": func() { a.selectKind(annotation.Rectangle) },
		"circle":    func() { a.selectKind(annotation.Circle) },
		"fit":       a.tool.Fit,
		"actual":    a.tool.ResetZoom,
		"theme":     a.nextTheme,
		"cancel":    a.tool.Abort,
		"quit":      func() { a.quit = true },
	}
}

func (a *AppState) report(name, done string, fn func() (string, error)) func() {
	return func() {
		p, err := fn()
		if err != nil {
			log.Printf("%s: %v", name, err)
			a.flash(name + " failed")
			return
		}
		a.flash(done + " " + filepath.Base(p))
	}
}

func (a *AppState) reportErr(name string, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			log.Printf("%s: %v", name, err)
			a.flash(name + " failed")
		}
	}
}

func (a *AppState) selectKind(k annotation.Kind) {
	a.tool.SetKind(k)
	a.tool.SetMode(input.ModeAnnotate)
}

// clear asks for confirmation before wiping a non-empty list.
func (a *AppState) clear() {
	if len(a.tool.Annotations()) > 0 && !a.confirmClear {
		a.confirmClear = true
		a.flash("press again to clear all annotations")
		return
	}
	a.confirmClear = false
	a.tool.Clear()
}

func (a *AppState) sidecarPath() string {
	if a.Sidecar != "" {
		return a.Sidecar
	}
	return derivePath(a.tool.Source(), a.Config.OutputDir, sidecarSuffix)
}

func (a *AppState) exportPath() (string, error) {
	if a.ExportPath != "" {
		return a.ExportPath, nil
	}
	f, err := imageio.ParseFormat(a.Config.Export.Format)
	if err != nil {
		return "", err
	}
	return derivePath(a.tool.Source(), a.Config.OutputDir, exportSuffix+f.Ext()), nil
}

// saveAnnotations writes the annotations document and returns its path.
func (a *AppState) saveAnnotations() (string, error) {
	if !a.tool.Loaded() {
		return "", errNothingLoaded
	}
	p := a.sidecarPath()
	if err := writeFile(p, func(f *os.File) error { return annotation.WriteDocument(f, a.tool.Document()) }); err != nil {
		return "", err
	}
	a.Notifier.Save(p)
	return p, nil
}

// exportImage writes the annotated photograph and returns its path.
func (a *AppState) exportImage() (string, error) {
	img, err := a.tool.Export()
	if err != nil {
		return "", err
	}
	p, err := a.exportPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	opts := imageio.EncodeOptions{Quality: a.Config.Export.Quality}
	if err := imageio.Save(p, img, opts); err != nil {
		return "", err
	}
	a.Notifier.Export(p)
	return p, nil
}

func (a *AppState) copyImage() error {
	img, err := a.tool.Export()
	if err != nil {
		return err
	}
	if err := clipboard.WriteImage(img); err != nil {
		return err
	}
	a.flash("annotated image copied to clipboard")
	a.Notifier.Copy("annotated image")
	return nil
}

func (a *AppState) copyAnnotations() error {
	if !a.tool.Loaded() {
		return errNothingLoaded
	}
	var buf bytes.Buffer
	if err := annotation.WriteDocument(&buf, a.tool.Document()); err != nil {
		return err
	}
	if err := clipboard.WriteText(buf.String()); err != nil {
		return err
	}
	a.flash("annotations copied to clipboard")
	a.Notifier.Copy("annotations")
	return nil
}

// pasteImage replaces the photograph with the clipboard image. Existing
// annotations are kept.
func (a *AppState) pasteImage() error {
	img, err := clipboard.ReadImage()
	if err != nil {
		return err
	}
	a.Source = "clipboard"
	a.tool.LoadImage(img, "")
	a.flash("pasted image from clipboard")
	return nil
}

// nextTheme switches to the theme after the current one in name order.
func (a *AppState) nextTheme() {
	if a.Themes == nil {
		return
	}
	names := a.Themes.Names()
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, n := range names {
		if strings.EqualFold(n, a.Theme.Name) && i+1 < len(names) {
			next = names[i+1]
			break
		}
	}
	t, err := a.Themes.Load(next)
	if err != nil {
		log.Printf("theme: %v", err)
		return
	}
	if t.Name == "" || t.Name == "Default" {
		t.Name = next
	}
	a.setTheme(t)
	a.flash("theme " + next)
}

func (a *AppState) setTheme(t *theme.Theme) {
	a.Theme = t
	a.tool.SetPalette(render.PaletteFromTheme(t))
	if a.bar != nil {
		a.bar.setTheme(t)
	}
	a.requestPaint()
}

func writeFile(p string, fn func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	return f.Close()
}

// derivePath names an output file after the image source. Local images keep
// their directory unless dir is set; remote or in-memory sources fall back
// to "annotations" in dir or the working directory.
func derivePath(source, dir, suffix string) string {
	base := "annotations"
	switch {
	case source == "", strings.HasPrefix(source, "data:"):
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"), strings.HasPrefix(source, "file://"):
		if u, err := url.Parse(source); err == nil {
			if name := path.Base(u.Path); name != "/" && name != "." {
				base = strings.TrimSuffix(name, path.Ext(name))
			}
			if u.Scheme == "file" && dir == "" {
				dir = filepath.Dir(filepath.FromSlash(u.Path))
			}
		}
	case !strings.Contains(source, "://"):
		base = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		if dir == "" {
			dir = filepath.Dir(source)
		}
	}
	return filepath.Join(dir, base+suffix)
}

func describe(src string) string {
	if src == "" {
		return ""
	}
	return imageio.Describe(src)
}
