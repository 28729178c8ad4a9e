package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = grow_room
output_dir = /tmp/annotated

[annotate]
shape = circle
min_size = 8
max_zoom = 4
render_scale: 2
fit_on_load = false

[export]
format = WebP
quality = 75
normalized = true

[notify]
save = true
export = false
copy = true

[theme.grow_room]
Background = #111111
RectStroke = #00FF00
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "grow_room" {
		t.Errorf("theme = %q", cfg.Theme)
	}
	if cfg.OutputDir != "/tmp/annotated" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
	a := cfg.Annotate
	if a.Shape != "circle" || a.MinSize != 8 || a.MaxZoom != 4 || a.RenderScale != 2 || a.FitOnLoad {
		t.Errorf("annotate = %+v", a)
	}
	if a.MinZoom != 0.5 || a.WheelStep != 0.1 || !a.Labels {
		t.Errorf("annotate defaults lost: %+v", a)
	}
	if cfg.Export != (Export{Format: "webp", Quality: 75, Normalized: true}) {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Notify != (Notify{Save: true, Copy: true}) {
		t.Errorf("notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["grow_room"]
	if !ok {
		t.Fatal("expected theme grow_room to be loaded")
	}
	if th.Background.R != 0x11 || th.RectStroke.G != 0xFF {
		t.Errorf("theme colours = %+v %+v", th.Background, th.RectStroke)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad float":   "[annotate]\nmin_zoom = fast\n",
		"negative":    "[annotate]\nmin_size = -1\n",
		"quality":     "[export]\nquality = 101\n",
		"bool":        "[notify]\nsave = sometimes\n",
		"theme color": "[theme.x]\nBackground = red\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
output_dir = /home/user/rooms

[annotate]
shape = circle
wheel_step = 0.25

[export]
format = jpeg
quality = 60

[notify]
save = true
export = true
copy = false

[theme.custom]
Name = custom
Background = #000000
PreviewFill = #FF000033
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.OutputDir != cfg2.OutputDir {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Annotate != cfg2.Annotate {
		t.Errorf("annotate mismatch: %+v vs %+v", cfg.Annotate, cfg2.Annotate)
	}
	if cfg.Export != cfg2.Export {
		t.Errorf("export mismatch: %+v vs %+v", cfg.Export, cfg2.Export)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	t1, t2 := cfg.Themes["custom"], cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatal("custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestThemeNamePrecedence(t *testing.T) {
	cfg := New()
	cfg.Theme = "light"
	t.Setenv(ThemeEnv, "")
	if got := cfg.ThemeName(""); got != "light" {
		t.Errorf("config only = %q", got)
	}
	t.Setenv(ThemeEnv, "dark")
	if got := cfg.ThemeName(""); got != "dark" {
		t.Errorf("env over config = %q", got)
	}
	if got := cfg.ThemeName("high_contrast"); got != "high_contrast" {
		t.Errorf("flag over env = %q", got)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(p, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("v1.0.0", p)
	if got := l.Path(); got != p {
		t.Fatalf("Path() = %q, want %q", got, p)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("theme = %q", cfg.Theme)
	}
}

func TestLoaderMissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader("v1.0.0", "").Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Export.Format != "png" || cfg.Annotate.MinSize != 5 {
		t.Errorf("defaults = %+v", cfg)
	}
}
