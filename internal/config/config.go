package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/example/champimark/internal/theme"
)

// ThemeEnv overrides the configured theme when set.
const ThemeEnv = "CHAMPIMARK_THEME"

// Annotate holds the interactive tool settings.
type Annotate struct {
	Shape       string
	MinSize     float64
	MinZoom     float64
	MaxZoom     float64
	WheelStep   float64
	RenderScale float64
	FitOnLoad   bool
	Labels      bool
}

// Export holds settings for annotated image and box output.
type Export struct {
	Format     string
	Quality    int
	Normalized bool
}

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	OutputDir string
	Annotate  Annotate
	Export    Export
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Annotate: Annotate{
			Shape:       "rectangle",
			MinSize:     5,
			MinZoom:     0.5,
			MaxZoom:     10,
			WheelStep:   0.1,
			RenderScale: 1,
			FitOnLoad:   true,
			Labels:      true,
		},
		Export: Export{
			Format:  "png",
			Quality: 90,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ThemeName resolves the theme to use: flag, then $CHAMPIMARK_THEME, then
// the config file. An empty result means the built-in default.
func (c *Config) ThemeName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ThemeEnv); env != "" {
		return env
	}
	return c.Theme
}

// ThemeLoader returns a theme loader that also knows the inline themes.
func (c *Config) ThemeLoader() *theme.Loader {
	l := theme.NewLoader()
	l.Overrides = c.Themes
	return l
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[annotate]\n")
	fmt.Fprintf(&sb, "shape = %s\n", c.Annotate.Shape)
	fmt.Fprintf(&sb, "min_size = %g\n", c.Annotate.MinSize)
	fmt.Fprintf(&sb, "min_zoom = %g\n", c.Annotate.MinZoom)
	fmt.Fprintf(&sb, "max_zoom = %g\n", c.Annotate.MaxZoom)
	fmt.Fprintf(&sb, "wheel_step = %g\n", c.Annotate.WheelStep)
	fmt.Fprintf(&sb, "render_scale = %g\n", c.Annotate.RenderScale)
	fmt.Fprintf(&sb, "fit_on_load = %v\n", c.Annotate.FitOnLoad)
	fmt.Fprintf(&sb, "labels = %v\n", c.Annotate.Labels)
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "format = %s\n", c.Export.Format)
	fmt.Fprintf(&sb, "quality = %d\n", c.Export.Quality)
	fmt.Fprintf(&sb, "normalized = %v\n", c.Export.Normalized)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		theme.Write(&sb, c.Themes[name])
	}

	return sb.String()
}
