package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/champimark/internal/config"
	"github.com/example/champimark/internal/notify"
	"github.com/example/champimark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	configPath   string
	saveAlerts   bool
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	activeTheme  *theme.Theme
	themes       *theme.Loader
	stdout       io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// subcommand returns a copy of r whose program name includes name, for help
// output.
func (r *root) subcommand(name string) *root {
	c := *r
	c.program = strings.TrimSpace(r.program + " " + name)
	return &c
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r := newRootWith(cfg, notify.New(notify.LoadPreferences()))
	r.configPath = loader.Path()
	return r
}

func newRootWith(cfg *config.Config, n *notify.Notifier) *root {
	r := &root{
		fs:       flag.NewFlagSet("champimark", flag.ExitOnError),
		program:  "champimark",
		notifier: n,
		config:   cfg,
		stdout:   os.Stdout,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving annotations")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an annotated image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.themeName, "theme", "", "color `theme` to use (default, light, dark, high_contrast or a file)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r.subcommand(cmdName))
	case "render":
		cmd, err = parseRenderCmd(subArgs, r.subcommand(cmdName))
	case "boxes":
		cmd, err = parseBoxesCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadTheme resolves the -theme flag, $CHAMPIMARK_THEME and the config file,
// falling back to the built-in theme.
func (r *root) loadTheme() {
	r.themes = r.config.ThemeLoader()
	name := r.config.ThemeName(r.themeName)
	t, err := r.themes.Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		t = theme.Default()
	}
	r.activeTheme = t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
