package main

import (
	"flag"
	"fmt"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/appstate"
)

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	source      string
	annotations string
	output      string
	export      string
	emit        bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.annotations, "annotations", "", "annotations `file` to start from")
	fs.StringVar(&a.output, "output", "", "annotations `file` written by Ctrl+S (default: -annotations, else next to the image)")
	fs.StringVar(&a.export, "export", "", "annotated `image` written by Ctrl+E (default: next to the image)")
	fs.BoolVar(&a.emit, "print", false, "write the final annotations as JSON to stdout on exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: a}
	}
	a.source = fs.Arg(0)
	return a, nil
}

func (a *annotateCmd) Run() error {
	var seed []annotation.Shape
	sidecar := a.output
	if a.annotations != "" {
		doc, shapes, err := readDocument(a.annotations)
		if err != nil {
			return err
		}
		seed = shapes
		if a.source == "" {
			a.source = doc.Image.Source
		}
		if sidecar == "" {
			sidecar = a.annotations
		}
	}

	var st *appstate.AppState
	opts := []appstate.Option{
		appstate.WithSource(a.source),
		appstate.WithAnnotations(seed),
		appstate.WithSidecar(sidecar),
		appstate.WithExportPath(a.export),
		appstate.WithConfig(a.config),
		appstate.WithTheme(a.activeTheme),
		appstate.WithThemeLoader(a.themes),
		appstate.WithNotifier(a.notifier),
	}
	var printErr error
	if a.emit {
		opts = append(opts, appstate.WithOnClose(func() {
			if err := annotation.WriteDocument(a.stdout, st.Tool().Document()); err != nil {
				printErr = fmt.Errorf("print annotations: %w", err)
			}
		}))
	}
	st = appstate.New(opts...)
	st.Run()
	return printErr
}
