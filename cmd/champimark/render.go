package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/champimark/internal/imageio"
	"github.com/example/champimark/internal/render"
)

// renderCmd draws a saved annotations file onto its photograph.
type renderCmd struct {
	source      string
	annotations string
	output      string
	timeout     time.Duration
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.annotations, "annotations", "", "annotations `file` to draw")
	fs.StringVar(&c.output, "output", "", "output `image`; the extension picks the format (default: annotated plus the configured format)")
	fs.DurationVar(&c.timeout, "timeout", 30*time.Second, "`limit` for fetching a remote image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.annotations == "" || fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	c.source = fs.Arg(0)
	return c, nil
}

func (c *renderCmd) Run() error {
	doc, shapes, err := readDocument(c.annotations)
	if err != nil {
		return err
	}
	src := c.source
	if src == "" {
		src = doc.Image.Source
	}
	if src == "" {
		return fmt.Errorf("%s records no image source; pass one as an argument", c.annotations)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	img, err := imageio.NewFetcher().Load(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", imageio.Describe(src), err)
	}
	if b := img.Bounds(); doc.Image.Width > 0 && (b.Dx() != doc.Image.Width || b.Dy() != doc.Image.Height) {
		fmt.Fprintf(os.Stderr, "warning: image is %dx%d but annotations were made on %dx%d\n",
			b.Dx(), b.Dy(), doc.Image.Width, doc.Image.Height)
	}

	out, err := c.outputPath()
	if err != nil {
		return err
	}
	r := render.New(render.PaletteFromTheme(c.activeTheme), render.WithLabels(c.config.Annotate.Labels))
	annotated := r.Annotate(img, shapes)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imageio.Save(out, annotated, imageio.EncodeOptions{Quality: c.config.Export.Quality}); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d annotations)\n", out, len(shapes))
	c.notifier.Export(out)
	return nil
}

func (c *renderCmd) outputPath() (string, error) {
	if c.output != "" {
		return c.output, nil
	}
	f, err := imageio.ParseFormat(c.config.Export.Format)
	if err != nil {
		return "", err
	}
	name := "annotated" + f.Ext()
	if c.config.OutputDir != "" {
		name = filepath.Join(c.config.OutputDir, name)
	}
	return name, nil
}
