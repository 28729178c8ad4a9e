package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/champimark/internal/annotation"
	"github.com/example/champimark/internal/geom"
)

var errNoImageSize = errors.New("annotations file has no image size to normalise against")

// boxesCmd lists the bounding boxes in an annotations file.
type boxesCmd struct {
	file       string
	normalized bool
	asJSON     bool
	*root
	fs *flag.FlagSet
}

func (b *boxesCmd) FlagSet() *flag.FlagSet {
	return b.fs
}

func parseBoxesCmd(args []string, r *root) (*boxesCmd, error) {
	fs := flag.NewFlagSet("boxes", flag.ExitOnError)
	b := &boxesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(b)
	def := false
	if r != nil && r.config != nil {
		def = r.config.Export.Normalized
	}
	fs.BoolVar(&b.normalized, "normalized", def, "divide boxes by the image width and height")
	fs.BoolVar(&b.asJSON, "json", false, "print a JSON array instead of text lines")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: b}
	}
	b.file = fs.Arg(0)
	return b, nil
}

type boxJSON struct {
	Index int             `json:"index"`
	Kind  annotation.Kind `json:"kind"`
	BBox  [4]float64      `json:"bbox"`
}

func (b *boxesCmd) Run() error {
	doc, shapes, err := readDocument(b.file)
	if err != nil {
		return err
	}
	size := geom.Sz(float64(doc.Image.Width), float64(doc.Image.Height))
	if b.normalized && size.Empty() {
		return errNoImageSize
	}
	records := annotation.Boxes(shapes, size, b.normalized)

	if b.asJSON {
		out := make([]boxJSON, 0, len(records))
		for _, r := range records {
			out = append(out, boxJSON{Index: r.Index, Kind: r.Kind, BBox: r.Box})
		}
		enc := json.NewEncoder(b.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(b.stdout, "%d %s %s\n", r.Index, r.Kind, formatBox(r.Box, b.normalized)); err != nil {
			return err
		}
	}
	return nil
}

func formatBox(box annotation.BBox, normalized bool) string {
	prec := 1
	if normalized {
		prec = 4
	}
	parts := make([]string, len(box))
	for i, v := range box {
		parts[i] = strconv.FormatFloat(v, 'f', prec, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
