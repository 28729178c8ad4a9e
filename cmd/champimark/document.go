package main

import (
	"fmt"
	"os"

	"github.com/example/champimark/internal/annotation"
)

// readDocument loads an annotations file and decodes its shapes.
func readDocument(path string) (*annotation.Document, []annotation.Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()
	doc, err := annotation.ReadDocument(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	shapes, err := doc.Shapes()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, shapes, nil
}
