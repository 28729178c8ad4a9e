// Package clipboard moves photographs, annotated images and annotation JSON
// through the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"os"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/example/champimark/internal/imageio"
)

var (
	// ErrEmpty is returned when the clipboard has nothing of the requested
	// kind.
	ErrEmpty     = errors.New("clipboard does not contain the requested data")
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

// hasDisplay reports whether a clipboard server can be reached. Only X11
// and Wayland sessions need an environment variable to find one.
func hasDisplay() bool {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return imageio.Decode(data)
}
