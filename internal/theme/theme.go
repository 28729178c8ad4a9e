package theme

import (
	"image/color"
)

// Theme defines the color palette for the annotation window and the shapes
// drawn on the photograph.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background behind the canvas
	Foreground color.RGBA // Main text color

	// Toolbar & status bar
	ToolbarBackground color.RGBA
	StatusBackground  color.RGBA
	StatusText        color.RGBA

	// Tool Buttons
	ButtonBackground       color.RGBA
	ButtonBackgroundHover  color.RGBA
	ButtonBackgroundActive color.RGBA
	ButtonText             color.RGBA
	ButtonTextActive       color.RGBA
	ButtonBorder           color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Annotations
	RectFill      color.RGBA
	RectStroke    color.RGBA
	CircleFill    color.RGBA
	CircleStroke  color.RGBA
	PreviewFill   color.RGBA
	PreviewStroke color.RGBA
	LabelText     color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                   "Default",
		Background:             color.RGBA{220, 220, 220, 255},
		Foreground:             color.RGBA{0, 0, 0, 255},
		ToolbarBackground:      color.RGBA{220, 220, 220, 255},
		StatusBackground:       color.RGBA{210, 210, 210, 255},
		StatusText:             color.RGBA{0, 0, 0, 255},
		ButtonBackground:       color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover:  color.RGBA{180, 180, 180, 255},
		ButtonBackgroundActive: color.RGBA{150, 150, 150, 255},
		ButtonText:             color.RGBA{0, 0, 0, 255},
		ButtonTextActive:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:           color.RGBA{0, 0, 0, 255},
		CheckerLight:           color.RGBA{220, 220, 220, 255},
		CheckerDark:            color.RGBA{192, 192, 192, 255},
		RectFill:               color.RGBA{255, 0, 0, 128},
		RectStroke:             color.RGBA{255, 0, 0, 255},
		CircleFill:             color.RGBA{254, 202, 202, 90},
		CircleStroke:           color.RGBA{239, 68, 68, 255},
		PreviewFill:            color.RGBA{255, 0, 0, 51},
		PreviewStroke:          color.RGBA{255, 0, 0, 255},
		LabelText:              color.RGBA{255, 255, 255, 255},
	}
}
