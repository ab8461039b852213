package config

import (
	"os"

	"golang.org/x/term"
)

// Rough pixel size of a terminal cell, used when the viewport is derived
// from the terminal size
const (
	cellWidthPx  = 8
	cellHeightPx = 16

	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// ResolveViewport returns the configured viewport in pixels. Missing
// dimensions are estimated from the terminal size, or a 1920x1080 screen when
// stdout is not a terminal.
func (v ViewportConfig) ResolveViewport() (width, height int) {
	if v.Width > 0 && v.Height > 0 {
		return v.Width, v.Height
	}

	width, height = fallbackWidth, fallbackHeight
	if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 && rows > 0 {
		width, height = cols*cellWidthPx, rows*cellHeightPx
	}

	if v.Width > 0 {
		width = v.Width
	}
	if v.Height > 0 {
		height = v.Height
	}
	return width, height
}
