package ui

import "image/color"

// Colors for the dark reading-room theme
var (
	ColorBackground    = color.RGBA{R: 0x08, G: 0x08, B: 0x0A, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1C, G: 0x1C, B: 0x24, A: 0xFF}
	ColorPrimary       = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	ColorAccent        = color.RGBA{R: 0xAA, G: 0x5C, B: 0xC3, A: 0xFF}
	ColorText          = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x90, G: 0x90, B: 0x9C, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x60, G: 0x60, B: 0x6C, A: 0xFF}
	ColorFocusBorder   = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	ColorOverlay       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xC0}
	ColorError         = color.RGBA{R: 0xE0, G: 0x40, B: 0x40, A: 0xFF}
)

// Layout constants
const (
	PaneGap       = 8
	PanePadding   = 12
	PaneHeaderH   = 28
	ScrollBarW    = 6
	ScrollBarMinH = 12

	FontSizeHeading = 18
	FontSizeBody    = 14
	FontSizeSmall   = 12

	ScrollAnimSpeed = 0.25
)
