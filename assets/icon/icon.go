package icon

import (
	"image"
	"image/color"
)

// Theme colors from the app
var (
	accentBlue  = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	accentPurp  = color.RGBA{R: 0xAA, G: 0x5C, B: 0xC3, A: 0xFF}
	darkBG      = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	sliceEdge   = color.RGBA{R: 0x30, G: 0x30, B: 0x3C, A: 0xFF}
	tissueLight = color.RGBA{R: 0xD8, G: 0xD8, B: 0xD8, A: 0xE0}
	tissueDark  = color.RGBA{R: 0x70, G: 0x70, B: 0x78, A: 0xC0}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, darkBG)
	drawSlices(img, s)
	drawArrow(img, s)

	return img
}

// drawSlices draws three image slices fanned back to front, the front one
// showing a round cross-section.
func drawSlices(img *image.RGBA, s float64) {
	w, h := s*0.56, s*0.44
	for i := 2; i >= 0; i-- {
		off := float64(i) * s * 0.09
		x, y := s*0.10+off, s*0.38-off
		fillRoundedRect(img, x-1, y-1, w+2, h+2, s*0.05, sliceEdge)
		fill := accentPurp
		if i == 0 {
			fill = accentBlue
		}
		fillRoundedRect(img, x, y, w, h, s*0.04, fill)
	}

	cx, cy := s*0.10+w/2, s*0.38+h/2
	fillCircle(img, cx, cy, h*0.36, tissueDark)
	fillCircle(img, cx-h*0.06, cy-h*0.04, h*0.22, tissueLight)
}

// drawArrow draws the up/down drag hint on the right edge.
func drawArrow(img *image.RGBA, s float64) {
	x := s * 0.84
	shaftW := max(1, s*0.04)
	top, bottom := s*0.16, s*0.84
	fillRect(img, int(x-shaftW/2), int(top), int(shaftW+0.5), int(bottom-top), accentBlue)

	head := s * 0.08
	for i := 0; float64(i) < head; i++ {
		half := float64(i)
		fillRect(img, int(x-half), int(top)+i, int(2*half+1), 1, accentBlue)
		fillRect(img, int(x-half), int(bottom)-i, int(2*half+1), 1, accentBlue)
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	bounds := img.Bounds()
	for y := y0; y < y0+h && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+w && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			// Check if inside rounded rect
			fx := float64(x)
			fy := float64(y)
			inside := true

			// Check corners
			if fx < xf+r && fy < yf+r {
				// Top-left corner
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				// Top-right corner
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				// Bottom-left corner
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				// Bottom-right corner
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()
	x0 := int(cx - r)
	y0 := int(cy - r)
	x1 := int(cx + r + 1)
	y1 := int(cy + r + 1)
	r2 := r * r

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	// Existing pixel
	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	// Alpha blend
	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
