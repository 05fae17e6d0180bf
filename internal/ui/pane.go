package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Rect is a screen-space rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return PointInRect(x, y, r.X, r.Y, r.W, r.H)
}

// Pane is the chrome around one viewport: header, image area and scroll bar.
type Pane struct {
	Title     string
	Bounds    Rect
	Indicator ScrollIndicator
}

// ImageArea is the part of the pane the viewport draws into; its height is
// the viewport's on-screen height.
func (p *Pane) ImageArea() Rect {
	b := p.Bounds
	return Rect{
		X: b.X,
		Y: b.Y + PaneHeaderH,
		W: max(0, b.W-ScrollBarW-PanePadding/2),
		H: max(0, b.H-PaneHeaderH),
	}
}

// LayoutRow splits a row of width w and height h into n panes.
func LayoutRow(n int, w, h float64) []Rect {
	if n <= 0 {
		return nil
	}
	paneW := (w - PaneGap*float64(n+1)) / float64(n)
	rects := make([]Rect, n)
	for i := range rects {
		rects[i] = Rect{
			X: PaneGap + float64(i)*(paneW+PaneGap),
			Y: PaneGap,
			W: max(0, paneW),
			H: max(0, h-2*PaneGap),
		}
	}
	return rects
}

// Draw renders the pane. img may be nil, in which case status is shown instead.
func (p *Pane) Draw(dst *ebiten.Image, img *ebiten.Image, index, count int, status string, focused bool) {
	b := p.Bounds
	vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), ColorSurface, false)

	DrawText(dst, p.Title, b.X+PanePadding, b.Y+6, FontSizeHeading, ColorText)
	if count > 0 {
		label := fmt.Sprintf("%d / %d", index+1, count)
		w, _ := MeasureText(label, FontSizeBody)
		DrawText(dst, label, b.X+b.W-w-PanePadding-ScrollBarW, b.Y+8, FontSizeBody, ColorTextSecondary)
	}

	area := p.ImageArea()
	if img != nil {
		drawFit(dst, img, area)
	} else if status != "" {
		DrawTextCentered(dst, status, area.X+area.W/2, area.Y+area.H/2, FontSizeBody, ColorTextMuted)
	}

	p.Indicator.SetIndex(index, count)
	p.Indicator.Animate()
	trackX := b.X + b.W - ScrollBarW - 2
	top, h := p.Indicator.Thumb(area.H, count)
	if h > 0 {
		vector.DrawFilledRect(dst, float32(trackX), float32(area.Y+top), ScrollBarW, float32(h), ColorAccent, false)
	}

	if focused {
		vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, ColorFocusBorder, false)
	}
}

// drawFit draws img scaled to fit inside area, centred, keeping aspect ratio.
func drawFit(dst, img *ebiten.Image, area Rect) {
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	if iw == 0 || ih == 0 || area.W <= 0 || area.H <= 0 {
		return
	}
	scale := min(area.W/iw, area.H/ih)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(area.X+(area.W-iw*scale)/2, area.Y+(area.H-ih*scale)/2)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}
