package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spacemonkeygo/monkit/v3"
)

var debugOverlayVisible bool

// ToggleDebugOverlay toggles the debug overlay on F12.
func ToggleDebugOverlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		debugOverlayVisible = !debugOverlayVisible
	}
}

// MetricLines renders the counters of src whose series mention filter,
// sorted, as "name value" lines.
func MetricLines(src monkit.StatSource, filter string) []string {
	var lines []string
	for key, val := range monkit.Collect(src) {
		if filter != "" && !strings.Contains(key, filter) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %g", shortMetricName(key), val))
	}
	sort.Strings(lines)
	return lines
}

// shortMetricName drops the scope tag monkit adds to every series.
func shortMetricName(key string) string {
	name, rest, ok := strings.Cut(key, ",")
	if !ok {
		return key
	}
	if i := strings.LastIndexAny(rest, " "); i >= 0 {
		return name + rest[i:]
	}
	return name
}

// DrawDebugOverlay draws the debug overlay if visible.
func DrawDebugOverlay(screen *ebiten.Image, residual float64) {
	if !debugOverlayVisible {
		return
	}

	const (
		padX    = 16.0
		padY    = 12.0
		lineH   = 18.0
		marginR = 20.0
		marginT = 20.0
	)

	lines := MetricLines(monkit.Default, "stackscroll")

	panelH := float64(len(lines)+3)*lineH + padY*2
	panelW := 460.0
	px := float64(screen.Bounds().Dx()) - panelW - marginR
	py := marginT

	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY

	DrawText(screen, "Debug: scroll metrics (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH
	DrawText(screen, fmt.Sprintf("residual offset  %.3f px", residual), x, y, FontSizeSmall, ColorText)
	y += lineH * 1.5

	if len(lines) == 0 {
		DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
		return
	}
	for _, line := range lines {
		DrawText(screen, line, x, y, FontSizeSmall, ColorText)
		y += lineH
	}
}
